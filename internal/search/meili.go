package search

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"unihub/internal/model"
)

const idxDocuments = "unihub_documents"

var (
	filterableAttributes = []string{"university", "faculty", "course", "documentType"}
	searchableAttributes = []string{"documentTitle", "description", "tags", "course", "filename"}
)

// Meili implements Engine via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	log     *zap.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the documents index.
// An unreachable server is tolerated; the health loop picks it up later.
func NewMeili(url, apiKey string, log *zap.Logger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    log.With(zap.String("component", "search"), zap.String("meili_url", url)),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		m.log.Warn("meilisearch_unavailable", zap.Error(err))
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxDocuments,
		PrimaryKey: "id",
	}); err != nil {
		m.log.Debug("meilisearch_create_index", zap.String("index", idxDocuments), zap.Error(err))
	}

	index := m.client.Index(idxDocuments)
	filterable := make([]interface{}, len(filterableAttributes))
	for i, v := range filterableAttributes {
		filterable[i] = v
	}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Warn("meilisearch_filterable_attributes", zap.Error(err))
	}
	searchable := append([]string(nil), searchableAttributes...)
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warn("meilisearch_searchable_attributes", zap.Error(err))
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.log.Info("meilisearch_recovered")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the documents index.
func (m *Meili) Search(q Query) ([]model.Document, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	sr := &meili.SearchRequest{
		IndexUID: idxDocuments,
		Query:    q.Text,
		Limit:    int64(q.Limit),
		Offset:   int64(q.Offset),
	}
	if filters := meiliFilters(q.Filter); len(filters) > 0 {
		sr.Filter = filters
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: []*meili.SearchRequest{sr},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	var (
		docs  []model.Document
		total int
	)
	for _, res := range resp.Results {
		total += int(res.EstimatedTotalHits)
		for _, hit := range res.Hits {
			doc, err := decodeHit(hit)
			if err != nil {
				m.log.Warn("meilisearch_bad_hit", zap.Error(err))
				continue
			}
			docs = append(docs, doc)
		}
	}
	return docs, total, nil
}

// IndexDocument adds or updates a document in the search index.
func (m *Meili) IndexDocument(doc model.Document) error {
	_, err := m.client.Index(idxDocuments).AddDocuments([]model.Document{doc}, nil)
	return err
}

// meiliFilters renders the non-empty filter fields as equality filters.
func meiliFilters(f model.DocumentFilter) []string {
	var out []string
	for _, kv := range [][2]string{
		{"university", f.University},
		{"faculty", f.Faculty},
		{"course", f.Course},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			out = append(out, fmt.Sprintf("%s = %q", kv[0], v))
		}
	}
	return out
}

func decodeHit(hit meili.Hit) (model.Document, error) {
	var doc model.Document
	raw, err := json.Marshal(hit)
	if err != nil {
		return doc, err
	}
	err = json.Unmarshal(raw, &doc)
	return doc, err
}
