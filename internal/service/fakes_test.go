package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/search"
	"unihub/internal/storage"
)

// In-memory stand-ins used by the scenario tests.

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: opt.ContentType}, nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type memDocs struct {
	mu   sync.Mutex
	docs map[string]model.Document
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string]model.Document{}} }

func (m *memDocs) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	m.docs[doc.ID] = *doc
	out := *doc
	return &out, nil
}

func (m *memDocs) FindByID(_ context.Context, id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (m *memDocs) List(_ context.Context, f model.DocumentFilter) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Document
	for _, d := range m.docs {
		if (f.University == "" || d.University == f.University) &&
			(f.Faculty == "" || d.Faculty == f.Faculty) &&
			(f.Course == "" || d.Course == f.Course) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *memDocs) ListByUploader(ctx context.Context, userID string) ([]model.Document, error) {
	all, _ := m.List(ctx, model.DocumentFilter{})
	var out []model.Document
	for _, d := range all {
		if d.UploaderID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocs) SetContent(_ context.Context, id string, summary *string, keywords []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if summary != nil {
		d.Summary = summary
	}
	if keywords != nil {
		d.Keywords = keywords
	}
	m.docs[id] = d
	return nil
}

func (m *memDocs) IncrementDownloads(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.DownloadCount++
	m.docs[id] = d
	return nil
}

func (m *memDocs) Search(ctx context.Context, text string, f model.DocumentFilter, limit int) ([]model.Document, error) {
	all, _ := m.List(ctx, f)
	var out []model.Document
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Title), strings.ToLower(text)) {
			out = append(out, d)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type pair struct{ doc, user string }

type memEngagement struct {
	mu        sync.Mutex
	docs      *memDocs
	comments  []model.Comment
	votes     map[pair]bool
	favorites map[pair]bool
	downloads map[pair]time.Time
}

func newMemEngagement(docs *memDocs) *memEngagement {
	return &memEngagement{
		docs:      docs,
		votes:     map[pair]bool{},
		favorites: map[pair]bool{},
		downloads: map[pair]time.Time{},
	}
}

func (m *memEngagement) AddComment(_ context.Context, c *model.Comment) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, *c)
	out := *c
	return &out, nil
}

func (m *memEngagement) ListComments(_ context.Context, documentID string) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Comment
	for _, c := range m.comments {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func toggle(set map[pair]bool, k pair) bool {
	if set[k] {
		delete(set, k)
		return false
	}
	set[k] = true
	return true
}

func (m *memEngagement) ToggleVote(_ context.Context, documentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toggle(m.votes, pair{documentID, userID}), nil
}

func (m *memEngagement) HasVoted(_ context.Context, documentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.votes[pair{documentID, userID}], nil
}

func (m *memEngagement) CountVotes(_ context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.votes {
		if k.doc == documentID {
			n++
		}
	}
	return n, nil
}

func (m *memEngagement) ToggleFavorite(_ context.Context, documentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toggle(m.favorites, pair{documentID, userID}), nil
}

func (m *memEngagement) IsFavorite(_ context.Context, documentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favorites[pair{documentID, userID}], nil
}

func (m *memEngagement) ListFavorites(ctx context.Context, userID string) ([]model.Document, error) {
	m.mu.Lock()
	var ids []string
	for k := range m.favorites {
		if k.user == userID {
			ids = append(ids, k.doc)
		}
	}
	m.mu.Unlock()
	sort.Strings(ids)
	var out []model.Document
	for _, id := range ids {
		d, err := m.docs.FindByID(ctx, id)
		if err == nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memEngagement) RecordDownload(_ context.Context, documentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{documentID, userID}
	if _, ok := m.downloads[k]; ok {
		return false, nil
	}
	m.downloads[k] = time.Now()
	return true, nil
}

func (m *memEngagement) ListDownloads(ctx context.Context, userID string) ([]model.Document, error) {
	m.mu.Lock()
	type rec struct {
		id string
		at time.Time
	}
	var recs []rec
	for k, at := range m.downloads {
		if k.user == userID {
			recs = append(recs, rec{k.doc, at})
		}
	}
	m.mu.Unlock()
	sort.Slice(recs, func(i, j int) bool { return recs[i].at.After(recs[j].at) })
	var out []model.Document
	for _, r := range recs {
		if d, err := m.docs.FindByID(ctx, r.id); err == nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memEngagement) countBy(ids []string, match func(docID string) int) map[string]int {
	out := map[string]int{}
	for _, id := range ids {
		if n := match(id); n > 0 {
			out[id] = n
		}
	}
	return out
}

func (m *memEngagement) CountVotesByDocument(_ context.Context, ids []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countBy(ids, func(id string) int {
		n := 0
		for k := range m.votes {
			if k.doc == id {
				n++
			}
		}
		return n
	}), nil
}

func (m *memEngagement) CountCommentsByDocument(_ context.Context, ids []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countBy(ids, func(id string) int {
		n := 0
		for _, c := range m.comments {
			if c.DocumentID == id {
				n++
			}
		}
		return n
	}), nil
}

// recordingIndex captures indexed documents and answers searches with a fixed response.
type recordingIndex struct {
	mu      sync.Mutex
	indexed []string
	resp    search.Response
	err     error
	queries []search.Query
}

func (r *recordingIndex) IndexDocument(doc model.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, doc.ID)
}

func (r *recordingIndex) Search(_ context.Context, q search.Query) (search.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return r.resp, r.err
}

var (
	_ storage.Storage                 = (*memStore)(nil)
	_ repository.DocumentRepository   = (*memDocs)(nil)
	_ repository.EngagementRepository = (*memEngagement)(nil)
	_ Indexer                         = (*recordingIndex)(nil)
)

func storePutOpts() storage.PutObjectOptions { return storage.PutObjectOptions{Size: -1} }

func strPtr(s string) *string { return &s }
