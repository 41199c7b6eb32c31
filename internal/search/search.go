// Package search finds documents by free text. Meilisearch serves queries
// while it is healthy; otherwise the document store's regex search is used.
package search

import (
	"context"

	"go.uber.org/zap"

	"unihub/internal/model"
)

const defaultLimit = 20

// Query is a free-text search narrowed by exact-match filters.
type Query struct {
	Text   string
	Filter model.DocumentFilter
	Limit  int
	Offset int
}

// Response is the search result returned to clients.
type Response struct {
	Results []model.Document `json:"results"`
	Total   int              `json:"total"`
	Query   string           `json:"query"`
	Source  string           `json:"source"`
}

// Engine is a dedicated search backend.
type Engine interface {
	Healthy() bool
	Search(q Query) ([]model.Document, int, error)
	IndexDocument(doc model.Document) error
}

// Fallback searches the primary store directly.
type Fallback interface {
	Search(ctx context.Context, text string, filter model.DocumentFilter, limit int) ([]model.Document, error)
}

// Service is the facade that tries the engine first and falls back to the store.
type Service struct {
	engine   Engine
	fallback Fallback
	log      *zap.Logger
}

// NewService creates a search service. engine may be nil when no search engine is configured.
func NewService(engine Engine, fallback Fallback, log *zap.Logger) *Service {
	return &Service{engine: engine, fallback: fallback, log: log.With(zap.String("component", "search"))}
}

// Search runs q against the engine if healthy, otherwise against the store.
func (s *Service) Search(ctx context.Context, q Query) (Response, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}

	if s.engine != nil && s.engine.Healthy() {
		results, total, err := s.engine.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text, Source: "meilisearch"}, nil
		}
		s.log.Warn("search_engine_failed", zap.Error(err))
	}

	// The store has no offset support for regex search; fetch through the page and slice.
	docs, err := s.fallback.Search(ctx, q.Text, q.Filter, q.Offset+q.Limit)
	if err != nil {
		return Response{}, err
	}
	if q.Offset >= len(docs) {
		docs = nil
	} else {
		docs = docs[q.Offset:]
	}
	return Response{Results: nonNil(docs), Total: q.Offset + len(docs), Query: q.Text, Source: "database"}, nil
}

// IndexDocument indexes doc in the background. Failures are logged only.
func (s *Service) IndexDocument(doc model.Document) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	go func() {
		if err := s.engine.IndexDocument(doc); err != nil {
			s.log.Warn("search_index_failed", zap.String("document_id", doc.ID), zap.Error(err))
		}
	}()
}

func nonNil(d []model.Document) []model.Document {
	if d == nil {
		return []model.Document{}
	}
	return d
}
