package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"unihub/internal/cache"
	"unihub/internal/config"
	"unihub/internal/content"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

// PDFProcessor runs the content processors over a PDF.
type PDFProcessor interface {
	ProcessPDF(r io.ReaderAt, size int64, opts content.Options) (model.ProcessResult, error)
}

// ContentService generates summaries, keywords and quizzes from documents.
// Unreadable files degrade to an empty result instead of failing.
type ContentService interface {
	// ProcessDocument processes a stored document and saves summary and keywords onto it.
	ProcessDocument(ctx context.Context, documentID string, opts content.Options) (*model.ProcessResult, error)
	// GenerateQuiz returns a quiz for a stored document, or content.ErrUnreadableFile.
	GenerateQuiz(ctx context.Context, documentID string, questions int) (*model.Quiz, error)
	// ProcessFile processes an ad hoc upload without persisting anything.
	ProcessFile(ctx context.Context, r io.Reader, opts content.Options) (*model.ProcessResult, error)
}

type contentService struct {
	docs      repository.DocumentRepository
	store     storage.Storage
	processor PDFProcessor
	cache     cache.ContentCache
	cfg       config.ContentConfig
	log       *zap.Logger
	group     singleflight.Group
}

// NewContentService constructs a ContentService.
func NewContentService(docs repository.DocumentRepository, store storage.Storage, processor PDFProcessor, c cache.ContentCache, cfg config.ContentConfig, log *zap.Logger) ContentService {
	return &contentService{
		docs:      docs,
		store:     store,
		processor: processor,
		cache:     c,
		cfg:       cfg,
		log:       log.With(zap.String("component", "content")),
	}
}

// questions clamps a requested quiz size to the configured bounds.
func (s *contentService) questions(n int) int {
	if n <= 0 {
		n = s.cfg.DefaultQuestions
	}
	if s.cfg.MaxQuestions > 0 && n > s.cfg.MaxQuestions {
		n = s.cfg.MaxQuestions
	}
	return n
}

func (s *contentService) ProcessDocument(ctx context.Context, documentID string, opts content.Options) (*model.ProcessResult, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	// Route params alias the request buffer; the result and cache key outlive it.
	documentID = strings.Clone(documentID)
	opts.Questions = s.questions(opts.Questions)
	key := cache.Key(documentID, opts.Questions, opts.IncludeSummary, opts.IncludeKeywords)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("content_cache_get_failed", zap.String("key", key), zap.Error(err))
	}

	// Concurrent requests for the same document and options share one run.
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.processDocument(context.WithoutCancel(ctx), documentID, opts, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ProcessResult), nil
}

func (s *contentService) processDocument(ctx context.Context, id string, opts content.Options, key string) (*model.ProcessResult, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	data, err := s.readObject(ctx, doc.StoragePath)
	if err != nil {
		return nil, err
	}

	res, err := s.processor.ProcessPDF(bytes.NewReader(data), int64(len(data)), opts)
	res.DocumentID = id
	if err != nil {
		if errors.Is(err, content.ErrUnreadableFile) {
			s.log.Warn("content_unreadable", zap.String("document_id", id), zap.Error(err))
			return &res, nil
		}
		return nil, err
	}

	var keywords []string
	if opts.IncludeKeywords {
		keywords = res.Keywords
	}
	var summary *string
	if opts.IncludeSummary {
		summary = res.Summary
	}
	if summary != nil || len(keywords) > 0 {
		if err := s.docs.SetContent(ctx, id, summary, keywords); err != nil {
			s.log.Warn("content_save_failed", zap.String("document_id", id), zap.Error(err))
		}
	}
	if err := s.cache.Set(ctx, key, &res); err != nil {
		s.log.Warn("content_cache_set_failed", zap.String("key", key), zap.Error(err))
	}
	return &res, nil
}

func (s *contentService) readObject(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return data, nil
}

func (s *contentService) GenerateQuiz(ctx context.Context, documentID string, questions int) (*model.Quiz, error) {
	res, err := s.ProcessDocument(ctx, documentID, content.Options{Questions: questions})
	if err != nil {
		return nil, err
	}
	if res.Quiz == nil {
		return nil, content.ErrUnreadableFile
	}
	return res.Quiz, nil
}

func (s *contentService) ProcessFile(ctx context.Context, r io.Reader, opts content.Options) (*model.ProcessResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	opts.Questions = s.questions(opts.Questions)

	res, err := s.processor.ProcessPDF(bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		if errors.Is(err, content.ErrUnreadableFile) {
			s.log.Warn("content_unreadable", zap.Int("size_bytes", len(data)), zap.Error(err))
			return &res, nil
		}
		return nil, err
	}
	return &res, nil
}
