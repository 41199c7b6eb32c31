package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"unihub/internal/model"
	"unihub/internal/ranking"
	"unihub/internal/repository"
	"unihub/internal/search"
	"unihub/internal/storage"
)

// UploadInput is a file plus the descriptive form fields sent with it.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	UploaderID  string

	University   string
	Faculty      string
	Course       string
	Title        string
	Description  string
	DocumentType string
	Tags         string
}

// DocumentListResult is one page of a ranked listing. Total counts every
// document matching the filter.
type DocumentListResult struct {
	Items []model.RankedDocument
	Total int
}

// Indexer keeps the search index in step with the document store.
type Indexer interface {
	IndexDocument(doc model.Document)
	Search(ctx context.Context, q search.Query) (search.Response, error)
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the file, saves its record, and deletes the stored file if the save fails.
	// The stored name is a UUID plus the original extension.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// ListRanked returns the filtered documents ordered by priority score.
	ListRanked(ctx context.Context, filter model.DocumentFilter, page repository.PageQuery) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Download opens the document's file. A non-empty userID records the download.
	Download(ctx context.Context, id, userID string) (io.ReadCloser, *model.Document, error)

	// MyDocuments lists the uploads of userID, newest first.
	MyDocuments(ctx context.Context, userID string) ([]model.Document, error)

	Search(ctx context.Context, q search.Query) (search.Response, error)
}

type documentService struct {
	store      storage.Storage
	repo       repository.DocumentRepository
	engagement repository.EngagementRepository
	index      Indexer
	log        *zap.Logger
	now        func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, engagement repository.EngagementRepository, index Indexer, log *zap.Logger) DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{
		store:      store,
		repo:       repo,
		engagement: engagement,
		index:      index,
		log:        log,
		now:        time.Now,
	}
}

func (in *UploadInput) validate() error {
	required := []struct{ name, value string }{
		{"university", in.University},
		{"faculty", in.Faculty},
		{"course", in.Course},
		{"documentTitle", in.Title},
		{"description", in.Description},
		{"documentType", in.DocumentType},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalid("%s is required", f.name)
		}
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	genName := uuid.New().String() + filepath.Ext(in.Filename)
	key := "documents/" + genName

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:           uuid.New().String(),
		Filename:     in.Filename,
		StoragePath:  objInfo.Key,
		ContentType:  in.ContentType,
		Size:         objInfo.Size,
		UploaderID:   in.UploaderID,
		University:   strings.TrimSpace(in.University),
		Faculty:      strings.TrimSpace(in.Faculty),
		Course:       strings.TrimSpace(in.Course),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		DocumentType: strings.TrimSpace(in.DocumentType),
		Tags:         strings.TrimSpace(in.Tags),
		UploadedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: the record is the only reference to the object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.index.IndexDocument(*stored)
	return stored, nil
}

func (s *documentService) ListRanked(ctx context.Context, filter model.DocumentFilter, page repository.PageQuery) (*DocumentListResult, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := ranking.IDs(docs)
	votes, err := s.engagement.CountVotesByDocument(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	comments, err := s.engagement.CountCommentsByDocument(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	res := repository.Paginate(ranking.Rank(docs, votes, comments), page)
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, id, userID string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}

	if userID != "" {
		if _, err := s.engagement.RecordDownload(ctx, doc.ID, userID); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("record download: %w", err)
		}
	}
	// The file is already open; a lost count must not refuse it.
	if err := s.repo.IncrementDownloads(ctx, doc.ID); err != nil {
		s.log.Warn("download_count_failed", zap.String("document_id", doc.ID), zap.Error(err))
	}
	return rc, doc, nil
}

func (s *documentService) MyDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	docs, err := s.repo.ListByUploader(ctx, userID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *documentService) Search(ctx context.Context, q search.Query) (search.Response, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return search.Response{}, invalid("q is required")
	}
	return s.index.Search(ctx, q)
}
