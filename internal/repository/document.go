package repository

import (
	"context"

	"unihub/internal/model"
)

// DocumentRepository defines data access for course documents.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record. The caller assigns ID and UploadedAt.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns every document matching the exact-match filter.
	List(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error)

	// ListByUploader returns the documents uploaded by userID, newest first.
	ListByUploader(ctx context.Context, userID string) ([]model.Document, error)

	// SetContent caches a computed summary and keyword list on the document.
	SetContent(ctx context.Context, id string, summary *string, keywords []string) error

	// IncrementDownloads bumps the per-document download event counter.
	IncrementDownloads(ctx context.Context, id string) error

	// Search matches text case-insensitively against title, description, tags and course.
	Search(ctx context.Context, text string, filter model.DocumentFilter, limit int) ([]model.Document, error)
}
