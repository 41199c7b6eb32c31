package repository

import (
	"context"

	"unihub/internal/model"
)

// EngagementRepository persists comments, votes, favorites and downloads.
//
// Vote and favorite toggles are atomic per (document, user): the returned bool
// is the state after the call. Count methods take a batch of document ids and
// return a map filled only for ids that have at least one record.
type EngagementRepository interface {
	AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error)
	ListComments(ctx context.Context, documentID string) ([]model.Comment, error)

	ToggleVote(ctx context.Context, documentID, userID string) (bool, error)
	HasVoted(ctx context.Context, documentID, userID string) (bool, error)
	CountVotes(ctx context.Context, documentID string) (int, error)

	ToggleFavorite(ctx context.Context, documentID, userID string) (bool, error)
	IsFavorite(ctx context.Context, documentID, userID string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]model.Document, error)

	// RecordDownload stores the first download of documentID by userID.
	// It reports whether a new record was created.
	RecordDownload(ctx context.Context, documentID, userID string) (bool, error)
	ListDownloads(ctx context.Context, userID string) ([]model.Document, error)

	CountVotesByDocument(ctx context.Context, ids []string) (map[string]int, error)
	CountCommentsByDocument(ctx context.Context, ids []string) (map[string]int, error)
}
