package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"unihub/internal/model"
	"unihub/internal/repository"
)

const maxCommentLength = 2000

// VoteResult is the state after a vote toggle.
type VoteResult struct {
	DocumentID string `json:"document_id"`
	Voted      bool   `json:"voted"`
	VoteCount  int    `json:"vote_count"`
}

// EngagementService covers comments, votes, favorites and download history.
// Every per-document call fails with ErrNotFound when the document does not exist.
type EngagementService interface {
	ListComments(ctx context.Context, documentID string) ([]model.Comment, error)
	AddComment(ctx context.Context, documentID string, author *model.User, text string) (*model.Comment, error)

	// VoteStatus reports the vote count and, for a non-empty userID, whether that user voted.
	VoteStatus(ctx context.Context, documentID, userID string) (*model.VoteStatus, error)
	ToggleVote(ctx context.Context, documentID, userID string) (*VoteResult, error)

	FavoriteStatus(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error)
	ToggleFavorite(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error)

	ListFavorites(ctx context.Context, userID string) ([]model.Document, error)
	ListDownloads(ctx context.Context, userID string) ([]model.Document, error)
}

type engagementService struct {
	docs repository.DocumentRepository
	repo repository.EngagementRepository
	now  func() time.Time
}

// NewEngagementService constructs an EngagementService.
func NewEngagementService(docs repository.DocumentRepository, repo repository.EngagementRepository) EngagementService {
	return &engagementService{docs: docs, repo: repo, now: time.Now}
}

func (s *engagementService) requireDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.docs.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *engagementService) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

func (s *engagementService) AddComment(ctx context.Context, documentID string, author *model.User, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment text is required")
	}
	if len([]rune(text)) > maxCommentLength {
		return nil, invalid("comment must be at most %d characters", maxCommentLength)
	}
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.repo.AddComment(ctx, &model.Comment{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		UserID:     author.ID,
		AuthorName: author.Fullname,
		Text:       text,
		CreatedAt:  s.now().UTC(),
	})
}

func (s *engagementService) VoteStatus(ctx context.Context, documentID, userID string) (*model.VoteStatus, error) {
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	count, err := s.repo.CountVotes(ctx, documentID)
	if err != nil {
		return nil, err
	}
	status := &model.VoteStatus{DocumentID: documentID, VoteCount: count}
	if userID != "" {
		if status.UserVoted, err = s.repo.HasVoted(ctx, documentID, userID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

func (s *engagementService) ToggleVote(ctx context.Context, documentID, userID string) (*VoteResult, error) {
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	voted, err := s.repo.ToggleVote(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountVotes(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{DocumentID: documentID, Voted: voted, VoteCount: count}, nil
}

func (s *engagementService) FavoriteStatus(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error) {
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	fav, err := s.repo.IsFavorite(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	return &model.FavoriteStatus{DocumentID: documentID, Favorited: fav}, nil
}

func (s *engagementService) ToggleFavorite(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error) {
	if err := s.requireDocument(ctx, documentID); err != nil {
		return nil, err
	}
	fav, err := s.repo.ToggleFavorite(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	return &model.FavoriteStatus{DocumentID: documentID, Favorited: fav}, nil
}

func (s *engagementService) ListFavorites(ctx context.Context, userID string) ([]model.Document, error) {
	docs, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *engagementService) ListDownloads(ctx context.Context, userID string) ([]model.Document, error) {
	docs, err := s.repo.ListDownloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
