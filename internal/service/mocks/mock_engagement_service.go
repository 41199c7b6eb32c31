package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unihub/internal/model"
	"unihub/internal/service"
)

type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockEngagementService) AddComment(ctx context.Context, documentID string, author *model.User, text string) (*model.Comment, error) {
	args := m.Called(ctx, documentID, author, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockEngagementService) VoteStatus(ctx context.Context, documentID, userID string) (*model.VoteStatus, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VoteStatus), args.Error(1)
}

func (m *MockEngagementService) ToggleVote(ctx context.Context, documentID, userID string) (*service.VoteResult, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VoteResult), args.Error(1)
}

func (m *MockEngagementService) FavoriteStatus(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FavoriteStatus), args.Error(1)
}

func (m *MockEngagementService) ToggleFavorite(ctx context.Context, documentID, userID string) (*model.FavoriteStatus, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FavoriteStatus), args.Error(1)
}

func (m *MockEngagementService) ListFavorites(ctx context.Context, userID string) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockEngagementService) ListDownloads(ctx context.Context, userID string) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
