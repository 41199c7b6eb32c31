package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unihub/internal/model"
)

type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockEngagementRepository) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockEngagementRepository) ToggleVote(ctx context.Context, documentID, userID string) (bool, error) {
	args := m.Called(ctx, documentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) HasVoted(ctx context.Context, documentID, userID string) (bool, error) {
	args := m.Called(ctx, documentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) CountVotes(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}

func (m *MockEngagementRepository) ToggleFavorite(ctx context.Context, documentID, userID string) (bool, error) {
	args := m.Called(ctx, documentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) IsFavorite(ctx context.Context, documentID, userID string) (bool, error) {
	args := m.Called(ctx, documentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) ListFavorites(ctx context.Context, userID string) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockEngagementRepository) RecordDownload(ctx context.Context, documentID, userID string) (bool, error) {
	args := m.Called(ctx, documentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) ListDownloads(ctx context.Context, userID string) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockEngagementRepository) CountVotesByDocument(ctx context.Context, ids []string) (map[string]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockEngagementRepository) CountCommentsByDocument(ctx context.Context, ids []string) (map[string]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
