package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"unihub/internal/content"
	"unihub/internal/model"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) ProcessDocument(ctx context.Context, documentID string, opts content.Options) (*model.ProcessResult, error) {
	args := m.Called(ctx, documentID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessResult), args.Error(1)
}

func (m *MockContentService) GenerateQuiz(ctx context.Context, documentID string, questions int) (*model.Quiz, error) {
	args := m.Called(ctx, documentID, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quiz), args.Error(1)
}

func (m *MockContentService) ProcessFile(ctx context.Context, r io.Reader, opts content.Options) (*model.ProcessResult, error) {
	args := m.Called(ctx, r, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessResult), args.Error(1)
}
