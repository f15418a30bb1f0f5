package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nmoreau/wordflash/internal/models"
)

// MockWordRepository is a mock implementation of repository.WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) GetList(ctx context.Context, listID, userID int64) (*models.VocabList, error) {
	args := m.Called(ctx, listID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VocabList), args.Error(1)
}

func (m *MockWordRepository) CountWords(ctx context.Context, listID int64) (int, error) {
	args := m.Called(ctx, listID)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) WordsInList(ctx context.Context, listID int64, limit int) ([]models.Word, error) {
	args := m.Called(ctx, listID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockWordRepository) WordsByIDs(ctx context.Context, ids []int64) ([]models.Word, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}
