package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nmoreau/wordflash/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, wordID int64) (*models.WordProgress, error) {
	args := m.Called(ctx, userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordProgress), args.Error(1)
}

func (m *MockProgressRepository) Upsert(ctx context.Context, p models.WordProgress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProgressRepository) DueWordsByList(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.WordWithProgress, error) {
	args := m.Called(ctx, userID, listID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WordWithProgress), args.Error(1)
}

func (m *MockProgressRepository) DueWordsGrouped(ctx context.Context, userID int64, now time.Time) ([]models.DueListGroup, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueListGroup), args.Error(1)
}

func (m *MockProgressRepository) UpcomingWords(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.UpcomingWord, error) {
	args := m.Called(ctx, userID, listID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UpcomingWord), args.Error(1)
}

func (m *MockProgressRepository) Stats(ctx context.Context, userID int64, now time.Time) (*models.ReviewStats, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStats), args.Error(1)
}
