package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nmoreau/wordflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, s models.ReviewSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, sessionID string) (*models.ReviewSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) ActiveForUser(ctx context.Context, userID int64) (*models.ReviewSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus, completedAt *time.Time) error {
	args := m.Called(ctx, sessionID, status, completedAt)
	return args.Error(0)
}

func (m *MockSessionRepository) InterruptStale(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) RecordResult(ctx context.Context, res models.SessionResult, progress models.WordProgress) error {
	args := m.Called(ctx, res, progress)
	return args.Error(0)
}

func (m *MockSessionRepository) Results(ctx context.Context, sessionID string) ([]models.SessionResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionResult), args.Error(1)
}

func (m *MockSessionRepository) History(ctx context.Context, userID int64, limit int) ([]models.SessionHistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionHistoryEntry), args.Error(1)
}
