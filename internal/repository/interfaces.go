package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nmoreau/wordflash/internal/models"
)

// ErrConstraint is returned when a write violates a uniqueness constraint
// (duplicate active session, duplicate result for a word). Services map it
// to a domain conflict.
var ErrConstraint = errors.New("unique constraint violated")

// WordRepository is the read side of the word/list store the engine consumes.
type WordRepository interface {
	// GetList returns the list, or nil when it does not exist or is not
	// owned by userID.
	GetList(ctx context.Context, listID, userID int64) (*models.VocabList, error)
	CountWords(ctx context.Context, listID int64) (int, error)
	WordsInList(ctx context.Context, listID int64, limit int) ([]models.Word, error)
	WordsByIDs(ctx context.Context, ids []int64) ([]models.Word, error)
}

// ProgressRepository is the durable per-(user, word) scheduling state plus
// the due/upcoming projections over it.
type ProgressRepository interface {
	// Get returns nil when the user has no progress for the word yet.
	Get(ctx context.Context, userID, wordID int64) (*models.WordProgress, error)
	Upsert(ctx context.Context, p models.WordProgress) error

	// DueWordsByList returns words in the list whose next review is at or
	// before now, never-reviewed words included, capped at limit.
	DueWordsByList(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.WordWithProgress, error)

	// DueWordsGrouped groups all of the user's due words by list.
	DueWordsGrouped(ctx context.Context, userID int64, now time.Time) ([]models.DueListGroup, error)

	// UpcomingWords returns reviewed words in the list scheduled after now,
	// soonest first.
	UpcomingWords(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.UpcomingWord, error)

	Stats(ctx context.Context, userID int64, now time.Time) (*models.ReviewStats, error)
}

// SessionRepository persists review sessions, their canonical word order and
// their recorded results.
type SessionRepository interface {
	// Insert stores the session and its word order. Returns ErrConstraint
	// when the user already has an active session.
	Insert(ctx context.Context, s models.ReviewSession) error

	// Get loads a session with its canonical word order, or nil.
	Get(ctx context.Context, sessionID string) (*models.ReviewSession, error)

	// ActiveForUser returns the user's in_progress session, or nil.
	// Interrupted sessions are dead ends and never count as active.
	ActiveForUser(ctx context.Context, userID int64) (*models.ReviewSession, error)

	UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus, completedAt *time.Time) error

	// InterruptStale marks every in_progress session started at or before
	// cutoff as interrupted and returns how many it touched.
	InterruptStale(ctx context.Context, cutoff time.Time) (int64, error)

	// RecordResult appends the result and upserts the word's progress in a
	// single transaction. Returns ErrConstraint when the (session, word)
	// pair already has a result.
	RecordResult(ctx context.Context, res models.SessionResult, progress models.WordProgress) error

	// Results returns the session's results in recording order.
	Results(ctx context.Context, sessionID string) ([]models.SessionResult, error)

	// History returns the user's completed sessions, most recent first.
	History(ctx context.Context, userID int64, limit int) ([]models.SessionHistoryEntry, error)
}
