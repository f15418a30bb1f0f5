package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.ReviewSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, user_id=%d, words=%d", s.ID, s.UserID, s.TotalWords)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO review_sessions (id, user_id, list_id, session_type, status, total_words, started_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.ListID, string(s.SessionType), string(s.Status), s.TotalWords, s.StartedAt, s.CompletedAt)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO session_words (session_id, position, word_id) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, wordID := range s.WordIDs {
			if _, err := stmt.ExecContext(ctx, s.ID, i, wordID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = mapConstraint(err)
		if !errors.Is(err, repository.ErrConstraint) {
			log.Error("failed to insert session: %v", err)
		}
		return err
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*models.ReviewSession, error) {
	return r.getWhere(ctx, `WHERE id = ?`, sessionID)
}

func (r *sessionRepository) ActiveForUser(ctx context.Context, userID int64) (*models.ReviewSession, error) {
	return r.getWhere(ctx, `WHERE user_id = ? AND status = 'in_progress'`, userID)
}

func (r *sessionRepository) getWhere(ctx context.Context, where string, arg interface{}) (*models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var s models.ReviewSession
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, list_id, session_type, status, total_words, started_at, completed_at
FROM review_sessions
`+where, arg).Scan(&s.ID, &s.UserID, &s.ListID, &s.SessionType, &s.Status, &s.TotalWords, &s.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT word_id FROM session_words WHERE session_id = ? ORDER BY position ASC
`, s.ID)
	if err != nil {
		log.Error("failed to load session words: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var wordID int64
		if err := rows.Scan(&wordID); err != nil {
			return nil, err
		}
		s.WordIDs = append(s.WordIDs, wordID)
	}
	return &s, rows.Err()
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus, completedAt *time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session status: id=%s, status=%s", sessionID, status)

	_, err := r.db.ExecContext(ctx, `
UPDATE review_sessions SET status = ?, completed_at = ? WHERE id = ?
`, string(status), completedAt, sessionID)
	if err != nil {
		log.Error("failed to update session status: %v", err)
	}
	return err
}

func (r *sessionRepository) InterruptStale(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	res, err := r.db.ExecContext(ctx, `
UPDATE review_sessions SET status = 'interrupted'
WHERE status = 'in_progress' AND started_at <= ?
`, cutoff)
	if err != nil {
		log.Error("failed to interrupt stale sessions: %v", err)
		return 0, err
	}
	return res.RowsAffected()
}

// RecordResult appends the answer and upserts the word's scheduling state in
// one transaction: both commit or neither does.
func (r *sessionRepository) RecordResult(ctx context.Context, res models.SessionResult, progress models.WordProgress) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("recording result: session_id=%s, word_id=%d, result=%s", res.SessionID, res.WordID, res.Result)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO session_results (session_id, word_id, result, response_time_ms, recorded_at)
VALUES (?, ?, ?, ?, ?)
`, res.SessionID, res.WordID, string(res.Result), res.ResponseTimeMs, res.RecordedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, upsertProgressSQL,
			progress.UserID, progress.WordID, progress.Repetitions, progress.EaseFactor,
			progress.IntervalDays, progress.NextReviewAt, progress.LastReviewedAt)
		return err
	})
	if err != nil {
		err = mapConstraint(err)
		if !errors.Is(err, repository.ErrConstraint) {
			log.Error("failed to record result: %v", err)
		}
		return err
	}
	return nil
}

func (r *sessionRepository) Results(ctx context.Context, sessionID string) ([]models.SessionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, word_id, result, response_time_ms, recorded_at
FROM session_results
WHERE session_id = ?
ORDER BY id ASC
`, sessionID)
	if err != nil {
		log.Error("failed to query results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.SessionResult
	for rows.Next() {
		var res models.SessionResult
		var responseTime sql.NullInt64
		if err := rows.Scan(&res.ID, &res.SessionID, &res.WordID, &res.Result, &responseTime, &res.RecordedAt); err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		if responseTime.Valid {
			ms := int(responseTime.Int64)
			res.ResponseTimeMs = &ms
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *sessionRepository) History(ctx context.Context, userID int64, limit int) ([]models.SessionHistoryEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching session history: user_id=%d, limit=%d", userID, limit)

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.user_id, s.list_id, s.session_type, s.status, s.total_words, s.started_at, s.completed_at,
       COUNT(res.id) AS total_attempted,
       COALESCE(SUM(CASE WHEN res.result = 'correct' THEN 1 ELSE 0 END), 0) AS correct_count
FROM review_sessions s
LEFT JOIN session_results res ON res.session_id = s.id
WHERE s.user_id = ? AND s.status = 'completed'
GROUP BY s.id
ORDER BY s.completed_at DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to query session history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.SessionHistoryEntry
	for rows.Next() {
		var e models.SessionHistoryEntry
		var completedAt sql.NullTime
		if err := rows.Scan(&e.Session.ID, &e.Session.UserID, &e.Session.ListID, &e.Session.SessionType,
			&e.Session.Status, &e.Session.TotalWords, &e.Session.StartedAt, &completedAt,
			&e.TotalAttempted, &e.CorrectCount); err != nil {
			log.Error("failed to scan history row: %v", err)
			return nil, err
		}
		if completedAt.Valid {
			e.Session.CompletedAt = &completedAt.Time
		}
		if e.TotalAttempted > 0 {
			e.Accuracy = int(math.Round(100 * float64(e.CorrectCount) / float64(e.TotalAttempted)))
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
