package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID, wordID int64) (*models.WordProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	var p models.WordProgress
	var lastReviewed sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, word_id, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at
FROM word_progress
WHERE user_id = ? AND word_id = ?
`, userID, wordID).Scan(&p.UserID, &p.WordID, &p.Repetitions, &p.EaseFactor, &p.IntervalDays, &p.NextReviewAt, &lastReviewed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	if lastReviewed.Valid {
		p.LastReviewedAt = &lastReviewed.Time
	}
	return &p, nil
}

func (r *progressRepository) Upsert(ctx context.Context, p models.WordProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: user_id=%d, word_id=%d, interval=%d, ease=%.2f",
		p.UserID, p.WordID, p.IntervalDays, p.EaseFactor)

	_, err := r.db.ExecContext(ctx, upsertProgressSQL,
		p.UserID, p.WordID, p.Repetitions, p.EaseFactor, p.IntervalDays, p.NextReviewAt, p.LastReviewedAt)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
	}
	return err
}

const upsertProgressSQL = `
INSERT INTO word_progress (user_id, word_id, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id, word_id) DO UPDATE SET
    repetitions = excluded.repetitions,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    next_review_at = excluded.next_review_at,
    last_reviewed_at = excluded.last_reviewed_at,
    updated_at = CURRENT_TIMESTAMP
`

const wordProgressColumns = "w.id, w.list_id, w.term, w.definition, w.created_at, " +
	"wp.user_id, wp.repetitions, wp.ease_factor, wp.interval_days, wp.next_review_at, wp.last_reviewed_at"

func scanWordWithProgress(rows *sql.Rows) (models.WordWithProgress, error) {
	var wwp models.WordWithProgress
	var progressUser sql.NullInt64
	var reps, interval sql.NullInt64
	var ease sql.NullFloat64
	var nextReview, lastReviewed sql.NullTime

	err := rows.Scan(&wwp.ID, &wwp.ListID, &wwp.Term, &wwp.Definition, &wwp.CreatedAt,
		&progressUser, &reps, &ease, &interval, &nextReview, &lastReviewed)
	if err != nil {
		return wwp, err
	}
	if progressUser.Valid {
		p := models.WordProgress{
			UserID:       progressUser.Int64,
			WordID:       wwp.ID,
			Repetitions:  int(reps.Int64),
			EaseFactor:   ease.Float64,
			IntervalDays: int(interval.Int64),
			NextReviewAt: nextReview.Time,
		}
		if lastReviewed.Valid {
			p.LastReviewedAt = &lastReviewed.Time
		}
		wwp.Progress = &p
	}
	return wwp, nil
}

func (r *progressRepository) DueWordsByList(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.WordWithProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching due words: user_id=%d, list_id=%d, limit=%d", userID, listID, limit)

	query := sqlBuilder.
		Select(wordProgressColumns).
		From("words w").
		LeftJoin("word_progress wp ON wp.word_id = w.id AND wp.user_id = ?", userID).
		Where(squirrel.Eq{"w.list_id": listID}).
		Where(squirrel.Or{
			squirrel.Expr("wp.next_review_at IS NULL"),
			squirrel.LtOrEq{"wp.next_review_at": now},
		}).
		OrderBy("COALESCE(wp.next_review_at, w.created_at) ASC", "w.id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.WordWithProgress
	for rows.Next() {
		wwp, err := scanWordWithProgress(rows)
		if err != nil {
			log.Error("failed to scan due word row: %v", err)
			return nil, err
		}
		out = append(out, wwp)
	}
	log.Debug("found %d due words", len(out))
	return out, rows.Err()
}

func (r *progressRepository) DueWordsGrouped(ctx context.Context, userID int64, now time.Time) ([]models.DueListGroup, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching grouped due words: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT l.id, l.name, w.id, w.list_id, w.term, w.definition, w.created_at
FROM words w
JOIN vocab_lists l ON l.id = w.list_id
LEFT JOIN word_progress wp ON wp.word_id = w.id AND wp.user_id = ?
WHERE l.user_id = ?
  AND (wp.next_review_at IS NULL OR wp.next_review_at <= ?)
ORDER BY l.id ASC, w.id ASC
`, userID, userID, now)
	if err != nil {
		log.Error("failed to query grouped due words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var groups []models.DueListGroup
	for rows.Next() {
		var listID int64
		var listName string
		var w models.Word
		if err := rows.Scan(&listID, &listName, &w.ID, &w.ListID, &w.Term, &w.Definition, &w.CreatedAt); err != nil {
			log.Error("failed to scan grouped due word: %v", err)
			return nil, err
		}
		if len(groups) == 0 || groups[len(groups)-1].ListID != listID {
			groups = append(groups, models.DueListGroup{ListID: listID, ListName: listName})
		}
		last := &groups[len(groups)-1]
		last.Words = append(last.Words, w)
	}
	return groups, rows.Err()
}

func (r *progressRepository) UpcomingWords(ctx context.Context, userID, listID int64, now time.Time, limit int) ([]models.UpcomingWord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching upcoming words: user_id=%d, list_id=%d", userID, listID)

	query := sqlBuilder.
		Select("w.id", "w.list_id", "w.term", "w.definition", "w.created_at", "wp.next_review_at").
		From("words w").
		Join("word_progress wp ON wp.word_id = w.id").
		Where(squirrel.Eq{"wp.user_id": userID, "w.list_id": listID}).
		Where(squirrel.Gt{"wp.next_review_at": now}).
		OrderBy("wp.next_review_at ASC", "w.id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query upcoming words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.UpcomingWord
	for rows.Next() {
		var uw models.UpcomingWord
		if err := rows.Scan(&uw.ID, &uw.ListID, &uw.Term, &uw.Definition, &uw.CreatedAt, &uw.NextReviewAt); err != nil {
			log.Error("failed to scan upcoming word: %v", err)
			return nil, err
		}
		uw.DaysUntilDue = daysUntil(now, uw.NextReviewAt)
		out = append(out, uw)
	}
	return out, rows.Err()
}

// daysUntil computes ceil((due - now) / 1 day), floored at 1.
func daysUntil(now, due time.Time) int {
	days := int(math.Ceil(due.Sub(now).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func (r *progressRepository) Stats(ctx context.Context, userID int64, now time.Time) (*models.ReviewStats, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching review stats: user_id=%d", userID)

	soon := now.AddDate(0, 0, 7)

	var stats models.ReviewStats
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*) AS total_tracked,
    COALESCE(SUM(CASE WHEN next_review_at <= ? THEN 1 ELSE 0 END), 0) AS due_now,
    COALESCE(SUM(CASE WHEN next_review_at > ? AND next_review_at <= ? THEN 1 ELSE 0 END), 0) AS due_soon,
    COALESCE(SUM(CASE WHEN ease_factor > 2.5 AND interval_days > 30 THEN 1 ELSE 0 END), 0) AS words_mastered,
    COALESCE(SUM(CASE WHEN ease_factor < 2.0 AND last_reviewed_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS words_struggling,
    COALESCE(AVG(ease_factor), 0) AS avg_ease_factor,
    COALESCE(AVG(interval_days), 0) AS avg_interval_days
FROM word_progress
WHERE user_id = ?
`, now, now, soon, userID).Scan(
		&stats.TotalTracked,
		&stats.DueNow,
		&stats.DueSoon,
		&stats.WordsMastered,
		&stats.WordsStruggling,
		&stats.AvgEaseFactor,
		&stats.AvgIntervalDays,
	)
	if err != nil {
		log.Error("failed to get review stats: %v", err)
		return nil, err
	}
	return &stats, nil
}
