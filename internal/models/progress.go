package models

import "time"

// Scheduling defaults for a word the user has never reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// WordProgress is the per-(user, word) scheduling state. It is created with
// defaults the first time a word is encountered and mutated only by the
// scheduling engine.
type WordProgress struct {
	UserID         int64      `json:"user_id"`
	WordID         int64      `json:"word_id"`
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// NewWordProgress returns the default scheduling state for a word first
// encountered at now: due immediately, ease 2.5, no interval.
func NewWordProgress(userID, wordID int64, now time.Time) WordProgress {
	return WordProgress{
		UserID:       userID,
		WordID:       wordID,
		Repetitions:  0,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		NextReviewAt: now,
	}
}
