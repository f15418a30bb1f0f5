package models

import (
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of a review session.
type SessionStatus string

const (
	SessionInProgress  SessionStatus = "in_progress"
	SessionInterrupted SessionStatus = "interrupted"
	SessionCompleted   SessionStatus = "completed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionInProgress, SessionInterrupted, SessionCompleted:
		return true
	}
	return false
}

// SessionType is the kind of exercise a session presents.
type SessionType string

const (
	SessionFlashcard       SessionType = "flashcard"
	SessionFillBlank       SessionType = "fill_blank"
	SessionWordAssociation SessionType = "word_association"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionFlashcard, SessionFillBlank, SessionWordAssociation:
		return true
	}
	return false
}

// ReviewResult is the correctness signal for one submitted answer.
type ReviewResult string

const (
	ResultCorrect   ReviewResult = "correct"
	ResultIncorrect ReviewResult = "incorrect"

	// ResultNotAttempted only appears in final summaries, for session words
	// that never received a submission.
	ResultNotAttempted ReviewResult = "not_attempted"
)

// ParseReviewResult validates a submitted result value.
func ParseReviewResult(s string) (ReviewResult, error) {
	switch ReviewResult(s) {
	case ResultCorrect, ResultIncorrect:
		return ReviewResult(s), nil
	}
	return "", fmt.Errorf("invalid review result %q", s)
}

// ReviewSession is one review run over a fixed, ordered set of words.
// WordIDs is the canonical order fixed at creation; presentation order is
// shuffled on every fetch and never persisted.
type ReviewSession struct {
	ID          string        `json:"id"`
	UserID      int64         `json:"user_id"`
	ListID      int64         `json:"list_id"`
	SessionType SessionType   `json:"session_type"`
	Status      SessionStatus `json:"status"`
	WordIDs     []int64       `json:"word_ids"`
	TotalWords  int           `json:"total_words"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// SessionResult is one submitted answer. Append-only; at most one per
// (session, word).
type SessionResult struct {
	ID             int64        `json:"id"`
	SessionID      string       `json:"session_id"`
	WordID         int64        `json:"word_id"`
	Result         ReviewResult `json:"result"`
	ResponseTimeMs *int         `json:"response_time_ms,omitempty"`
	RecordedAt     time.Time    `json:"recorded_at"`
}

// SessionPayload is a session as handed to the caller: the descriptor plus
// the words to present, freshly shuffled on every fetch.
type SessionPayload struct {
	Session      ReviewSession   `json:"session"`
	Words        []Word          `json:"words"`
	PracticeMode bool            `json:"practice_mode,omitempty"`
	Progress     SessionProgress `json:"progress"`
}

// SessionHistoryEntry is a completed session with its aggregate accuracy.
type SessionHistoryEntry struct {
	Session        ReviewSession `json:"session"`
	TotalAttempted int           `json:"total_attempted"`
	CorrectCount   int           `json:"correct_count"`
	Accuracy       int           `json:"accuracy"`
}
