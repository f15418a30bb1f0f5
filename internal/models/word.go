package models

import "time"

type VocabList struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Word struct {
	ID         int64     `json:"id"`
	ListID     int64     `json:"list_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	CreatedAt  time.Time `json:"created_at"`
}

// WordWithProgress joins a word with the caller's scheduling state. Progress
// is nil for words the user has never reviewed.
type WordWithProgress struct {
	Word
	Progress *WordProgress `json:"progress,omitempty"`
}

// DueListGroup is one list's share of a user's due words, for dashboard
// display.
type DueListGroup struct {
	ListID   int64  `json:"list_id"`
	ListName string `json:"list_name"`
	Words    []Word `json:"words"`
}

// UpcomingWord is a scheduled word annotated with the whole days remaining
// until its review, floored at 1.
type UpcomingWord struct {
	Word
	NextReviewAt time.Time `json:"next_review_at"`
	DaysUntilDue int       `json:"days_until_due"`
}

// DueSet is the outcome of due-word resolution for one list. PracticeMode
// is set when nothing was due and the whole list is offered instead.
type DueSet struct {
	Words        []WordWithProgress `json:"words"`
	PracticeMode bool               `json:"practice_mode"`
}

// DueOverview groups all of a user's due words by list.
type DueOverview struct {
	Lists    []DueListGroup `json:"lists"`
	TotalDue int            `json:"total_due"`
}
