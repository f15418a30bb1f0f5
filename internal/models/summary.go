package models

// BatchSummary reports accuracy for one fixed-size chunk of a session, in
// recording order.
type BatchSummary struct {
	BatchNumber    int `json:"batch_number"`
	WordsInBatch   int `json:"words_in_batch"`
	CorrectAnswers int `json:"correct_answers"`
	Accuracy       int `json:"accuracy"`
}

// SessionProgress is the in-flight view of a session, used between batches.
type SessionProgress struct {
	TotalWords          int  `json:"total_words"`
	TotalCompleted      int  `json:"total_completed"`
	CorrectCount        int  `json:"correct_count"`
	Accuracy            int  `json:"accuracy"`
	CurrentBatch        int  `json:"current_batch"`
	WordsInCurrentBatch int  `json:"words_in_current_batch"`
	NeedsSummary        bool `json:"needs_summary"`
}

// SessionBatchView pairs the in-flight progress of a session with the
// batches recorded so far.
type SessionBatchView struct {
	Progress SessionProgress `json:"progress"`
	Batches  []BatchSummary  `json:"batches"`
}

// WordResult is one word's outcome in a final summary.
type WordResult struct {
	Word           Word         `json:"word"`
	Result         ReviewResult `json:"result"`
	ResponseTimeMs *int         `json:"response_time_ms,omitempty"`
}

// SessionSummary is the final aggregate returned when a session ends.
type SessionSummary struct {
	SessionID      string         `json:"session_id"`
	TotalWords     int            `json:"total_words"`
	TotalAttempted int            `json:"total_attempted"`
	CorrectCount   int            `json:"correct_count"`
	Accuracy       int            `json:"accuracy"`
	Batches        []BatchSummary `json:"batches"`
	WordResults    []WordResult   `json:"word_results"`
}

// ReviewStats is the per-user SRS overview shown on the dashboard.
type ReviewStats struct {
	TotalTracked    int     `json:"total_tracked"`
	DueNow          int     `json:"due_now"`
	DueSoon         int     `json:"due_soon"`
	WordsMastered   int     `json:"words_mastered"`
	WordsStruggling int     `json:"words_struggling"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
}
