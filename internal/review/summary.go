// Package review holds the pure derivation logic of the review engine:
// batch/overall summary computation and the presentation-order shuffle.
package review

import (
	"math"

	"github.com/nmoreau/wordflash/internal/models"
)

// DefaultBatchSize is the checkpoint size used when none is configured.
const DefaultBatchSize = 10

// SummaryBuilder aggregates recorded results into batch and overall
// statistics. Results are always processed in recording order.
type SummaryBuilder struct {
	batchSize int
}

func NewSummaryBuilder(batchSize int) *SummaryBuilder {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &SummaryBuilder{batchSize: batchSize}
}

func accuracy(correct, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(attempted)))
}

// Batches partitions results into fixed-size batches in recording order.
func (b *SummaryBuilder) Batches(results []models.SessionResult) []models.BatchSummary {
	var batches []models.BatchSummary
	for start := 0; start < len(results); start += b.batchSize {
		end := start + b.batchSize
		if end > len(results) {
			end = len(results)
		}
		chunk := results[start:end]

		correct := 0
		for _, r := range chunk {
			if r.Result == models.ResultCorrect {
				correct++
			}
		}
		batches = append(batches, models.BatchSummary{
			BatchNumber:    start/b.batchSize + 1,
			WordsInBatch:   len(chunk),
			CorrectAnswers: correct,
			Accuracy:       accuracy(correct, len(chunk)),
		})
	}
	return batches
}

// Progress computes the active-session view. NeedsSummary signals that a
// batch boundary was just crossed and an intermediate summary should be
// shown before continuing.
func (b *SummaryBuilder) Progress(totalWords int, results []models.SessionResult) models.SessionProgress {
	completed := len(results)
	correct := 0
	for _, r := range results {
		if r.Result == models.ResultCorrect {
			correct++
		}
	}

	inCurrent := completed % b.batchSize
	return models.SessionProgress{
		TotalWords:          totalWords,
		TotalCompleted:      completed,
		CorrectCount:        correct,
		Accuracy:            accuracy(correct, completed),
		CurrentBatch:        completed/b.batchSize + 1,
		WordsInCurrentBatch: inCurrent,
		NeedsSummary:        inCurrent == 0 && completed > 0,
	}
}

// Summarize builds the final summary for a session. Words with no recorded
// result (should not occur in normal flow) appear as not_attempted, in the
// session's canonical word order after the attempted ones.
func (b *SummaryBuilder) Summarize(session models.ReviewSession, results []models.SessionResult, words map[int64]models.Word) models.SessionSummary {
	correct := 0
	attempted := make(map[int64]bool, len(results))
	wordResults := make([]models.WordResult, 0, session.TotalWords)

	for _, r := range results {
		if r.Result == models.ResultCorrect {
			correct++
		}
		attempted[r.WordID] = true
		wordResults = append(wordResults, models.WordResult{
			Word:           words[r.WordID],
			Result:         r.Result,
			ResponseTimeMs: r.ResponseTimeMs,
		})
	}
	for _, id := range session.WordIDs {
		if !attempted[id] {
			wordResults = append(wordResults, models.WordResult{
				Word:   words[id],
				Result: models.ResultNotAttempted,
			})
		}
	}

	return models.SessionSummary{
		SessionID:      session.ID,
		TotalWords:     session.TotalWords,
		TotalAttempted: len(results),
		CorrectCount:   correct,
		Accuracy:       accuracy(correct, len(results)),
		Batches:        b.Batches(results),
		WordResults:    wordResults,
	}
}
