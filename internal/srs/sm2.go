// Package srs implements the SM-2 variant used to schedule word reviews.
package srs

import (
	"math"
	"time"

	"github.com/nmoreau/wordflash/internal/models"
)

const (
	minEase     = models.MinEaseFactor
	easePenalty = 0.2
)

// Apply computes the next scheduling state for a word given one answer.
// Pure: the caller persists the result and supplies now.
//
// Correct answers grow the streak and the interval (1 day, then 6, then
// previous interval times the ease factor). A wrong answer resets the streak
// to a 1-day interval and lowers the ease factor, never below 1.3.
func Apply(p models.WordProgress, correct bool, now time.Time) models.WordProgress {
	if correct {
		p.Repetitions++
		switch p.Repetitions {
		case 1:
			p.IntervalDays = 1
		case 2:
			p.IntervalDays = 6
		default:
			p.IntervalDays = int(math.Round(float64(p.IntervalDays) * p.EaseFactor))
		}
	} else {
		p.Repetitions = 0
		p.IntervalDays = 1
		p.EaseFactor -= easePenalty
	}

	if p.EaseFactor < minEase {
		p.EaseFactor = minEase
	}

	p.NextReviewAt = now.AddDate(0, 0, p.IntervalDays)
	reviewed := now
	p.LastReviewedAt = &reviewed
	return p
}
