package services

import (
	"context"

	"github.com/nmoreau/wordflash/internal/clock"
	"github.com/nmoreau/wordflash/internal/errors"
	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
)

// DueService resolves which words are due for review.
type DueService interface {
	// DueWordsByList returns up to limit due words in the list. When the
	// list has words but none are due it falls back to practice mode and
	// returns the whole list (capped at limit).
	DueWordsByList(ctx context.Context, userID, listID int64, limit int) (*models.DueSet, error)

	// DueWords groups all of the user's due words by list.
	DueWords(ctx context.Context, userID int64) (*models.DueOverview, error)

	// UpcomingWords returns reviewed words in the list scheduled after now,
	// annotated with days until due.
	UpcomingWords(ctx context.Context, userID, listID int64, limit int) ([]models.UpcomingWord, error)

	// Stats returns the user's scheduling overview.
	Stats(ctx context.Context, userID int64) (*models.ReviewStats, error)
}

type dueService struct {
	words    repository.WordRepository
	progress repository.ProgressRepository
	clock    clock.Clock
}

// NewDueService creates a new DueService
func NewDueService(words repository.WordRepository, progress repository.ProgressRepository, clk clock.Clock) DueService {
	return &dueService{words: words, progress: progress, clock: clk}
}

func (s *dueService) DueWordsByList(ctx context.Context, userID, listID int64, limit int) (*models.DueSet, error) {
	log := logger.FromContext(ctx)
	log.Debug("resolving due words: user_id=%d, list_id=%d, limit=%d", userID, listID, limit)

	list, err := s.words.GetList(ctx, listID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		return nil, errors.NewNotFoundError("list", listID)
	}

	count, err := s.words.CountWords(ctx, listID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if count == 0 {
		return nil, errors.NewEmptyListError(listID)
	}

	due, err := s.progress.DueWordsByList(ctx, userID, listID, s.clock.Now(), limit)
	if err != nil {
		log.Error("failed to resolve due words: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(due) > 0 {
		return &models.DueSet{Words: due}, nil
	}

	// Nothing due: practice mode over the whole list.
	log.Debug("no due words, falling back to practice mode: list_id=%d", listID)
	all, err := s.words.WordsInList(ctx, listID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	practice := make([]models.WordWithProgress, len(all))
	for i, w := range all {
		practice[i] = models.WordWithProgress{Word: w}
	}
	return &models.DueSet{Words: practice, PracticeMode: true}, nil
}

func (s *dueService) DueWords(ctx context.Context, userID int64) (*models.DueOverview, error) {
	log := logger.FromContext(ctx)
	log.Debug("resolving due words across lists: user_id=%d", userID)

	groups, err := s.progress.DueWordsGrouped(ctx, userID, s.clock.Now())
	if err != nil {
		log.Error("failed to group due words: %v", err)
		return nil, errors.NewInternalError(err)
	}

	total := 0
	for _, g := range groups {
		total += len(g.Words)
	}
	return &models.DueOverview{Lists: groups, TotalDue: total}, nil
}

func (s *dueService) UpcomingWords(ctx context.Context, userID, listID int64, limit int) ([]models.UpcomingWord, error) {
	list, err := s.words.GetList(ctx, listID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		return nil, errors.NewNotFoundError("list", listID)
	}

	upcoming, err := s.progress.UpcomingWords(ctx, userID, listID, s.clock.Now(), limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return upcoming, nil
}

func (s *dueService) Stats(ctx context.Context, userID int64) (*models.ReviewStats, error) {
	stats, err := s.progress.Stats(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
