package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/nmoreau/wordflash/internal/clock"
	"github.com/nmoreau/wordflash/internal/errors"
	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
	"github.com/nmoreau/wordflash/internal/review"
	"github.com/nmoreau/wordflash/internal/srs"
)

// SessionService owns the review-session lifecycle: start, resume, submit,
// summarize, end. At most one in_progress session per user.
type SessionService interface {
	Start(ctx context.Context, userID, listID int64, sessionType models.SessionType) (*models.SessionPayload, error)

	// Active returns the user's running session with the remaining words
	// reshuffled, or nil when there is none.
	Active(ctx context.Context, userID int64) (*models.SessionPayload, error)

	Resume(ctx context.Context, sessionID string, userID int64) (*models.SessionPayload, error)
	SubmitResult(ctx context.Context, sessionID string, userID, wordID int64, result models.ReviewResult, responseTimeMs *int) error
	BatchSummary(ctx context.Context, sessionID string, userID int64) (*models.SessionBatchView, error)
	End(ctx context.Context, sessionID string, userID int64) (*models.SessionSummary, error)
	History(ctx context.Context, userID int64, limit int) ([]models.SessionHistoryEntry, error)
}

type sessionService struct {
	sessions   repository.SessionRepository
	words      repository.WordRepository
	progress   repository.ProgressRepository
	due        DueService
	builder    *review.SummaryBuilder
	clock      clock.Clock
	staleAfter time.Duration
	wordLimit  int
}

// SessionConfig carries the policy knobs of the session lifecycle.
type SessionConfig struct {
	StaleAfter time.Duration // age after which a running session may be reclaimed
	BatchSize  int           // summary checkpoint size
	WordLimit  int           // maximum words per session
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions repository.SessionRepository,
	words repository.WordRepository,
	progress repository.ProgressRepository,
	due DueService,
	clk clock.Clock,
	cfg SessionConfig,
) SessionService {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 30 * time.Minute
	}
	if cfg.WordLimit <= 0 {
		cfg.WordLimit = 20
	}
	return &sessionService{
		sessions:   sessions,
		words:      words,
		progress:   progress,
		due:        due,
		builder:    review.NewSummaryBuilder(cfg.BatchSize),
		clock:      clk,
		staleAfter: cfg.StaleAfter,
		wordLimit:  cfg.WordLimit,
	}
}

func (s *sessionService) Start(ctx context.Context, userID, listID int64, sessionType models.SessionType) (*models.SessionPayload, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%d, list_id=%d, type=%s", userID, listID, sessionType)

	if !sessionType.Valid() {
		return nil, errors.NewValidationError("session_type", "must be flashcard, fill_blank or word_association")
	}

	now := s.clock.Now()

	active, err := s.sessions.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if active != nil {
		stale := now.Sub(active.StartedAt) > s.staleAfter
		if !stale && active.ListID == listID {
			return nil, errors.NewConflictError("an active review session already exists")
		}
		// Stale or targeting a different list: reclaim it and move on.
		log.Info("interrupting prior session: id=%s, stale=%t", active.ID, stale)
		if err := s.sessions.UpdateStatus(ctx, active.ID, models.SessionInterrupted, nil); err != nil {
			return nil, errors.NewInternalError(err)
		}
	}

	dueSet, err := s.due.DueWordsByList(ctx, userID, listID, s.wordLimit)
	if err != nil {
		return nil, err
	}

	wordIDs := make([]int64, len(dueSet.Words))
	for i, w := range dueSet.Words {
		wordIDs[i] = w.ID
	}

	session := models.ReviewSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		ListID:      listID,
		SessionType: sessionType,
		Status:      models.SessionInProgress,
		WordIDs:     wordIDs,
		TotalWords:  len(wordIDs),
		StartedAt:   now,
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		if stderrors.Is(err, repository.ErrConstraint) {
			// Lost the race against a concurrent start.
			return nil, errors.NewConflictError("an active review session already exists")
		}
		return nil, errors.NewInternalError(err)
	}
	log.Info("session started: id=%s, words=%d, practice_mode=%t", session.ID, session.TotalWords, dueSet.PracticeMode)

	words := make([]models.Word, 0, len(dueSet.Words))
	for _, w := range dueSet.Words {
		words = append(words, w.Word)
	}
	return &models.SessionPayload{
		Session:      session,
		Words:        review.Shuffle(words),
		PracticeMode: dueSet.PracticeMode,
		Progress:     s.builder.Progress(session.TotalWords, nil),
	}, nil
}

func (s *sessionService) Active(ctx context.Context, userID int64) (*models.SessionPayload, error) {
	session, err := s.sessions.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, nil
	}
	return s.payloadFor(ctx, session)
}

// payloadFor rebuilds the presentation view of a running session: the words
// without a recorded result, in a fresh shuffle.
func (s *sessionService) payloadFor(ctx context.Context, session *models.ReviewSession) (*models.SessionPayload, error) {
	results, err := s.sessions.Results(ctx, session.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	answered := make(map[int64]bool, len(results))
	for _, r := range results {
		answered[r.WordID] = true
	}
	var remainingIDs []int64
	for _, id := range session.WordIDs {
		if !answered[id] {
			remainingIDs = append(remainingIDs, id)
		}
	}

	remaining, err := s.words.WordsByIDs(ctx, remainingIDs)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return &models.SessionPayload{
		Session:  *session,
		Words:    review.Shuffle(remaining),
		Progress: s.builder.Progress(session.TotalWords, results),
	}, nil
}

// ownedSession loads a session and checks it belongs to the caller.
// Ownership failures read as not-found so existence is not leaked.
func (s *sessionService) ownedSession(ctx context.Context, sessionID string, userID int64) (*models.ReviewSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil || session.UserID != userID {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}

func (s *sessionService) Resume(ctx context.Context, sessionID string, userID int64) (*models.SessionPayload, error) {
	log := logger.FromContext(ctx)
	log.Debug("resuming session: id=%s, user_id=%d", sessionID, userID)

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case models.SessionCompleted:
		return nil, errors.NewSessionCompletedError(sessionID)
	case models.SessionInterrupted:
		return nil, errors.NewConflictError("session was interrupted and cannot be resumed")
	}
	return s.payloadFor(ctx, session)
}

func (s *sessionService) SubmitResult(ctx context.Context, sessionID string, userID, wordID int64, result models.ReviewResult, responseTimeMs *int) error {
	log := logger.FromContext(ctx)
	log.Debug("submitting result: session_id=%s, word_id=%d, result=%s", sessionID, wordID, result)

	if result != models.ResultCorrect && result != models.ResultIncorrect {
		return errors.NewValidationError("result", "must be correct or incorrect")
	}
	if responseTimeMs != nil && *responseTimeMs < 0 {
		return errors.NewValidationError("response_time_ms", "must not be negative")
	}

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if session.Status == models.SessionCompleted {
		return errors.NewSessionCompletedError(sessionID)
	}

	inScope := false
	for _, id := range session.WordIDs {
		if id == wordID {
			inScope = true
			break
		}
	}
	if !inScope {
		return errors.NewValidationError("word_id", "word is not part of the session")
	}

	now := s.clock.Now()

	progress, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if progress == nil {
		p := models.NewWordProgress(userID, wordID, now)
		progress = &p
	}
	updated := srs.Apply(*progress, result == models.ResultCorrect, now)

	res := models.SessionResult{
		SessionID:      sessionID,
		WordID:         wordID,
		Result:         result,
		ResponseTimeMs: responseTimeMs,
		RecordedAt:     now,
	}
	if err := s.sessions.RecordResult(ctx, res, updated); err != nil {
		if stderrors.Is(err, repository.ErrConstraint) {
			return errors.NewConflictError("a result for this word was already recorded in the session")
		}
		return errors.NewInternalError(err)
	}

	log.Debug("result recorded: word_id=%d, interval=%d days, ease=%.2f",
		wordID, updated.IntervalDays, updated.EaseFactor)
	return nil
}

func (s *sessionService) BatchSummary(ctx context.Context, sessionID string, userID int64) (*models.SessionBatchView, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	results, err := s.sessions.Results(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &models.SessionBatchView{
		Progress: s.builder.Progress(session.TotalWords, results),
		Batches:  s.builder.Batches(results),
	}, nil
}

func (s *sessionService) End(ctx context.Context, sessionID string, userID int64) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("ending session: id=%s, user_id=%d", sessionID, userID)

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, errors.NewSessionCompletedError(sessionID)
	}

	results, err := s.sessions.Results(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	words, err := s.words.WordsByIDs(ctx, session.WordIDs)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	wordByID := make(map[int64]models.Word, len(words))
	for _, w := range words {
		wordByID[w.ID] = w
	}

	summary := s.builder.Summarize(*session, results, wordByID)

	now := s.clock.Now()
	if err := s.sessions.UpdateStatus(ctx, sessionID, models.SessionCompleted, &now); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info("session completed: id=%s, accuracy=%d%%, attempted=%d/%d",
		sessionID, summary.Accuracy, summary.TotalAttempted, summary.TotalWords)
	return &summary, nil
}

func (s *sessionService) History(ctx context.Context, userID int64, limit int) ([]models.SessionHistoryEntry, error) {
	entries, err := s.sessions.History(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}
