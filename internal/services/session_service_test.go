package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/wordflash/internal/clock"
	apperrors "github.com/nmoreau/wordflash/internal/errors"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
	"github.com/nmoreau/wordflash/internal/services"
	"github.com/nmoreau/wordflash/internal/testutil/mocks"
)

type sessionFixture struct {
	sessions *mocks.MockSessionRepository
	words    *mocks.MockWordRepository
	progress *mocks.MockProgressRepository
	clock    *clock.Fixed
	svc      services.SessionService
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		sessions: new(mocks.MockSessionRepository),
		words:    new(mocks.MockWordRepository),
		progress: new(mocks.MockProgressRepository),
		clock:    &clock.Fixed{T: testNow},
	}
	due := services.NewDueService(f.words, f.progress, f.clock)
	f.svc = services.NewSessionService(f.sessions, f.words, f.progress, due, f.clock, services.SessionConfig{
		StaleAfter: 30 * time.Minute,
		BatchSize:  10,
		WordLimit:  20,
	})
	return f
}

func (f *sessionFixture) expectDueWords(listID int64, words ...models.Word) {
	due := make([]models.WordWithProgress, len(words))
	for i, w := range words {
		due[i] = models.WordWithProgress{Word: w}
	}
	f.words.On("GetList", mock.Anything, listID, int64(1)).Return(ownedList(listID, 1), nil)
	f.words.On("CountWords", mock.Anything, listID).Return(len(words), nil)
	f.progress.On("DueWordsByList", mock.Anything, int64(1), listID, testNow, 20).Return(due, nil)
}

func inProgressSession(id string, userID, listID int64, startedAt time.Time, wordIDs ...int64) *models.ReviewSession {
	return &models.ReviewSession{
		ID:          id,
		UserID:      userID,
		ListID:      listID,
		SessionType: models.SessionFlashcard,
		Status:      models.SessionInProgress,
		WordIDs:     wordIDs,
		TotalWords:  len(wordIDs),
		StartedAt:   startedAt,
	}
}

func TestStart_CreatesSessionWithCanonicalOrder(t *testing.T) {
	f := newSessionFixture()

	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(nil, nil)
	f.expectDueWords(7,
		models.Word{ID: 3, ListID: 7, Term: "aller"},
		models.Word{ID: 1, ListID: 7, Term: "faire"},
		models.Word{ID: 2, ListID: 7, Term: "venir"},
	)

	var inserted models.ReviewSession
	f.sessions.On("Insert", mock.Anything, mock.MatchedBy(func(s models.ReviewSession) bool {
		inserted = s
		return true
	})).Return(nil)

	payload, err := f.svc.Start(context.Background(), 1, 7, models.SessionFlashcard)

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, inserted.WordIDs, "canonical order follows due resolution")
	assert.Equal(t, models.SessionInProgress, inserted.Status)
	assert.Equal(t, 3, inserted.TotalWords)
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, testNow, inserted.StartedAt)

	assert.Len(t, payload.Words, 3)
	assert.False(t, payload.PracticeMode)
	assert.Equal(t, 1, payload.Progress.CurrentBatch)
}

func TestStart_InvalidSessionType(t *testing.T) {
	f := newSessionFixture()

	_, err := f.svc.Start(context.Background(), 1, 7, models.SessionType("quiz"))

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	f.sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestStart_FreshSameListConflicts(t *testing.T) {
	f := newSessionFixture()

	active := inProgressSession("s1", 1, 7, testNow.Add(-10*time.Minute), 1, 2)
	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(active, nil)

	_, err := f.svc.Start(context.Background(), 1, 7, models.SessionFlashcard)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
	f.sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_StaleSessionIsReclaimed(t *testing.T) {
	f := newSessionFixture()

	active := inProgressSession("s1", 1, 7, testNow.Add(-31*time.Minute), 1, 2)
	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(active, nil)
	f.sessions.On("UpdateStatus", mock.Anything, "s1", models.SessionInterrupted, (*time.Time)(nil)).Return(nil)
	f.expectDueWords(7, models.Word{ID: 1, ListID: 7, Term: "aller"})
	f.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)

	payload, err := f.svc.Start(context.Background(), 1, 7, models.SessionFlashcard)

	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, payload.Session.Status)
	f.sessions.AssertCalled(t, "UpdateStatus", mock.Anything, "s1", models.SessionInterrupted, (*time.Time)(nil))
}

func TestStart_DifferentListIsReclaimed(t *testing.T) {
	f := newSessionFixture()

	active := inProgressSession("s1", 1, 9, testNow.Add(-5*time.Minute), 1, 2)
	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(active, nil)
	f.sessions.On("UpdateStatus", mock.Anything, "s1", models.SessionInterrupted, (*time.Time)(nil)).Return(nil)
	f.expectDueWords(7, models.Word{ID: 1, ListID: 7, Term: "aller"})
	f.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Start(context.Background(), 1, 7, models.SessionFlashcard)

	require.NoError(t, err)
	f.sessions.AssertCalled(t, "UpdateStatus", mock.Anything, "s1", models.SessionInterrupted, (*time.Time)(nil))
}

func TestStart_LostRaceMapsToConflict(t *testing.T) {
	f := newSessionFixture()

	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(nil, nil)
	f.expectDueWords(7, models.Word{ID: 1, ListID: 7, Term: "aller"})
	f.sessions.On("Insert", mock.Anything, mock.Anything).Return(repository.ErrConstraint)

	_, err := f.svc.Start(context.Background(), 1, 7, models.SessionFlashcard)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func TestSubmitResult_DefaultsProgressAndAppliesSchedule(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 5, 6)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)
	f.progress.On("Get", mock.Anything, int64(1), int64(5)).Return(nil, nil)
	f.sessions.On("RecordResult", mock.Anything,
		mock.MatchedBy(func(r models.SessionResult) bool {
			return r.SessionID == "s1" && r.WordID == 5 && r.Result == models.ResultCorrect
		}),
		mock.MatchedBy(func(p models.WordProgress) bool {
			return p.Repetitions == 1 && p.IntervalDays == 1 && p.EaseFactor == 2.5 &&
				p.NextReviewAt.Equal(testNow.AddDate(0, 0, 1))
		}),
	).Return(nil)

	err := f.svc.SubmitResult(context.Background(), "s1", 1, 5, models.ResultCorrect, nil)

	require.NoError(t, err)
	f.sessions.AssertExpectations(t)
}

func TestSubmitResult_WrongOwnerReadsAsNotFound(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 2, 7, testNow, 5)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	err := f.svc.SubmitResult(context.Background(), "s1", 1, 5, models.ResultCorrect, nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestSubmitResult_CompletedSessionRejected(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 5)
	session.Status = models.SessionCompleted
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	err := f.svc.SubmitResult(context.Background(), "s1", 1, 5, models.ResultCorrect, nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionCompleted))
}

func TestSubmitResult_WordOutsideSessionRejected(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 5, 6)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	err := f.svc.SubmitResult(context.Background(), "s1", 1, 99, models.ResultCorrect, nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestSubmitResult_DuplicateRejected(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 5)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)
	f.progress.On("Get", mock.Anything, int64(1), int64(5)).Return(nil, nil)
	f.sessions.On("RecordResult", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrConstraint)

	err := f.svc.SubmitResult(context.Background(), "s1", 1, 5, models.ResultIncorrect, nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func TestEnd_ComputesSummaryAndCompletes(t *testing.T) {
	f := newSessionFixture()

	wordIDs := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	session := inProgressSession("s1", 1, 7, testNow, wordIDs...)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	results := make([]models.SessionResult, 10)
	for i := range results {
		outcome := models.ResultCorrect
		if i >= 7 {
			outcome = models.ResultIncorrect
		}
		results[i] = models.SessionResult{SessionID: "s1", WordID: wordIDs[i], Result: outcome}
	}
	f.sessions.On("Results", mock.Anything, "s1").Return(results, nil)

	words := make([]models.Word, 10)
	for i := range words {
		words[i] = models.Word{ID: wordIDs[i], ListID: 7}
	}
	f.words.On("WordsByIDs", mock.Anything, wordIDs).Return(words, nil)
	f.sessions.On("UpdateStatus", mock.Anything, "s1", models.SessionCompleted, &testNow).Return(nil)

	summary, err := f.svc.End(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.Equal(t, 70, summary.Accuracy, "10 words, 7 correct")
	assert.Equal(t, 10, summary.TotalAttempted)
	require.Len(t, summary.Batches, 1)
	assert.Len(t, summary.WordResults, 10)
	f.sessions.AssertCalled(t, "UpdateStatus", mock.Anything, "s1", models.SessionCompleted, &testNow)
}

func TestEnd_IsTerminal(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 1)
	session.Status = models.SessionCompleted
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	_, err := f.svc.End(context.Background(), "s1", 1)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionCompleted))
}

func TestActive_NoSessionReturnsNil(t *testing.T) {
	f := newSessionFixture()

	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(nil, nil)

	payload, err := f.svc.Active(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestActive_ReturnsRemainingWordsOnly(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 1, 2, 3, 4)
	f.sessions.On("ActiveForUser", mock.Anything, int64(1)).Return(session, nil)
	f.sessions.On("Results", mock.Anything, "s1").Return([]models.SessionResult{
		{SessionID: "s1", WordID: 2, Result: models.ResultCorrect},
	}, nil)
	f.words.On("WordsByIDs", mock.Anything, []int64{1, 3, 4}).Return([]models.Word{
		{ID: 1}, {ID: 3}, {ID: 4},
	}, nil)

	payload, err := f.svc.Active(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Len(t, payload.Words, 3, "answered words are excluded")
	assert.Equal(t, 1, payload.Progress.TotalCompleted)
}

func TestResume_InterruptedSessionRejected(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 1)
	session.Status = models.SessionInterrupted
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	_, err := f.svc.Resume(context.Background(), "s1", 1)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func TestResume_CompletedSessionRejected(t *testing.T) {
	f := newSessionFixture()

	session := inProgressSession("s1", 1, 7, testNow, 1)
	session.Status = models.SessionCompleted
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	_, err := f.svc.Resume(context.Background(), "s1", 1)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionCompleted))
}

func TestBatchSummary_BoundarySignal(t *testing.T) {
	f := newSessionFixture()

	wordIDs := make([]int64, 20)
	for i := range wordIDs {
		wordIDs[i] = int64(i + 1)
	}
	session := inProgressSession("s1", 1, 7, testNow, wordIDs...)
	f.sessions.On("Get", mock.Anything, "s1").Return(session, nil)

	results := make([]models.SessionResult, 10)
	for i := range results {
		results[i] = models.SessionResult{SessionID: "s1", WordID: wordIDs[i], Result: models.ResultCorrect}
	}
	f.sessions.On("Results", mock.Anything, "s1").Return(results, nil)

	view, err := f.svc.BatchSummary(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.True(t, view.Progress.NeedsSummary, "tenth result crosses the batch boundary")
	assert.Equal(t, 2, view.Progress.CurrentBatch)
	require.Len(t, view.Batches, 1)
	assert.Equal(t, 100, view.Batches[0].Accuracy)
}
