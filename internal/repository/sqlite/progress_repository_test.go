package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
	"github.com/nmoreau/wordflash/internal/repository/sqlite"
	"github.com/nmoreau/wordflash/internal/testutil"
	"github.com/stretchr/testify/suite"
)

var repoNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) progressFor(wordID int64, nextReview time.Time) models.WordProgress {
	last := repoNow.Add(-24 * time.Hour)
	return models.WordProgress{
		UserID:         1,
		WordID:         wordID,
		Repetitions:    2,
		EaseFactor:     2.5,
		IntervalDays:   6,
		NextReviewAt:   nextReview,
		LastReviewedAt: &last,
	}
}

func (s *ProgressRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	wordID := seedWord(s.T(), s.db, listID, "aller")

	err := s.repo.Upsert(ctx, s.progressFor(wordID, repoNow.AddDate(0, 0, 6)))
	s.Require().NoError(err)

	p, err := s.repo.Get(ctx, 1, wordID)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal(2, p.Repetitions)
	s.Assert().Equal(2.5, p.EaseFactor)
	s.Assert().Equal(6, p.IntervalDays)
	s.Require().NotNil(p.LastReviewedAt)
}

func (s *ProgressRepositorySuite) TestUpsert_SecondWriteWins() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	wordID := seedWord(s.T(), s.db, listID, "aller")

	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(wordID, repoNow.AddDate(0, 0, 6))))

	updated := s.progressFor(wordID, repoNow.AddDate(0, 0, 1))
	updated.Repetitions = 0
	updated.IntervalDays = 1
	updated.EaseFactor = 2.3
	s.Require().NoError(s.repo.Upsert(ctx, updated))

	p, err := s.repo.Get(ctx, 1, wordID)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal(0, p.Repetitions)
	s.Assert().Equal(1, p.IntervalDays)
	s.Assert().Equal(2.3, p.EaseFactor)
}

func (s *ProgressRepositorySuite) TestGet_NoProgress() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	wordID := seedWord(s.T(), s.db, listID, "aller")

	p, err := s.repo.Get(ctx, 1, wordID)
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProgressRepositorySuite) TestDueWordsByList() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	overdue := seedWord(s.T(), s.db, listID, "aller")
	fresh := seedWord(s.T(), s.db, listID, "faire")
	future := seedWord(s.T(), s.db, listID, "venir")

	// One word overdue, one never reviewed, one scheduled for later.
	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(overdue, repoNow.Add(-time.Hour))))
	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(future, repoNow.AddDate(0, 0, 3))))

	due, err := s.repo.DueWordsByList(ctx, 1, listID, repoNow, 20)
	s.Require().NoError(err)
	s.Require().Len(due, 2)

	ids := []int64{due[0].ID, due[1].ID}
	s.Assert().Contains(ids, overdue)
	s.Assert().Contains(ids, fresh)
	s.Assert().NotContains(ids, future)
}

func (s *ProgressRepositorySuite) TestDueWordsByList_NeverReviewedHasNilProgress() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	seedWord(s.T(), s.db, listID, "aller")

	due, err := s.repo.DueWordsByList(ctx, 1, listID, repoNow, 20)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Nil(due[0].Progress)
}

func (s *ProgressRepositorySuite) TestDueWordsByList_OtherUsersProgressIgnored() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	wordID := seedWord(s.T(), s.db, listID, "aller")

	// User 2 reviewed the word; user 1 never did, so it stays due for user 1.
	other := s.progressFor(wordID, repoNow.AddDate(0, 0, 6))
	other.UserID = 2
	s.Require().NoError(s.repo.Upsert(ctx, other))

	due, err := s.repo.DueWordsByList(ctx, 1, listID, repoNow, 20)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Nil(due[0].Progress)
}

func (s *ProgressRepositorySuite) TestDueWordsGrouped() {
	ctx := context.Background()
	verbs := seedList(s.T(), s.db, 1, "verbs")
	nouns := seedList(s.T(), s.db, 1, "nouns")
	otherUser := seedList(s.T(), s.db, 2, "theirs")
	seedWord(s.T(), s.db, verbs, "aller")
	seedWord(s.T(), s.db, verbs, "faire")
	seedWord(s.T(), s.db, nouns, "chien")
	seedWord(s.T(), s.db, otherUser, "chat")

	groups, err := s.repo.DueWordsGrouped(ctx, 1, repoNow)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)
	s.Assert().Equal("verbs", groups[0].ListName)
	s.Assert().Len(groups[0].Words, 2)
	s.Assert().Equal("nouns", groups[1].ListName)
	s.Assert().Len(groups[1].Words, 1)
}

func (s *ProgressRepositorySuite) TestUpcomingWords() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	soon := seedWord(s.T(), s.db, listID, "aller")
	later := seedWord(s.T(), s.db, listID, "faire")
	seedWord(s.T(), s.db, listID, "venir") // never reviewed, not upcoming

	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(soon, repoNow.AddDate(0, 0, 2))))
	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(later, repoNow.AddDate(0, 0, 6))))

	upcoming, err := s.repo.UpcomingWords(ctx, 1, listID, repoNow, 10)
	s.Require().NoError(err)
	s.Require().Len(upcoming, 2)
	s.Assert().Equal(soon, upcoming[0].ID)
	s.Assert().Equal(2, upcoming[0].DaysUntilDue)
	s.Assert().Equal(later, upcoming[1].ID)
	s.Assert().Equal(6, upcoming[1].DaysUntilDue)
}

func (s *ProgressRepositorySuite) TestStats() {
	ctx := context.Background()
	listID := seedList(s.T(), s.db, 1, "verbs")
	due := seedWord(s.T(), s.db, listID, "aller")
	mastered := seedWord(s.T(), s.db, listID, "faire")
	struggling := seedWord(s.T(), s.db, listID, "venir")

	s.Require().NoError(s.repo.Upsert(ctx, s.progressFor(due, repoNow.Add(-time.Hour))))

	p := s.progressFor(mastered, repoNow.AddDate(0, 0, 45))
	p.EaseFactor = 2.7
	p.IntervalDays = 45
	s.Require().NoError(s.repo.Upsert(ctx, p))

	p = s.progressFor(struggling, repoNow.AddDate(0, 0, 1))
	p.EaseFactor = 1.5
	s.Require().NoError(s.repo.Upsert(ctx, p))

	stats, err := s.repo.Stats(ctx, 1, repoNow)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalTracked)
	s.Assert().Equal(1, stats.DueNow)
	s.Assert().Equal(1, stats.DueSoon)
	s.Assert().Equal(1, stats.WordsMastered)
	s.Assert().Equal(1, stats.WordsStruggling)
	s.Assert().InDelta(2.233, stats.AvgEaseFactor, 0.01)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
