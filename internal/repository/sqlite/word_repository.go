package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
	"github.com/nmoreau/wordflash/internal/repository"
)

type wordRepository struct {
	db *sql.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sql.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) GetList(ctx context.Context, listID, userID int64) (*models.VocabList, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	var l models.VocabList
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, created_at
FROM vocab_lists
WHERE id = ? AND user_id = ?
`, listID, userID).Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("list not found: id=%d, user_id=%d", listID, userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get list: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *wordRepository) CountWords(ctx context.Context, listID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE list_id = ?`, listID).Scan(&count)
	if err != nil {
		log.Error("failed to count words: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *wordRepository) WordsInList(ctx context.Context, listID int64, limit int) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("fetching words: list_id=%d, limit=%d", listID, limit)

	query := sqlBuilder.
		Select("id", "list_id", "term", "definition", "created_at").
		From("words").
		Where(squirrel.Eq{"list_id": listID}).
		OrderBy("id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.ListID, &w.Term, &w.Definition, &w.CreatedAt); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (r *wordRepository) WordsByIDs(ctx context.Context, ids []int64) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	if len(ids) == 0 {
		return nil, nil
	}

	sqlStr, args, err := sqlBuilder.
		Select("id", "list_id", "term", "definition", "created_at").
		From("words").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query words by ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.ListID, &w.Term, &w.Definition, &w.CreatedAt); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
