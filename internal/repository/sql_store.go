package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vocab-quiz/internal/domain"

	"github.com/jmoiron/sqlx"
)

// difficultyRowID is the single row holding the model.
const difficultyRowID = 1

// SQLVocabularyStore implements domain.VocabularyStore over the
// vocabulary_words table. position carries the rank.
type SQLVocabularyStore struct {
	db *sqlx.DB
}

var _ domain.VocabularyStore = (*SQLVocabularyStore)(nil)

func NewSQLVocabularyStore(db *sqlx.DB) *SQLVocabularyStore {
	return &SQLVocabularyStore{db: db}
}

func (s *SQLVocabularyStore) Load(ctx context.Context) ([]string, error) {
	words := []string{}
	query := `SELECT word FROM vocabulary_words ORDER BY position`
	if err := s.db.SelectContext(ctx, &words, query); err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return words, nil
}

// Append stores word after the current last position.
func (s *SQLVocabularyStore) Append(ctx context.Context, word string) error {
	query := s.db.Rebind(`INSERT INTO vocabulary_words (position, word)
		SELECT COALESCE(MAX(position), -1) + 1, ? FROM vocabulary_words`)
	if _, err := s.db.ExecContext(ctx, query, word); err != nil {
		return fmt.Errorf("failed to append word %q: %w", word, err)
	}
	return nil
}

// SQLDifficultyStore implements domain.DifficultyStore over a single row of
// difficulty_model.
type SQLDifficultyStore struct {
	db *sqlx.DB
}

var _ domain.DifficultyStore = (*SQLDifficultyStore)(nil)

func NewSQLDifficultyStore(db *sqlx.DB) *SQLDifficultyStore {
	return &SQLDifficultyStore{db: db}
}

type difficultyRow struct {
	Mean     float64 `db:"mean"`
	Variance float64 `db:"variance"`
}

func (s *SQLDifficultyStore) Load(ctx context.Context) (domain.DifficultyModel, bool, error) {
	var row difficultyRow
	query := s.db.Rebind(`SELECT mean, variance FROM difficulty_model WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, difficultyRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DifficultyModel{}, false, nil
		}
		return domain.DifficultyModel{}, false, fmt.Errorf("failed to load difficulty: %w", err)
	}
	model := domain.DifficultyModel{Mean: row.Mean, Variance: row.Variance}
	if err := model.Validate(); err != nil {
		return domain.DifficultyModel{}, false, fmt.Errorf("invalid difficulty row: %w", err)
	}
	return model, true, nil
}

// Save replaces the row inside one transaction; delete then insert is the
// upsert every supported dialect accepts.
func (s *SQLDifficultyStore) Save(ctx context.Context, model domain.DifficultyModel) error {
	return withTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM difficulty_model WHERE id = ?`), difficultyRowID); err != nil {
			return fmt.Errorf("failed to clear difficulty: %w", err)
		}
		insert := tx.Rebind(`INSERT INTO difficulty_model (id, mean, variance) VALUES (?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, insert, difficultyRowID, model.Mean, model.Variance); err != nil {
			return fmt.Errorf("failed to save difficulty: %w", err)
		}
		return nil
	})
}

// withTransaction runs fn in a transaction, rolling back on error or panic.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
