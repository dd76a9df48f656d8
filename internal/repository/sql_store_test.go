package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"vocab-quiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestSQLVocabularyStore_Load(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSQLVocabularyStore(db)

	rows := sqlmock.NewRows([]string{"word"}).AddRow("猫").AddRow("犬")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT word FROM vocabulary_words ORDER BY position`)).WillReturnRows(rows)

	words, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"猫", "犬"}, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLVocabularyStore_LoadEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSQLVocabularyStore(db)

	mock.ExpectQuery(`SELECT word FROM vocabulary_words`).WillReturnRows(sqlmock.NewRows([]string{"word"}))

	words, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, words)
	assert.Empty(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLVocabularyStore_Append(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSQLVocabularyStore(db)

	mock.ExpectExec(`INSERT INTO vocabulary_words \(position, word\) SELECT COALESCE\(MAX\(position\), -1\) \+ 1, \? FROM vocabulary_words`).
		WithArgs("鳥").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Append(context.Background(), "鳥"))

	mock.ExpectExec(`INSERT INTO vocabulary_words`).WithArgs("鳥").WillReturnError(errors.New("UNIQUE constraint failed"))
	err := store.Append(context.Background(), "鳥")
	assert.ErrorContains(t, err, "UNIQUE constraint failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDifficultyStore_Load(t *testing.T) {
	selectQuery := regexp.QuoteMeta(`SELECT mean, variance FROM difficulty_model WHERE id = ?`)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectQuery).WithArgs(difficultyRowID).
			WillReturnRows(sqlmock.NewRows([]string{"mean", "variance"}).AddRow(600.0, 1000.0))

		model, found, err := NewSQLDifficultyStore(db).Load(context.Background())
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, domain.DifficultyModel{Mean: 600, Variance: 1000}, model)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not saved yet", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectQuery).WithArgs(difficultyRowID).WillReturnError(sql.ErrNoRows)

		_, found, err := NewSQLDifficultyStore(db).Load(context.Background())
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative mean", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectQuery).WithArgs(difficultyRowID).
			WillReturnRows(sqlmock.NewRows([]string{"mean", "variance"}).AddRow(-5.0, 1000.0))

		_, found, err := NewSQLDifficultyStore(db).Load(context.Background())
		assert.ErrorContains(t, err, "negative")
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectQuery).WithArgs(difficultyRowID).WillReturnError(errors.New("connection reset"))

		_, _, err := NewSQLDifficultyStore(db).Load(context.Background())
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLDifficultyStore_Save(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM difficulty_model WHERE id = ?`)
	insertQuery := regexp.QuoteMeta(`INSERT INTO difficulty_model (id, mean, variance) VALUES (?, ?, ?)`)
	model := domain.DifficultyModel{Mean: 1000, Variance: 1000}

	t.Run("commits", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).WithArgs(difficultyRowID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertQuery).WithArgs(difficultyRowID, 1000.0, 1000.0).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewSQLDifficultyStore(db).Save(context.Background(), model))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).WithArgs(difficultyRowID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertQuery).WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		err := NewSQLDifficultyStore(db).Save(context.Background(), model)
		assert.ErrorContains(t, err, "disk I/O error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

		err := NewSQLDifficultyStore(db).Save(context.Background(), model)
		assert.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
