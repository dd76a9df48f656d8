package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vocab-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileVocabularyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "vocab.txt")
	store := NewFileVocabularyStore(path)

	words, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)

	require.NoError(t, store.Append(ctx, "猫"))
	require.NoError(t, store.Append(ctx, " 犬 "))

	words, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"猫", "犬"}, words)

	assert.Error(t, store.Append(ctx, ""))
	assert.Error(t, store.Append(ctx, "two\nwords"))
}

func TestFileVocabularyStore_HandWrittenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("学校\n\n  病院  \n公園"), 0o644))

	store := NewFileVocabularyStore(path)
	words, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"学校", "病院", "公園"}, words)

	require.NoError(t, store.Append(ctx, "駅"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "学校\n\n  病院  \n公園\n駅\n", string(data))
}

func TestFileDifficultyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "difficulty.txt")
	store := NewFileDifficultyStore(path)

	_, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	model := domain.DifficultyModel{Mean: 612.5, Variance: 1000}
	require.NoError(t, store.Save(ctx, model))

	got, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mean=612.5\nvariance=1000\n", string(data))

	require.NoError(t, store.Save(ctx, domain.DifficultyModel{Mean: 0, Variance: 1000}))
	got, _, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Mean)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileDifficultyStore_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing variance", "mean=10\n"},
		{"missing mean", "variance=10\n"},
		{"non-numeric", "mean=ten\nvariance=10\n"},
		{"NaN mean", "mean=NaN\nvariance=10\n"},
		{"infinite mean", "mean=+Inf\nvariance=10\n"},
		{"infinite variance", "mean=10\nvariance=Inf\n"},
		{"negative mean", "mean=-1\nvariance=10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "difficulty.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, _, err := NewFileDifficultyStore(path).Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestParseKeyValues(t *testing.T) {
	got := parseKeyValues("# comment\n mean = 5 \n\nvariance=7\nnoise\n")
	assert.Equal(t, map[string]string{"mean": "5", "variance": "7"}, got)
}
