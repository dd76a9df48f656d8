package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes rootCmd against file stores in dir.
func runCLI(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--store", "file",
		"--vocab-file", filepath.Join(dir, "vocab.txt"),
		"--difficulty-file", filepath.Join(dir, "difficulty.txt"),
	}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVocabCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "vocab", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No words known yet")

	out, err = runCLI(t, dir, "", "vocab", "add", "猫", "犬", "猫")
	require.NoError(t, err)
	assert.Contains(t, out, "Added: 猫")
	assert.Contains(t, out, "Added: 犬")
	assert.Contains(t, out, "Already known: 猫")

	out, err = runCLI(t, dir, "犬\n鳥\n\n魚\n", "vocab", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Read 3 words: 2 added, 1 already known")

	data, err := os.ReadFile(filepath.Join(dir, "vocab.txt"))
	require.NoError(t, err)
	assert.Equal(t, "猫\n犬\n鳥\n魚\n", string(data))

	out, err = runCLI(t, dir, "", "vocab", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 4 words")
}

func TestVocabImportFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(src, []byte("猫\n犬\n"), 0o644))

	out, err := runCLI(t, dir, "", "vocab", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "2 added")

	_, err = runCLI(t, dir, "", "vocab", "import", filepath.Join(dir, "missing.txt"))
	assert.ErrorContains(t, err, "failed to open")
}

func TestDifficultyCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "difficulty", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No difficulty model saved yet")

	_, err = runCLI(t, dir, "", "vocab", "add", "猫", "犬", "鳥", "魚")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "", "difficulty", "reset", "--variance", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "mean=2.0 variance=1.0")

	out, err = runCLI(t, dir, "", "difficulty", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Window:   [1, 3) of 4 words")
}

func TestMigrateSQLite(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "quiz.db")

	out, err := runCLI(t, dir, "", "--sql-driver", "sqlite", "--sql-dsn", dsn, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied (sqlite)")
}
