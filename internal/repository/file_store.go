package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"vocab-quiz/internal/domain"
)

// FileVocabularyStore keeps the vocabulary as one word per line, in rank
// order.
type FileVocabularyStore struct {
	mu   sync.Mutex
	path string
}

var _ domain.VocabularyStore = (*FileVocabularyStore)(nil)

func NewFileVocabularyStore(path string) *FileVocabularyStore {
	return &FileVocabularyStore{path: path}
}

// Load returns the words in file order. A missing file is an empty
// vocabulary; blank lines are ignored.
func (s *FileVocabularyStore) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return words, nil
}

// Append adds word as a new last line, creating the file if needed.
func (s *FileVocabularyStore) Append(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if word == "" || strings.ContainsAny(word, "\r\n") {
		return fmt.Errorf("invalid vocabulary word %q", word)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create vocabulary directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	line := word + "\n"
	if needsNewline, err := missingTrailingNewline(f); err != nil {
		return err
	} else if needsNewline {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to vocabulary file: %w", err)
	}
	return f.Sync()
}

// missingTrailingNewline reports whether a non-empty f lacks a final newline,
// as files written by hand often do.
func missingTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat vocabulary file: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return last[0] != '\n', nil
}

// FileDifficultyStore keeps the difficulty model as key=value lines. Saves
// replace the file atomically.
type FileDifficultyStore struct {
	mu   sync.Mutex
	path string
}

var _ domain.DifficultyStore = (*FileDifficultyStore)(nil)

func NewFileDifficultyStore(path string) *FileDifficultyStore {
	return &FileDifficultyStore{path: path}
}

func (s *FileDifficultyStore) Load(ctx context.Context) (domain.DifficultyModel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DifficultyModel{}, false, nil
		}
		return domain.DifficultyModel{}, false, fmt.Errorf("failed to read difficulty file: %w", err)
	}

	model, err := decodeDifficulty(parseKeyValues(string(data)))
	if err != nil {
		return domain.DifficultyModel{}, false, fmt.Errorf("difficulty file %s: %w", s.path, err)
	}
	return model, true, nil
}

func (s *FileDifficultyStore) Save(ctx context.Context, model domain.DifficultyModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, kv := range encodeDifficulty(model) {
		fmt.Fprintf(&b, "%s=%s\n", kv[0], kv[1])
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create difficulty directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".difficulty-*")
	if err != nil {
		return fmt.Errorf("failed to create temp difficulty file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write difficulty file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write difficulty file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace difficulty file: %w", err)
	}
	return nil
}

func parseKeyValues(data string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return out
}

const (
	fieldMean     = "mean"
	fieldVariance = "variance"
)

// encodeDifficulty returns the fields in a stable order.
func encodeDifficulty(m domain.DifficultyModel) [][2]string {
	return [][2]string{
		{fieldMean, strconv.FormatFloat(m.Mean, 'f', -1, 64)},
		{fieldVariance, strconv.FormatFloat(m.Variance, 'f', -1, 64)},
	}
}

func decodeDifficulty(fields map[string]string) (domain.DifficultyModel, error) {
	var m domain.DifficultyModel
	mean, ok := fields[fieldMean]
	if !ok {
		return m, fmt.Errorf("missing %q", fieldMean)
	}
	variance, ok := fields[fieldVariance]
	if !ok {
		return m, fmt.Errorf("missing %q", fieldVariance)
	}
	var err error
	if m.Mean, err = strconv.ParseFloat(mean, 64); err != nil {
		return m, fmt.Errorf("invalid %s %q: %w", fieldMean, mean, err)
	}
	if m.Variance, err = strconv.ParseFloat(variance, 64); err != nil {
		return m, fmt.Errorf("invalid %s %q: %w", fieldVariance, variance, err)
	}
	if err := m.Validate(); err != nil {
		return domain.DifficultyModel{}, fmt.Errorf("invalid difficulty: %w", err)
	}
	return m, nil
}
