package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"

	"go.uber.org/zap"
)

// ImportResult counts what an import did with its input lines.
type ImportResult struct {
	Read    int
	Added   int
	Skipped int
}

// VocabularyService maintains the persisted vocabulary and difficulty model
// outside of a quiz session.
type VocabularyService struct {
	vocab      domain.VocabularyStore
	difficulty domain.DifficultyStore
}

func NewVocabularyService(vocab domain.VocabularyStore, difficulty domain.DifficultyStore) *VocabularyService {
	return &VocabularyService{vocab: vocab, difficulty: difficulty}
}

// List returns the known words in rank order.
func (s *VocabularyService) List(ctx context.Context) ([]string, error) {
	words, err := s.vocab.Load(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load vocabulary", err)
	}
	return words, nil
}

// Add appends word unless it is already known. added reports whether the
// store changed.
func (s *VocabularyService) Add(ctx context.Context, word string) (added bool, err error) {
	res, err := s.importWords(ctx, []string{word})
	if err != nil {
		return false, err
	}
	return res.Added == 1, nil
}

// Import appends every new word of r, one per line, in input order. Blank
// lines and words already known (or repeated within r) are skipped.
func (s *VocabularyService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to read vocabulary input: %w", err)
	}
	return s.importWords(ctx, lines)
}

func (s *VocabularyService) importWords(ctx context.Context, lines []string) (ImportResult, error) {
	existing, err := s.vocab.Load(ctx)
	if err != nil {
		return ImportResult{}, domain.NewStorageError("Failed to load vocabulary", err)
	}
	known := make(map[string]struct{}, len(existing)+len(lines))
	for _, w := range existing {
		known[w] = struct{}{}
	}

	var res ImportResult
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		res.Read++
		if _, dup := known[word]; dup {
			res.Skipped++
			continue
		}
		if err := s.vocab.Append(ctx, word); err != nil {
			return res, domain.NewStorageError(fmt.Sprintf("Failed to append %q", word), err)
		}
		known[word] = struct{}{}
		res.Added++
	}

	logger.Get().Info("Vocabulary imported",
		zap.Int("read", res.Read),
		zap.Int("added", res.Added),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// Difficulty returns the persisted model and whether one exists.
func (s *VocabularyService) Difficulty(ctx context.Context) (domain.DifficultyModel, bool, error) {
	model, found, err := s.difficulty.Load(ctx)
	if err != nil {
		return domain.DifficultyModel{}, false, domain.NewStorageError("Failed to load difficulty", err)
	}
	return model, found, nil
}

// ResetDifficulty persists the initial model for the current vocabulary size.
func (s *VocabularyService) ResetDifficulty(ctx context.Context, variance float64) (domain.DifficultyModel, error) {
	words, err := s.List(ctx)
	if err != nil {
		return domain.DifficultyModel{}, err
	}
	model := domain.InitialDifficulty(len(words), variance)
	if err := s.difficulty.Save(ctx, model); err != nil {
		return domain.DifficultyModel{}, domain.NewStorageError("Failed to save difficulty", err)
	}
	return model, nil
}
