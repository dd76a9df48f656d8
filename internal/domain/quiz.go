package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// OptionCount is the number of choices every quiz item carries.
const OptionCount = 4

// Variant selects how the generator picks the target word.
type Variant string

const (
	// VariantReview builds the item around a word already in the vocabulary.
	VariantReview Variant = "review"
	// VariantNewWord asks the generator to introduce a word the user has not seen.
	VariantNewWord Variant = "new_word"
)

// QuizItem is one generated multiple-choice question.
type QuizItem struct {
	ID              string
	Variant         Variant
	DefinitionText  string
	DefinitionGloss string
	// Options holds the choices in generation order; Options[0] is the
	// correct answer.
	Options       []string
	CorrectAnswer string
	// TargetWordIndex is the position of CorrectAnswer in the vocabulary at
	// generation time, or -1 for a new word that has not been stored yet.
	TargetWordIndex int
	CreatedAt       time.Time
}

// NewQuizItem builds an item whose correct answer is options[0].
func NewQuizItem(id string, variant Variant, definition, gloss string, options []string, targetIndex int) *QuizItem {
	opts := make([]string, len(options))
	copy(opts, options)
	item := &QuizItem{
		ID:              id,
		Variant:         variant,
		DefinitionText:  definition,
		DefinitionGloss: gloss,
		Options:         opts,
		TargetWordIndex: targetIndex,
		CreatedAt:       time.Now(),
	}
	if len(opts) > 0 {
		item.CorrectAnswer = opts[0]
	}
	return item
}

// Validate checks the option invariants: exactly four distinct non-empty
// options, one of which is the correct answer.
func (q *QuizItem) Validate() error {
	if strings.TrimSpace(q.DefinitionText) == "" {
		return fmt.Errorf("%w: definition is empty", ErrMalformedResponse)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: expected %d options, got %d", ErrMalformedResponse, OptionCount, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("%w: empty option", ErrMalformedResponse)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: duplicate option %q", ErrMalformedResponse, opt)
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectAnswer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: correct answer %q is not an option", ErrMalformedResponse, q.CorrectAnswer)
	}
	if q.DefinitionGloss != "" && lineCount(q.DefinitionGloss) != lineCount(q.DefinitionText) {
		return fmt.Errorf("%w: gloss has %d lines, definition has %d",
			ErrMalformedResponse, lineCount(q.DefinitionGloss), lineCount(q.DefinitionText))
	}
	return nil
}

// DisplayOptions returns the options in a random order for presentation.
// The item itself is not modified, so CorrectAnswer keeps its identity.
func (q *QuizItem) DisplayOptions(rng *rand.Rand) []string {
	out := make([]string, len(q.Options))
	copy(out, q.Options)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// IsCorrect reports whether selected is the item's correct answer.
func (q *QuizItem) IsCorrect(selected string) bool {
	return selected == q.CorrectAnswer
}

func lineCount(s string) int {
	return len(strings.Split(strings.TrimRight(s, "\n"), "\n"))
}
