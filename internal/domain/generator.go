package domain

import "context"

// GenerationRequest describes one question the generator should produce.
type GenerationRequest struct {
	Variant Variant
	// TargetWord is the word the item must be built around. Empty for
	// VariantNewWord, where the generator invents it.
	TargetWord string
	// CandidatePool supplies distractors for VariantReview and the list of
	// known words for VariantNewWord.
	CandidatePool []string
	// WithGloss asks for a reading line under the definition.
	WithGloss bool
}

// QuestionGenerator produces the raw text of a quiz item. The text is
// untrusted and is parsed and validated by the caller.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, req GenerationRequest) (string, error)
}

// ExplanationGenerator produces a free-form explanation of an item. When
// selected is non-empty and wrong, the explanation also covers why.
type ExplanationGenerator interface {
	Explain(ctx context.Context, item *QuizItem, selected string) (string, error)
}
