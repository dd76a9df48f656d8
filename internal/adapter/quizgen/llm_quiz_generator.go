package quizgen

import (
	"context"
	"fmt"
	"strings"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const formatInstructions = `Format the output as follows, with no other text:
Definition: [Japanese definition/description]
%s1) [correct option]
2) [incorrect option]
3) [incorrect option]
4) [incorrect option]
`

const glossLine = "Reading: [English gloss of the definition]\n"

// LLMQuizGenerator builds prompts for quiz items and explanations and sends
// them to a langchaingo model.
type LLMQuizGenerator struct {
	model       llms.Model
	temperature float64
}

var (
	_ domain.QuestionGenerator    = (*LLMQuizGenerator)(nil)
	_ domain.ExplanationGenerator = (*LLMQuizGenerator)(nil)
)

// NewLLMQuizGenerator creates a generator backed by model.
func NewLLMQuizGenerator(model llms.Model, temperature float64) (*LLMQuizGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("llm model cannot be nil")
	}
	return &LLMQuizGenerator{model: model, temperature: temperature}, nil
}

// GenerateQuestion returns the raw model output for req. Parsing is left to
// the caller.
func (g *LLMQuizGenerator) GenerateQuestion(ctx context.Context, req domain.GenerationRequest) (string, error) {
	var prompt string
	switch req.Variant {
	case domain.VariantReview:
		if req.TargetWord == "" {
			return "", domain.NewInvalidInputError("review question requires a target word")
		}
		prompt = ReviewPrompt(req)
	case domain.VariantNewWord:
		prompt = NewWordPrompt(req)
	default:
		return "", domain.NewInvalidInputError(fmt.Sprintf("unknown question variant %q", req.Variant))
	}
	return g.call(ctx, prompt)
}

// Explain returns the model's explanation of item. A wrong selected option is
// explained as well.
func (g *LLMQuizGenerator) Explain(ctx context.Context, item *domain.QuizItem, selected string) (string, error) {
	return g.call(ctx, ExplanationPrompt(item, selected))
}

func (g *LLMQuizGenerator) call(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()
	l.Debug("Sending prompt to LLM", zap.Int("prompt_length", len(prompt)))

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("LLM request aborted: %w", ctxErr)
		}
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	return out, nil
}

// ReviewPrompt asks for a definition of a known word with distractors drawn
// from the candidate pool.
func ReviewPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a Japanese definition for the word: %s. ", req.TargetWord)
	fmt.Fprintf(&b, "Also, choose three other words from the following list to use as incorrect multiple choice options: %s. ",
		strings.Join(req.CandidatePool, ", "))
	fmt.Fprintf(&b, "The definition must be specific enough that '%s' is clearly the only correct answer among the four options. ", req.TargetWord)
	b.WriteString("Do not put furigana or romaji. ")
	fmt.Fprintf(&b, "Put the correct answer (%s) as option number 1.\n\n", req.TargetWord)
	b.WriteString(format(req.WithGloss))
	return b.String()
}

// NewWordPrompt asks the model to introduce a word that is not in the
// candidate pool.
func NewWordPrompt(req domain.GenerationRequest) string {
	vocab := "No known vocabulary yet."
	if len(req.CandidatePool) > 0 {
		vocab = strings.Join(req.CandidatePool, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vocab words: %s\n\n", vocab)
	b.WriteString("Based on the preceding list of vocab words, create a new word at a similar or slightly higher level of difficulty to add to the list, ")
	b.WriteString("create a Japanese definition for that word to use as a multiple choice question, ")
	b.WriteString("and choose three other words to use as incorrect multiple choice options. ")
	b.WriteString("The new word must be a word that is not already in the list of known words, ")
	b.WriteString("and it must be the only word that matches the definition so that the answer is unambiguous. ")
	b.WriteString("Put the correct answer as option number 1. Do not put furigana or romaji.\n\n")
	b.WriteString(format(req.WithGloss))
	return b.String()
}

// ExplanationPrompt asks for a translation of the definition and of every
// option. selected is covered only when it is a wrong answer.
func ExplanationPrompt(item *domain.QuizItem, selected string) string {
	var b strings.Builder
	b.WriteString("Given the following japanese definition, and words:\n")
	fmt.Fprintf(&b, "Definition: %s\n", item.DefinitionText)
	fmt.Fprintf(&b, "Words: %s\n", strings.Join(item.Options, ", "))
	b.WriteString("Format your output as follows, with no other text, and no romaji:\n")
	b.WriteString("Translation: [English translation of the definition]\n\n")
	for i := 1; i <= domain.OptionCount; i++ {
		fmt.Fprintf(&b, "%d. [Word %d] ([Furigana for Word %d]) - [English translation of Word %d]\n", i, i, i, i)
	}
	b.WriteString("\n[Concise one-line explanation of the correct answer]\n")
	if selected != "" && !item.IsCorrect(selected) {
		fmt.Fprintf(&b, "[Concise one-line explanation of why '%s' is incorrect]\n", selected)
	}
	return b.String()
}

func format(withGloss bool) string {
	if withGloss {
		return fmt.Sprintf(formatInstructions, glossLine)
	}
	return fmt.Sprintf(formatInstructions, "")
}
