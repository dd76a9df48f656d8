package service

import (
	"context"
	"strings"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"

	"go.uber.org/zap"
)

// FallbackExplanation is served when every explanation attempt fails.
const FallbackExplanation = "Sorry, couldn't generate explanation."

// ExplanationService retries an ExplanationGenerator and degrades to
// FallbackExplanation instead of returning an error.
type ExplanationService struct {
	generator domain.ExplanationGenerator
	policy    RetryPolicy
	sleep     SleepFunc
}

func NewExplanationService(generator domain.ExplanationGenerator, policy RetryPolicy, sleep SleepFunc) *ExplanationService {
	return &ExplanationService{generator: generator, policy: policy, sleep: sleep}
}

// Explain returns an explanation of item, covering selected when it is a
// wrong answer. ok is false when the fallback text was returned instead.
func (s *ExplanationService) Explain(ctx context.Context, item *domain.QuizItem, selected string) (text string, ok bool) {
	l := logger.Get().With(zap.String("item_id", item.ID))

	err := retry(ctx, s.policy, s.sleep, func(ctx context.Context, attempt int) error {
		out, err := s.generator.Explain(ctx, item, selected)
		if err != nil {
			l.Warn("Explanation generation failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		text = cleanExplanation(out)
		return nil
	})
	if err != nil || text == "" {
		l.Error("Explanation generation exhausted", zap.Error(err))
		return FallbackExplanation, false
	}
	return text, true
}

func cleanExplanation(raw string) string {
	s := stripModelNoise(raw)
	s = strings.Replace(s, "Translation: ", "", 1)
	return strings.TrimSpace(s)
}
