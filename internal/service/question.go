package service

import (
	"context"
	"errors"
	"fmt"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"
	"vocab-quiz/internal/util"

	"go.uber.org/zap"
)

// QuestionPlan is a generation request plus what the scheduler knows about
// the target.
type QuestionPlan struct {
	Request     domain.GenerationRequest
	TargetIndex int
	// Known is consulted for new-word items to reject words already stored.
	Known map[string]struct{}
}

// QuestionService wraps a QuestionGenerator with bounded retry and
// structural validation. Nothing it returns has skipped validation.
type QuestionService struct {
	generator domain.QuestionGenerator
	policy    RetryPolicy
	sleep     SleepFunc
	newID     func() string
}

// NewQuestionService creates a QuestionService. A nil sleep uses a real timer.
func NewQuestionService(generator domain.QuestionGenerator, policy RetryPolicy, sleep SleepFunc) *QuestionService {
	return &QuestionService{
		generator: generator,
		policy:    policy,
		sleep:     sleep,
		newID:     util.NewULID,
	}
}

// GenerateWithRetry produces a validated item or domain.ErrNoItemAvailable
// once every attempt has failed. Transport and validation failures are
// retried the same way.
func (s *QuestionService) GenerateWithRetry(ctx context.Context, plan QuestionPlan) (*domain.QuizItem, error) {
	l := logger.Get().With(
		zap.String("variant", string(plan.Request.Variant)),
		zap.String("target_word", plan.Request.TargetWord),
	)

	var item *domain.QuizItem
	err := retry(ctx, s.policy, s.sleep, func(ctx context.Context, attempt int) error {
		raw, err := s.generator.GenerateQuestion(ctx, plan.Request)
		if err != nil {
			l.Warn("Question generation failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		l.Debug("Generator output", zap.Int("attempt", attempt), zap.String("raw", raw))

		candidate, err := s.buildItem(raw, plan)
		if err != nil {
			l.Warn("Rejected generator output", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		item = candidate
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		l.Error("Question generation exhausted", zap.Int("max_attempts", s.policy.MaxAttempts), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrNoItemAvailable, err)
	}
	return item, nil
}

func (s *QuestionService) buildItem(raw string, plan QuestionPlan) (*domain.QuizItem, error) {
	parsed, err := ParseQuestion(raw, plan.Request.WithGloss)
	if err != nil {
		return nil, err
	}

	item := domain.NewQuizItem(s.newID(), plan.Request.Variant, parsed.Definition, parsed.Gloss, parsed.Options, plan.TargetIndex)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	switch plan.Request.Variant {
	case domain.VariantReview:
		if item.CorrectAnswer != plan.Request.TargetWord {
			return nil, fmt.Errorf("%w: expected %q, got %q", ErrTargetMismatch, plan.Request.TargetWord, item.CorrectAnswer)
		}
	case domain.VariantNewWord:
		if _, known := plan.Known[item.CorrectAnswer]; known {
			return nil, fmt.Errorf("%w: %q", ErrKnownNewWord, item.CorrectAnswer)
		}
	}
	return item, nil
}
