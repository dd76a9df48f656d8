package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocab-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewPlan(target string) QuestionPlan {
	return QuestionPlan{
		Request: domain.GenerationRequest{
			Variant:       domain.VariantReview,
			TargetWord:    target,
			CandidatePool: []string{"犬", "鳥", "魚"},
		},
		TargetIndex: 0,
	}
}

func newTestQuestionService(gen domain.QuestionGenerator, sleeper *countingSleep) *QuestionService {
	policy := RetryPolicy{MaxAttempts: 10, Backoff: 5 * time.Second, Multiplier: 1}
	return NewQuestionService(gen, policy, sleeper.sleep)
}

func TestQuestionService_SucceedsAfterFailures(t *testing.T) {
	for _, k := range []int{0, 1, 5, 9} {
		gen := &scriptedGenerator{}
		for i := 0; i < k; i++ {
			gen.errs = append(gen.errs, errors.New("transport failure"))
			gen.responses = append(gen.responses, "")
		}
		gen.responses = append(gen.responses, wellFormed("猫", "犬", "鳥", "魚"))
		gen.errs = append(gen.errs, nil)

		sleeper := &countingSleep{}
		item, err := newTestQuestionService(gen, sleeper).GenerateWithRetry(context.Background(), reviewPlan("猫"))

		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, "猫", item.CorrectAnswer)
		assert.Equal(t, k+1, gen.callCount(), "k=%d", k)
		assert.Equal(t, k, sleeper.count(), "k=%d", k)
		assert.NotEmpty(t, item.ID)
	}
}

func TestQuestionService_ExhaustsAfterTenAttempts(t *testing.T) {
	gen := &scriptedGenerator{}
	for i := 0; i < 20; i++ {
		gen.errs = append(gen.errs, errors.New("transport failure"))
	}
	sleeper := &countingSleep{}

	item, err := newTestQuestionService(gen, sleeper).GenerateWithRetry(context.Background(), reviewPlan("猫"))

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrNoItemAvailable)
	assert.Equal(t, 10, gen.callCount())
	assert.Equal(t, 9, sleeper.count())
	for _, d := range sleeper.waits {
		assert.Equal(t, 5*time.Second, d)
	}
}

func TestQuestionService_InvalidResponsesCountAsFailedAttempts(t *testing.T) {
	tests := []struct {
		name string
		bad  string
	}{
		{"only three options", "Definition: 定義\n1) 猫\n2) 犬\n3) 鳥"},
		{"duplicate options", wellFormed("猫", "犬", "犬", "魚")},
		{"target mismatch", wellFormed("犬", "猫", "鳥", "魚")},
		{"too few lines", "Definition: 定義"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{responses: []string{tt.bad, wellFormed("猫", "犬", "鳥", "魚")}}
			sleeper := &countingSleep{}

			item, err := newTestQuestionService(gen, sleeper).GenerateWithRetry(context.Background(), reviewPlan("猫"))

			require.NoError(t, err)
			assert.Equal(t, "猫", item.CorrectAnswer)
			assert.Equal(t, 2, gen.callCount())
			assert.Equal(t, 1, sleeper.count())
		})
	}
}

func TestQuestionService_AlwaysMismatchedIsExhausted(t *testing.T) {
	gen := &scriptedGenerator{}
	for i := 0; i < 10; i++ {
		gen.responses = append(gen.responses, wellFormed("犬", "猫", "鳥", "魚"))
	}
	sleeper := &countingSleep{}

	_, err := newTestQuestionService(gen, sleeper).GenerateWithRetry(context.Background(), reviewPlan("猫"))

	assert.ErrorIs(t, err, domain.ErrNoItemAvailable)
	assert.Equal(t, 10, gen.callCount())
	assert.Equal(t, 9, sleeper.count())
}

func TestQuestionService_NewWordMustBeUnknown(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		wellFormed("猫", "犬", "鳥", "魚"),
		wellFormed("象", "犬", "鳥", "魚"),
	}}
	sleeper := &countingSleep{}
	plan := QuestionPlan{
		Request:     domain.GenerationRequest{Variant: domain.VariantNewWord, CandidatePool: []string{"猫"}},
		TargetIndex: -1,
		Known:       map[string]struct{}{"猫": {}},
	}

	item, err := newTestQuestionService(gen, sleeper).GenerateWithRetry(context.Background(), plan)

	require.NoError(t, err)
	assert.Equal(t, "象", item.CorrectAnswer)
	assert.Equal(t, -1, item.TargetWordIndex)
	assert.Equal(t, domain.VariantNewWord, item.Variant)
	assert.Equal(t, 2, gen.callCount())
}

func TestQuestionService_CancelledContextIsNotExhaustion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &scriptedGenerator{}

	_, err := newTestQuestionService(gen, &countingSleep{}).GenerateWithRetry(ctx, reviewPlan("猫"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrNoItemAvailable)
}
