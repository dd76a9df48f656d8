package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    *QuizItem
		wantErr bool
	}{
		{
			name: "valid",
			item: NewQuizItem("id", VariantReview, "動物の一種", "", []string{"猫", "犬", "鳥", "魚"}, 0),
		},
		{
			name:    "three options",
			item:    NewQuizItem("id", VariantReview, "動物の一種", "", []string{"猫", "犬", "鳥"}, 0),
			wantErr: true,
		},
		{
			name:    "duplicate option",
			item:    NewQuizItem("id", VariantReview, "動物の一種", "", []string{"猫", "犬", "猫", "魚"}, 0),
			wantErr: true,
		},
		{
			name:    "empty definition",
			item:    NewQuizItem("id", VariantReview, " ", "", []string{"猫", "犬", "鳥", "魚"}, 0),
			wantErr: true,
		},
		{
			name:    "gloss line count differs",
			item:    NewQuizItem("id", VariantReview, "一行", "ichi\ngyou", []string{"猫", "犬", "鳥", "魚"}, 0),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuizItem_DisplayOptionsKeepsCorrectAnswer(t *testing.T) {
	item := NewQuizItem("id", VariantReview, "動物の一種", "", []string{"猫", "犬", "鳥", "魚"}, 0)
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 20; i++ {
		shown := item.DisplayOptions(rng)
		assert.ElementsMatch(t, item.Options, shown)
		assert.Equal(t, "猫", item.CorrectAnswer)
		assert.Equal(t, "猫", item.Options[0])
	}
	assert.True(t, item.IsCorrect("猫"))
	assert.False(t, item.IsCorrect("犬"))
}
