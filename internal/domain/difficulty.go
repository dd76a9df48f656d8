package domain

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	DefaultInitialVariance = 1000.0
	DefaultStepUp          = 100.0
	DefaultStepDown        = 1000.0
)

// DifficultyModel tracks the user's level as a window over the ranked
// vocabulary: Mean is the centre index, Variance the half-width.
type DifficultyModel struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Tuning holds the feedback step sizes. StepDown is expected to exceed StepUp
// so that failures retreat faster than successes advance.
type Tuning struct {
	StepUp   float64
	StepDown float64
}

// DefaultTuning returns the stock step sizes.
func DefaultTuning() Tuning {
	return Tuning{StepUp: DefaultStepUp, StepDown: DefaultStepDown}
}

// InitialDifficulty is the model used when nothing has been persisted yet.
func InitialDifficulty(vocabularySize int, variance float64) DifficultyModel {
	if variance <= 0 {
		variance = DefaultInitialVariance
	}
	return DifficultyModel{Mean: float64(vocabularySize) / 2, Variance: variance}
}

// Validate rejects models that cannot drive selection: non-finite values or
// a negative mean. A non-positive variance is allowed; loaders treat it as
// "not initialised".
func (m DifficultyModel) Validate() error {
	if math.IsNaN(m.Mean) || math.IsInf(m.Mean, 0) {
		return fmt.Errorf("mean %v is not finite", m.Mean)
	}
	if math.IsNaN(m.Variance) || math.IsInf(m.Variance, 0) {
		return fmt.Errorf("variance %v is not finite", m.Variance)
	}
	if m.Mean < 0 {
		return fmt.Errorf("mean %v is negative", m.Mean)
	}
	return nil
}

// Window returns the half-open index range [lower, upper) sampled by
// SelectTargetIndex. It is non-empty whenever vocabularySize > 0.
func (m DifficultyModel) Window(vocabularySize int) (lower, upper int) {
	if vocabularySize <= 0 {
		return 0, 0
	}
	lower = clampInt(int(math.Ceil(m.Mean-m.Variance)), 0, vocabularySize)
	upper = clampInt(int(math.Ceil(m.Mean+m.Variance)), 1, vocabularySize)
	if lower >= upper {
		lower = max(0, upper-1)
	}
	return lower, upper
}

// SelectTargetIndex picks a uniformly random index inside the window. It
// returns ErrEmptyVocabulary when there is nothing to choose from.
func (m DifficultyModel) SelectTargetIndex(rng *rand.Rand, vocabularySize int) (int, error) {
	if vocabularySize <= 0 {
		return 0, ErrEmptyVocabulary
	}
	lower, upper := m.Window(vocabularySize)
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	return lower + intN(upper-lower), nil
}

// ApplyFeedback moves the mean after a graded answer. A correct answer steps
// up, capped at vocabularySize-Variance; an incorrect one steps down, floored
// at Variance. The mean never goes negative and Variance is left unchanged.
func (m DifficultyModel) ApplyFeedback(vocabularySize int, correct bool, t Tuning) DifficultyModel {
	next := m
	if correct {
		next.Mean = math.Min(float64(vocabularySize)-m.Variance, m.Mean+t.StepUp)
	} else {
		next.Mean = math.Max(m.Variance, m.Mean-t.StepDown)
	}
	if next.Mean < 0 {
		next.Mean = 0
	}
	return next
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
