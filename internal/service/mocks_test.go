package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"vocab-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockVocabularyStore ---
type MockVocabularyStore struct {
	mock.Mock
}

func (m *MockVocabularyStore) Load(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVocabularyStore) Append(ctx context.Context, word string) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

// --- MockDifficultyStore ---
type MockDifficultyStore struct {
	mock.Mock
}

func (m *MockDifficultyStore) Load(ctx context.Context) (domain.DifficultyModel, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DifficultyModel), args.Bool(1), args.Error(2)
}

func (m *MockDifficultyStore) Save(ctx context.Context, model domain.DifficultyModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

// --- in-memory stores ---
type memoryVocabulary struct {
	mu    sync.Mutex
	words []string
}

func (v *memoryVocabulary) Load(ctx context.Context) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.words...), nil
}

func (v *memoryVocabulary) Append(ctx context.Context, word string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.words = append(v.words, word)
	return nil
}

func (v *memoryVocabulary) snapshot() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.words...)
}

type memoryDifficulty struct {
	mu    sync.Mutex
	model domain.DifficultyModel
	found bool
	saves int
}

func (d *memoryDifficulty) Load(ctx context.Context) (domain.DifficultyModel, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.model, d.found, nil
}

func (d *memoryDifficulty) Save(ctx context.Context, model domain.DifficultyModel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.model = model
	d.found = true
	d.saves++
	return nil
}

func (d *memoryDifficulty) get() (domain.DifficultyModel, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.model, d.saves
}

// --- generators ---

// scriptedGenerator returns responses in order; a nil entry in errs at the
// same index makes that call succeed with the response.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (g *scriptedGenerator) GenerateQuestion(ctx context.Context, req domain.GenerationRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// echoGenerator builds a well-formed response for any request, optionally
// slowly, and records the peak number of concurrent calls.
type echoGenerator struct {
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	fail     atomic.Bool
}

func (g *echoGenerator) GenerateQuestion(ctx context.Context, req domain.GenerationRequest) (string, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	call := g.calls.Add(1)

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.fail.Load() {
		return "", errors.New("generator unavailable")
	}

	target := req.TargetWord
	if req.Variant == domain.VariantNewWord {
		target = fmt.Sprintf("新語%d", call)
	}
	return wellFormed(target, fmt.Sprintf("d%d-1", call), fmt.Sprintf("d%d-2", call), fmt.Sprintf("d%d-3", call)), nil
}

func (g *echoGenerator) Explain(ctx context.Context, item *domain.QuizItem, selected string) (string, error) {
	if selected != "" {
		return "Translation: explains " + item.CorrectAnswer + " not " + selected, nil
	}
	return "Translation: explains " + item.CorrectAnswer, nil
}

func wellFormed(options ...string) string {
	var b strings.Builder
	b.WriteString("Definition: テストの定義\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "%d) %s\n", i+1, opt)
	}
	return b.String()
}

// countingSleep records every backoff without waiting.
type countingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *countingSleep) sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	return ctx.Err()
}

func (c *countingSleep) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waits)
}

type failingExplainer struct {
	calls atomic.Int32
}

func (f *failingExplainer) Explain(ctx context.Context, item *domain.QuizItem, selected string) (string, error) {
	f.calls.Add(1)
	return "", errors.New("explain failed")
}
