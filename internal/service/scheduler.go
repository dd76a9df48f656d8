package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// SchedulerOptions configures word selection and prefetching.
type SchedulerOptions struct {
	// ReviewRatio is the probability that an item reviews a known word
	// rather than introducing a new one.
	ReviewRatio       float64
	CandidatePoolSize int
	WithGloss         bool
	// PrefetchWait caps how long an advance request waits for the
	// look-ahead slot before reporting "loading".
	PrefetchWait    time.Duration
	InitialVariance float64
	Tuning          domain.Tuning
	// Rand drives word selection and option shuffling. Nil seeds a new one.
	Rand *rand.Rand
}

// DefaultSchedulerOptions mirrors the configuration defaults.
func DefaultSchedulerOptions() SchedulerOptions {
	return SchedulerOptions{
		ReviewRatio:       0.5,
		CandidatePoolSize: 50,
		PrefetchWait:      2 * time.Minute,
		InitialVariance:   domain.DefaultInitialVariance,
		Tuning:            domain.DefaultTuning(),
	}
}

// ServedItem is an item together with its presentation order.
type ServedItem struct {
	Item           *domain.QuizItem
	DisplayOptions []string
	VocabularySize int
}

// GradeResult tells the presentation layer how to mark the options.
type GradeResult struct {
	ItemID        string
	Correct       bool
	CorrectAnswer string
	Selected      string
	TargetIndex   int
	Difficulty    domain.DifficultyModel
}

// Progress summarises the session for display.
type Progress struct {
	VocabularySize int
	Difficulty     domain.DifficultyModel
	WindowLower    int
	WindowUpper    int
}

// Scheduler is the single quiz session. It owns the current item, the
// one-slot look-ahead cache and the difficulty model.
//
// Two locks are involved. mu guards every field below it and is only held
// for short, non-blocking sections, so readers always see a whole item or
// none. genLock is the generation region: it is held for the full duration
// of every generator call, so at most one is in flight.
type Scheduler struct {
	vocab      domain.VocabularyStore
	difficulty domain.DifficultyStore
	questions  *QuestionService
	explainer  *ExplanationService
	opts       SchedulerOptions

	genLock      *semaphore.Weighted
	explainGroup singleflight.Group

	bgCtx    context.Context
	bgCancel context.CancelFunc
	wg       sync.WaitGroup

	mu             sync.Mutex
	rng            *rand.Rand
	words          []string
	wordIndex      map[string]int
	model          domain.DifficultyModel
	tuning         domain.Tuning
	reviewRatio    float64
	current        *domain.QuizItem
	next           *domain.QuizItem
	explanation    string
	explanationFor string
	lastGrade      *GradeResult
	prefetchDone   chan struct{}
	closed         bool
}

// NewScheduler loads the vocabulary and difficulty model and returns an idle
// session. Call Close to stop background work.
func NewScheduler(
	ctx context.Context,
	vocab domain.VocabularyStore,
	difficulty domain.DifficultyStore,
	questions *QuestionService,
	explainer *ExplanationService,
	opts SchedulerOptions,
) (*Scheduler, error) {
	words, err := vocab.Load(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load vocabulary", err)
	}
	model, found, err := difficulty.Load(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load difficulty", err)
	}
	if !found || model.Variance <= 0 {
		model = domain.InitialDifficulty(len(words), opts.InitialVariance)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Tuning.StepUp <= 0 || opts.Tuning.StepDown <= 0 {
		opts.Tuning = domain.DefaultTuning()
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		vocab:       vocab,
		difficulty:  difficulty,
		questions:   questions,
		explainer:   explainer,
		opts:        opts,
		genLock:     semaphore.NewWeighted(1),
		bgCtx:       bgCtx,
		bgCancel:    cancel,
		rng:         rng,
		wordIndex:   make(map[string]int, len(words)),
		model:       model,
		tuning:      opts.Tuning,
		reviewRatio: opts.ReviewRatio,
	}
	for _, w := range words {
		s.addWordLocked(w)
	}

	logger.Get().Info("Scheduler initialised",
		zap.Int("vocabulary_size", len(s.words)),
		zap.Float64("mean", model.Mean),
		zap.Float64("variance", model.Variance),
		zap.Bool("persisted_difficulty", found))
	return s, nil
}

// Close cancels background prefetching and waits for it to stop.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.bgCancel()
	s.wg.Wait()
}

// GetNextItem serves the next quiz item. The first call generates
// synchronously; later calls take the prefetched item, waiting up to
// PrefetchWait for it. domain.ErrNoItemAvailable means "try again".
func (s *Scheduler) GetNextItem(ctx context.Context) (*ServedItem, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return s.serveFirst(ctx)
	}
	s.mu.Unlock()
	return s.advance(ctx)
}

func (s *Scheduler) advance(ctx context.Context) (*ServedItem, error) {
	deadline := time.NewTimer(s.opts.PrefetchWait)
	defer deadline.Stop()

	for {
		s.mu.Lock()
		if s.next != nil {
			served := s.promoteLocked(s.next)
			s.next = nil
			s.ensurePrefetchLocked()
			s.mu.Unlock()
			return served, nil
		}
		done := s.ensurePrefetchLocked()
		s.mu.Unlock()

		select {
		case <-done:
		case <-deadline.C:
			logger.Get().Warn("Timed out waiting for prefetched item", zap.Duration("wait", s.opts.PrefetchWait))
			return nil, domain.ErrNoItemAvailable
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		// A prefetch that finished without an item means generation was
		// exhausted. Report loading; the next request starts a fresh one.
		s.mu.Lock()
		empty := s.next == nil && s.prefetchDone == nil
		if empty {
			s.ensurePrefetchLocked()
		}
		s.mu.Unlock()
		if empty {
			return nil, domain.ErrNoItemAvailable
		}
	}
}

func (s *Scheduler) serveFirst(ctx context.Context) (*ServedItem, error) {
	if err := s.genLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.current != nil {
		// Another request served the first item while this one waited.
		s.mu.Unlock()
		s.genLock.Release(1)
		return s.advance(ctx)
	}
	plan := s.planLocked()
	s.mu.Unlock()

	item, err := s.questions.GenerateWithRetry(ctx, plan)
	s.genLock.Release(1)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	served := s.promoteLocked(item)
	s.ensurePrefetchLocked()
	return served, nil
}

// promoteLocked makes item current and resets per-item state.
func (s *Scheduler) promoteLocked(item *domain.QuizItem) *ServedItem {
	s.current = item
	s.explanation = ""
	s.explanationFor = ""
	s.lastGrade = nil
	logger.Get().Info("Serving quiz item",
		zap.String("item_id", item.ID),
		zap.String("variant", string(item.Variant)),
		zap.Int("target_index", item.TargetWordIndex))
	return &ServedItem{
		Item:           item,
		DisplayOptions: item.DisplayOptions(s.rng),
		VocabularySize: len(s.words),
	}
}

// ensurePrefetchLocked starts a background prefetch unless one is already in
// flight, and returns a channel closed when that prefetch completes.
func (s *Scheduler) ensurePrefetchLocked() <-chan struct{} {
	if s.prefetchDone != nil {
		return s.prefetchDone
	}
	done := make(chan struct{})
	if s.closed {
		close(done)
		return done
	}
	s.prefetchDone = done
	s.wg.Add(1)
	go s.prefetch(done)
	return done
}

// testHookPrefetchExit, when set, runs as a prefetch goroutine returns.
var testHookPrefetchExit func()

// prefetch explains the current item and then fills the look-ahead slot,
// all inside the generation region.
func (s *Scheduler) prefetch(done chan struct{}) {
	defer s.wg.Done()
	defer func() {
		if testHookPrefetchExit != nil {
			testHookPrefetchExit()
		}
		s.mu.Lock()
		s.finishPrefetchLocked(done)
		s.mu.Unlock()
		close(done)
	}()

	ctx := s.bgCtx
	if err := s.genLock.Acquire(ctx, 1); err != nil {
		return
	}
	defer s.genLock.Release(1)

	s.mu.Lock()
	cur := s.current
	explained := cur != nil && s.explanationFor == cur.ID
	s.mu.Unlock()
	if cur != nil && !explained {
		if text, ok := s.explainer.Explain(ctx, cur, ""); ok {
			s.storeExplanation(cur, text)
		}
	}

	s.mu.Lock()
	if s.next != nil {
		s.finishPrefetchLocked(done)
		s.mu.Unlock()
		return
	}
	plan := s.planLocked()
	s.mu.Unlock()

	item, err := s.questions.GenerateWithRetry(ctx, plan)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Get().Warn("Prefetch produced no item", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	if s.next == nil {
		s.next = item
	}
	// Whoever takes next from here on must be able to start a new prefetch.
	s.finishPrefetchLocked(done)
	s.mu.Unlock()
}

// finishPrefetchLocked detaches done from the scheduler. It must run in the
// same critical section that publishes (or finds) the look-ahead item.
func (s *Scheduler) finishPrefetchLocked(done chan struct{}) {
	if s.prefetchDone == done {
		s.prefetchDone = nil
	}
}

// planLocked chooses the variant, target word and candidate pool for the
// next generation.
func (s *Scheduler) planLocked() QuestionPlan {
	size := len(s.words)
	if size == 0 || s.rng.Float64() >= s.reviewRatio {
		lower, upper := s.model.Window(size)
		return QuestionPlan{
			Request: domain.GenerationRequest{
				Variant:       domain.VariantNewWord,
				CandidatePool: s.sampleLocked(lower, upper, -1),
				WithGloss:     s.opts.WithGloss,
			},
			TargetIndex: -1,
			Known:       s.knownSetLocked(),
		}
	}

	idx, _ := s.model.SelectTargetIndex(s.rng, size)
	lower, upper := s.model.Window(size)
	pool := s.sampleLocked(lower, upper, idx)
	if len(pool) < domain.OptionCount-1 {
		pool = s.sampleLocked(0, size, idx)
	}
	return QuestionPlan{
		Request: domain.GenerationRequest{
			Variant:       domain.VariantReview,
			TargetWord:    s.words[idx],
			CandidatePool: pool,
			WithGloss:     s.opts.WithGloss,
		},
		TargetIndex: idx,
	}
}

// sampleLocked returns up to CandidatePoolSize words from [lower, upper),
// skipping index skip.
func (s *Scheduler) sampleLocked(lower, upper, skip int) []string {
	indices := make([]int, 0, upper-lower)
	for i := lower; i < upper; i++ {
		if i != skip {
			indices = append(indices, i)
		}
	}
	limit := s.opts.CandidatePoolSize
	if limit > 0 && len(indices) > limit {
		s.rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		indices = indices[:limit]
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = s.words[idx]
	}
	return out
}

// knownSetLocked includes the ungraded current item so a prefetched new
// word cannot repeat it.
func (s *Scheduler) knownSetLocked() map[string]struct{} {
	known := make(map[string]struct{}, len(s.words)+1)
	for _, w := range s.words {
		known[w] = struct{}{}
	}
	if s.current != nil {
		known[s.current.CorrectAnswer] = struct{}{}
	}
	return known
}

func (s *Scheduler) addWordLocked(word string) int {
	if idx, ok := s.wordIndex[word]; ok {
		return idx
	}
	s.words = append(s.words, word)
	s.wordIndex[word] = len(s.words) - 1
	return len(s.words) - 1
}

func (s *Scheduler) storeExplanation(item *domain.QuizItem, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == item && s.explanationFor != item.ID {
		s.explanation = text
		s.explanationFor = item.ID
	}
}

// GetExplanation returns the cached explanation of the current item,
// generating it on first use, along with the id of the item it explains.
// Concurrent callers share one generation.
func (s *Scheduler) GetExplanation(ctx context.Context, selected string) (itemID, text string, err error) {
	s.mu.Lock()
	cur := s.current
	if cur == nil {
		s.mu.Unlock()
		return "", "", domain.NewNotFoundError("No question to explain")
	}
	if s.explanationFor == cur.ID {
		cached := s.explanation
		s.mu.Unlock()
		return cur.ID, cached, nil
	}
	s.mu.Unlock()

	if selected != "" && cur.IsCorrect(selected) {
		selected = ""
	}
	key := cur.ID + "|" + selected
	// The shared call outlives any single caller's request.
	shared := context.WithoutCancel(ctx)
	v, _, _ := s.explainGroup.Do(key, func() (interface{}, error) {
		out, ok := s.explainer.Explain(shared, cur, selected)
		if ok {
			s.storeExplanation(cur, out)
		}
		return out, nil
	})
	return cur.ID, v.(string), nil
}

// GradeAnswer grades selected against the current item identified by itemID.
// Grading the same item twice returns the first result without touching the
// difficulty model again.
func (s *Scheduler) GradeAnswer(ctx context.Context, itemID, selected string) (*GradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current
	if cur == nil {
		return nil, domain.NewNotFoundError("No quiz item has been served")
	}
	if cur.ID != itemID {
		return nil, domain.NewItemMismatchError(itemID)
	}
	if s.lastGrade != nil && s.lastGrade.ItemID == itemID {
		prev := *s.lastGrade
		return &prev, nil
	}

	result, err := s.gradeLocked(ctx, selected, cur.CorrectAnswer, cur.TargetWordIndex)
	if err != nil {
		return nil, err
	}
	result.ItemID = itemID
	s.lastGrade = result
	out := *result
	return &out, nil
}

// Grade compares selected with correctAnswer, records correctAnswer in the
// vocabulary if it is new, and updates and persists the difficulty model.
func (s *Scheduler) Grade(ctx context.Context, selected, correctAnswer string, targetIndex int) (*GradeResult, error) {
	if correctAnswer == "" {
		return nil, domain.NewInvalidInputError("correct answer is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gradeLocked(ctx, selected, correctAnswer, targetIndex)
}

func (s *Scheduler) gradeLocked(ctx context.Context, selected, correctAnswer string, targetIndex int) (*GradeResult, error) {
	correct := selected == correctAnswer

	if idx, ok := s.wordIndex[correctAnswer]; ok {
		targetIndex = idx
	} else {
		if err := s.vocab.Append(ctx, correctAnswer); err != nil {
			return nil, domain.NewStorageError("Failed to append word to vocabulary", err)
		}
		targetIndex = s.addWordLocked(correctAnswer)
	}

	next := s.model.ApplyFeedback(len(s.words), correct, s.tuning)
	if err := s.difficulty.Save(ctx, next); err != nil {
		return nil, domain.NewStorageError("Failed to save difficulty", err)
	}
	logger.Get().Info("Graded answer",
		zap.Bool("correct", correct),
		zap.Int("target_index", targetIndex),
		zap.Float64("mean_before", s.model.Mean),
		zap.Float64("mean", next.Mean),
		zap.Float64("variance", next.Variance))
	s.model = next

	return &GradeResult{
		Correct:       correct,
		CorrectAnswer: correctAnswer,
		Selected:      selected,
		TargetIndex:   targetIndex,
		Difficulty:    next,
	}, nil
}

// SetTuning replaces the feedback steps and review ratio of the running
// session.
func (s *Scheduler) SetTuning(t domain.Tuning, reviewRatio float64) error {
	if t.StepUp <= 0 || t.StepDown <= t.StepUp {
		return fmt.Errorf("invalid tuning: step_down must exceed step_up > 0, got up=%v down=%v", t.StepUp, t.StepDown)
	}
	if reviewRatio < 0 || reviewRatio > 1 {
		return fmt.Errorf("invalid review ratio %v", reviewRatio)
	}
	s.mu.Lock()
	s.tuning = t
	s.reviewRatio = reviewRatio
	s.mu.Unlock()
	return nil
}

// Progress reports vocabulary size and the current difficulty window.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	lower, upper := s.model.Window(len(s.words))
	return Progress{
		VocabularySize: len(s.words),
		Difficulty:     s.model,
		WindowLower:    lower,
		WindowUpper:    upper,
	}
}

// Vocabulary returns a copy of the known words in rank order.
func (s *Scheduler) Vocabulary() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}
