package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// NewModel creates the langchaingo model named by cfg.Provider, throttled to
// cfg.RequestsPerSecond when that is positive.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	l := logger.Get()
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model name cannot be empty")
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case ProviderOllama:
		timeout := cfg.AttemptTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		model, err = openai.New(opts...)
	case ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		model, err = googleai.New(ctx, googleai.WithAPIKey(cfg.APIKey), googleai.WithDefaultModel(cfg.Model))
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	l.Info("LLM client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Float64("requests_per_second", cfg.RequestsPerSecond))
	return WithRateLimit(model, cfg.RequestsPerSecond, cfg.Burst), nil
}

// RateLimitedModel waits on a token bucket before every provider call.
type RateLimitedModel struct {
	model   llms.Model
	limiter *rate.Limiter
}

var _ llms.Model = (*RateLimitedModel)(nil)

// WithRateLimit wraps model with a limiter. A non-positive rps disables
// throttling and returns model unchanged.
func WithRateLimit(model llms.Model, rps float64, burst int) llms.Model {
	if rps <= 0 {
		return model
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedModel{model: model, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (m *RateLimitedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return m.model.GenerateContent(ctx, messages, options...)
}

// Call is the single-prompt form kept by llms.Model.
func (m *RateLimitedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
