package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/plankabot/internal/config"
)

// NewGenerator builds the backend selected by cfg.Provider behind a circuit breaker.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Generator, error) {
	gen, err := newBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return WithCircuitBreaker(gen, cfg.BreakerFailures, cfg.BreakerCooldown, log), nil
}

func newBackend(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, log)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Project:    cfg.Project,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
		}, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
