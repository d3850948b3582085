package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/plankabot/internal/resilience"
)

type breakerGenerator struct {
	next    Generator
	breaker *resilience.CircuitBreaker
}

// WithCircuitBreaker stops calling gen for cooldown after maxFailures consecutive
// failures and returns resilience.ErrCircuitOpen instead.
// A non-positive maxFailures returns gen unchanged.
func WithCircuitBreaker(gen Generator, maxFailures int, cooldown time.Duration, log *slog.Logger) Generator {
	if maxFailures <= 0 {
		return gen
	}
	return &breakerGenerator{
		next: gen,
		breaker: resilience.NewCircuitBreaker(resilience.BreakerConfig{
			Name:        "llm",
			MaxFailures: maxFailures,
			Cooldown:    cooldown,
		}, log),
	}
}

func (b *breakerGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var text string
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		text, err = b.next.Generate(ctx, req)
		return err
	})
	return text, err
}
