package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/sanitize"
	"github.com/edgard/plankabot/internal/transcript"
)

// Gateway turns bot commands into generation requests and strips Markdown from the replies.
// It does not retry or cache; failures are returned to the caller.
type Gateway struct {
	gen          Generator
	prompts      config.Prompts
	temperature  float32
	maxTokens    int
	timeout      time.Duration
	budget       int
	storyDefault string
	styles       []string
	intn         func(n int) int
	policy       *sanitize.Policy
	log          *slog.Logger
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithRand replaces the random source used to pick explain styles.
func WithRand(intn func(n int) int) GatewayOption {
	return func(g *Gateway) {
		g.intn = intn
	}
}

// WithLogger sets the gateway logger.
func WithLogger(log *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.log = log
	}
}

// NewGateway creates a Gateway over gen using the generation parameters of cfg.
func NewGateway(gen Generator, cfg config.LLMConfig, prompts config.Prompts, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		gen:          gen,
		prompts:      prompts,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxOutputTokens,
		timeout:      cfg.Timeout,
		budget:       cfg.ContextBudget,
		storyDefault: cfg.StoryDefaultInput,
		styles:       cfg.ExplainStyles,
		intn:         rand.IntN,
		policy:       sanitize.NewTelegramPolicy(),
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.budget <= 0 {
		g.budget = transcript.DefaultBudget
	}
	if g.storyDefault == "" {
		g.storyDefault = config.DefaultStoryInput
	}
	if len(g.styles) == 0 {
		g.styles = config.DefaultExplainStyles
	}
	g.log = g.log.With("component", "llm_gateway")
	return g
}

// Story generates a story, using extra as the user's context.
func (g *Gateway) Story(ctx context.Context, extra string) (string, error) {
	input := strings.TrimSpace(extra)
	if input == "" {
		input = g.storyDefault
	}
	return g.generate(ctx, "story", g.prompts.Story, input)
}

// JudgeDay answers question from today's per-user chat transcript.
func (g *Gateway) JudgeDay(ctx context.Context, question string, users []transcript.UserMessages) (string, error) {
	input := transcript.BuildPrompt(question, users, g.budget)
	return g.generate(ctx, "judge", g.prompts.Judge, input)
}

// Explain retells text in style. An empty style is picked at random.
func (g *Gateway) Explain(ctx context.Context, text, style string) (string, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		style = g.styles[g.intn(len(g.styles))]
	}
	input := fmt.Sprintf("Стиль объяснения: %s\n\nТекст:\n%s", style, text)
	return g.generate(ctx, "explain", g.prompts.Explain, input)
}

func (g *Gateway) generate(ctx context.Context, op, instructions, input string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := g.gen.Generate(ctx, Request{
		Instructions:    instructions,
		Input:           input,
		Temperature:     g.temperature,
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		g.log.ErrorContext(ctx, "Generation failed", "operation", op, "input_chars", len([]rune(input)), "error", err)
		return "", fmt.Errorf("failed to generate %s: %w", op, err)
	}

	out = g.policy.SanitizeText(out)
	if out == "" {
		g.log.WarnContext(ctx, "Generation returned no displayable text", "operation", op)
		return "", fmt.Errorf("failed to generate %s: %w", op, ErrEmptyResponse)
	}

	g.log.InfoContext(ctx, "Generation completed", "operation", op, "input_chars", len([]rune(input)), "output_chars", len([]rune(out)), "duration", time.Since(start))
	return out, nil
}
