package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/llm"
	"github.com/edgard/plankabot/internal/resilience"
	"github.com/edgard/plankabot/internal/transcript"
)

type recordingGenerator struct {
	requests []llm.Request
	reply    string
	err      error
}

func (r *recordingGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	r.requests = append(r.requests, req)
	return r.reply, r.err
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Temperature:       0.9,
		MaxOutputTokens:   300,
		Timeout:           time.Minute,
		ContextBudget:     transcript.DefaultBudget,
		StoryDefaultInput: "просто история",
		ExplainStyles:     []string{"по-пацански", "как Шекспир"},
	}
}

var testPrompts = config.Prompts{Story: "story prompt", Judge: "judge prompt", Explain: "explain prompt"}

func TestGatewayStory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		extra     string
		wantInput string
	}{
		{name: "default input", extra: "", wantInput: "просто история"},
		{name: "blank input", extra: "   ", wantInput: "просто история"},
		{name: "user context", extra: "про понедельник", wantInput: "про понедельник"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := &recordingGenerator{reply: "история"}
			gw := llm.NewGateway(gen, testLLMConfig(), testPrompts)

			got, err := gw.Story(context.Background(), tt.extra)
			require.NoError(t, err)
			assert.Equal(t, "история", got)
			require.Len(t, gen.requests, 1)
			assert.Equal(t, llm.Request{
				Instructions:    "story prompt",
				Input:           tt.wantInput,
				Temperature:     0.9,
				MaxOutputTokens: 300,
			}, gen.requests[0])
		})
	}
}

func TestGatewayJudgeDayUsesTranscript(t *testing.T) {
	t.Parallel()
	gen := &recordingGenerator{reply: "Анна"}
	gw := llm.NewGateway(gen, testLLMConfig(), testPrompts)

	users := []transcript.UserMessages{{Name: "Анна", Texts: []string{"я Цой"}}}
	got, err := gw.JudgeDay(context.Background(), "кто похож на Цоя?", users)
	require.NoError(t, err)
	assert.Equal(t, "Анна", got)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "judge prompt", gen.requests[0].Instructions)
	assert.Equal(t, transcript.BuildPrompt("кто похож на Цоя?", users, transcript.DefaultBudget), gen.requests[0].Input)
}

func TestGatewayExplainStyle(t *testing.T) {
	t.Parallel()

	gen := &recordingGenerator{reply: "ок"}
	gw := llm.NewGateway(gen, testLLMConfig(), testPrompts, llm.WithRand(func(n int) int { return n - 1 }))

	_, err := gw.Explain(context.Background(), "текст", "как робот")
	require.NoError(t, err)
	_, err = gw.Explain(context.Background(), "текст", "")
	require.NoError(t, err)

	require.Len(t, gen.requests, 2)
	assert.Equal(t, "Стиль объяснения: как робот\n\nТекст:\nтекст", gen.requests[0].Input)
	assert.Equal(t, "Стиль объяснения: как Шекспир\n\nТекст:\nтекст", gen.requests[1].Input)
	assert.Equal(t, "explain prompt", gen.requests[1].Instructions)
}

func TestGatewayWrapsErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	gw := llm.NewGateway(&recordingGenerator{err: boom}, testLLMConfig(), testPrompts)

	_, err := gw.Story(context.Background(), "")
	require.ErrorIs(t, err, boom)
	assert.True(t, strings.Contains(err.Error(), "story"), err.Error())
}

func TestGatewayAppliesTimeout(t *testing.T) {
	t.Parallel()
	cfg := testLLMConfig()
	cfg.Timeout = 5 * time.Second

	var deadline time.Time
	gen := llm.GeneratorFunc(func(ctx context.Context, _ llm.Request) (string, error) {
		var ok bool
		deadline, ok = ctx.Deadline()
		if !ok {
			return "", errors.New("no deadline")
		}
		return "ok", nil
	})
	gw := llm.NewGateway(gen, cfg, testPrompts)

	_, err := gw.Story(context.Background(), "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 2*time.Second)
}

func TestModelURI(t *testing.T) {
	t.Parallel()
	if got, want := llm.ModelURI("b1g", "yandexgpt/rc"), "gpt://b1g/yandexgpt/rc"; got != want {
		t.Errorf("ModelURI() = %q, want %q", got, want)
	}
	if got, want := llm.ModelURI("", "gpt-4o"), "gpt-4o"; got != want {
		t.Errorf("ModelURI() = %q, want %q", got, want)
	}
}

func TestCircuitBreakerStopsCallingBackend(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("upstream down")}
	g := llm.NewGateway(llm.WithCircuitBreaker(gen, 2, time.Hour, nil), testLLMConfig(), testPrompts)

	for range 2 {
		_, err := g.Story(context.Background(), "")
		require.Error(t, err)
	}
	_, err := g.Story(context.Background(), "")
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Len(t, gen.requests, 2)
}

func TestCircuitBreakerDisabled(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	assert.Same(t, llm.Generator(gen), llm.WithCircuitBreaker(gen, 0, time.Minute, nil))
}

func TestRepliesAreStrippedOfMarkdown(t *testing.T) {
	gen := &recordingGenerator{reply: "**Анна**, без вариантов"}
	g := llm.NewGateway(gen, testLLMConfig(), testPrompts)

	got, err := g.JudgeDay(context.Background(), "кто молодец?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Анна, без вариантов", got)
}

func TestBlankReplyIsAnError(t *testing.T) {
	gen := &recordingGenerator{reply: "  \n"}
	g := llm.NewGateway(gen, testLLMConfig(), testPrompts)

	_, err := g.Story(context.Background(), "")
	require.ErrorIs(t, err, llm.ErrEmptyResponse)
}
