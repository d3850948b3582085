package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	calls   int
	errs    []error
	resp    *genai.GenerateContentResponse
	config  *genai.GenerateContentConfig
	content []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.config, f.content = cfg, contents
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.resp, nil
}

func geminiText(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}, Role: genai.RoleModel},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func TestGeminiGenerate(t *testing.T) {
	t.Parallel()
	models := &fakeModels{resp: geminiText("  история  ")}
	g := newGeminiGenerator(models, GeminiConfig{Model: "gemini-2.0-flash"}, discardLogger())

	got, err := g.Generate(context.Background(), Request{Instructions: "sys", Input: "in", Temperature: 0.7, MaxOutputTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "история", got)

	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "sys", models.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, float32(0.7), *models.config.Temperature)
	assert.Equal(t, int32(100), models.config.MaxOutputTokens)
	require.Len(t, models.content, 1)
	assert.Equal(t, "in", models.content[0].Parts[0].Text)
}

func TestGeminiRetriesServerErrors(t *testing.T) {
	t.Parallel()
	models := &fakeModels{
		errs: []error{&genai.APIError{Code: 503}, &genai.APIError{Code: 500}},
		resp: geminiText("ok"),
	}
	g := newGeminiGenerator(models, GeminiConfig{Model: "m", MaxRetries: 2}, discardLogger())

	got, err := g.Generate(context.Background(), Request{Input: "in"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, models.calls)
}

func TestGeminiDoesNotRetryByDefault(t *testing.T) {
	t.Parallel()
	models := &fakeModels{errs: []error{&genai.APIError{Code: 503}}, resp: geminiText("ok")}
	g := newGeminiGenerator(models, GeminiConfig{Model: "m"}, discardLogger())

	_, err := g.Generate(context.Background(), Request{Input: "in"})
	require.Error(t, err)
	assert.Equal(t, 1, models.calls)
}

func TestGeminiNonRetriableError(t *testing.T) {
	t.Parallel()
	boom := errors.New("bad request")
	models := &fakeModels{errs: []error{boom}}
	g := newGeminiGenerator(models, GeminiConfig{Model: "m", MaxRetries: 3}, discardLogger())

	_, err := g.Generate(context.Background(), Request{Input: "in"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, models.calls)
}

func TestGeminiEmptyAndBlocked(t *testing.T) {
	t.Parallel()

	g := newGeminiGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, GeminiConfig{Model: "m"}, discardLogger())
	_, err := g.Generate(context.Background(), Request{Input: "in"})
	require.ErrorIs(t, err, ErrEmptyResponse)

	blocked := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason:        genai.BlockedReasonSafety,
			BlockReasonMessage: "unsafe",
		},
	}
	g = newGeminiGenerator(&fakeModels{resp: blocked}, GeminiConfig{Model: "m"}, discardLogger())
	_, err = g.Generate(context.Background(), Request{Input: "in"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsafe")
}
