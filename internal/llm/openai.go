package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// responsesService is the part of the OpenAI client used here.
type responsesService interface {
	New(ctx context.Context, body responses.ResponseNewParams, opts ...option.RequestOption) (*responses.Response, error)
}

// OpenAIConfig configures an OpenAI-compatible Responses API backend.
// With Project set the model is addressed as gpt://{project}/{model},
// the form Yandex AI Studio expects.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Project    string
	Model      string
	MaxRetries int
}

type openaiGenerator struct {
	responses responsesService
	log       *slog.Logger
	model     string
}

// NewOpenAIGenerator creates a Generator backed by the Responses API.
func NewOpenAIGenerator(cfg OpenAIConfig, log *slog.Logger) (Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Project != "" {
		opts = append(opts, option.WithHeader("OpenAI-Project", cfg.Project))
	}

	client := openai.NewClient(opts...)
	g := newOpenAIGenerator(&client.Responses, cfg, log)
	g.log.Info("OpenAI client initialized successfully", "model", g.model, "base_url", cfg.BaseURL)
	return g, nil
}

func newOpenAIGenerator(svc responsesService, cfg OpenAIConfig, log *slog.Logger) *openaiGenerator {
	return &openaiGenerator{
		responses: svc,
		log:       log.With("component", "openai_client"),
		model:     ModelURI(cfg.Project, cfg.Model),
	}
}

// ModelURI returns gpt://{project}/{model}, or model alone when project is empty.
func ModelURI(project, model string) string {
	if project == "" {
		return model
	}
	return fmt.Sprintf("gpt://%s/%s", project, model)
}

// Generate sends one Responses API request with a plain string input.
func (g *openaiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model:       shared.ResponsesModel(g.model),
		Input:       responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Input)},
		Temperature: openai.Float(float64(req.Temperature)),
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	resp, err := g.responses.New(ctx, params)
	if err != nil {
		g.log.ErrorContext(ctx, "OpenAI API call failed", "model", g.model, "error", err)
		return "", fmt.Errorf("openai API call failed: %w", err)
	}

	text := strings.TrimSpace(outputText(resp))
	if text == "" {
		status := ""
		if resp != nil {
			status = string(resp.Status)
		}
		g.log.WarnContext(ctx, "OpenAI response has no output text", "model", g.model, "status", status)
		return "", ErrEmptyResponse
	}
	return text, nil
}

// outputText concatenates the output_text parts of every message item.
func outputText(resp *responses.Response) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}
