// Package llm generates the bot's free-text replies through a pluggable
// text generation backend.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("llm returned empty response")

// Request is a single instruction-plus-input generation call.
type Request struct {
	Instructions    string
	Input           string
	Temperature     float32
	MaxOutputTokens int
}

// Generator produces text for a Request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
