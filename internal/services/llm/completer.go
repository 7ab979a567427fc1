package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single completion request. System may be empty. JSON asks the
// service for a JSON object; callers still decode with DecodeLLMJSON.
type Request struct {
	System      string
	User        string
	JSON        bool
	MaxTokens   int
	Temperature float64
}

// Completer is the opaque text-completion capability the summarizer and the
// task extractor depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Prompts shared by every backend's health check.
const (
	HealthCheckSystemPrompt = "You must respond with JSON only."
	HealthCheckUserPrompt   = `Respond with {"ok":true}`
)

// CheckHealthPayload validates a health-check response.
func CheckHealthPayload(content string) error {
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}
