// Package langchain adapts langchaingo's OpenAI provider to the llm.Completer
// interface so the pipeline can run against any endpoint langchaingo speaks to.
package langchain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"minutes/internal/services"
	"minutes/internal/services/llm"
)

// Config captures the connection settings for the langchaingo backend.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Completer implements llm.Completer on top of a langchaingo model.
type Completer struct {
	model llms.Model
}

// New constructs a Completer backed by langchaingo's OpenAI client.
func New(cfg Config) (*Completer, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "langchain", "init", "api key required", nil)
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if model := strings.TrimSpace(cfg.Model); model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return &Completer{model: client}, nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(model llms.Model) *Completer {
	return &Completer{model: model}
}

// Complete sends one request. JSON mode is expressed only through the
// prompt; callers decode the response with llm.DecodeLLMJSON.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	user := strings.TrimSpace(req.User)
	if user == "" {
		return "", errors.New("langchain complete: user prompt required")
	}
	messages := make([]llms.MessageContent, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, user))

	options := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", fmt.Errorf("langchain complete: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("langchain complete: empty choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", fmt.Errorf("langchain complete: empty content (stop_reason=%q)", resp.Choices[0].StopReason)
	}
	return content, nil
}

// HealthCheck verifies the backend answers a trivial JSON request.
func (c *Completer) HealthCheck(ctx context.Context) error {
	content, err := c.Complete(ctx, llm.Request{
		System: llm.HealthCheckSystemPrompt,
		User:   llm.HealthCheckUserPrompt,
	})
	if err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	return llm.CheckHealthPayload(content)
}
