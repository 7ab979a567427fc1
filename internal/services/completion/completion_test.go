package completion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"minutes/internal/config"
	"minutes/internal/services"
	"minutes/internal/services/langchain"
	"minutes/internal/services/llm"
)

func TestNewSelectsProvider(t *testing.T) {
	completer, err := New(config.LLMConfig{Provider: config.ProviderOpenRouter, APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("New openrouter: %v", err)
	}
	if _, ok := completer.(*llm.Client); !ok {
		t.Fatalf("expected *llm.Client, got %T", completer)
	}

	completer, err = New(config.LLMConfig{Provider: config.ProviderLangchain, APIKey: "k", Model: "gpt-4o-mini", BaseURL: "http://127.0.0.1:1/v1"})
	if err != nil {
		t.Fatalf("New langchain: %v", err)
	}
	if _, ok := completer.(*langchain.Completer); !ok {
		t.Fatalf("expected *langchain.Completer, got %T", completer)
	}
}

func TestNewRejectsMissingKeyAndUnknownProvider(t *testing.T) {
	if _, err := New(config.LLMConfig{Provider: config.ProviderOpenRouter}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing key, got %v", err)
	}
	if _, err := New(config.LLMConfig{Provider: "pigeon", APIKey: "k"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown provider, got %v", err)
	}
}

func TestCheckRunsHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer server.Close()

	completer, err := New(config.LLMConfig{Provider: config.ProviderOpenRouter, APIKey: "k", Model: "m", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Check(context.Background(), completer); err != nil {
		t.Fatalf("Check: %v", err)
	}

	plain := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) { return "", nil })
	if err := Check(context.Background(), plain); err == nil {
		t.Fatal("expected error for completer without health check")
	}
}
