// Package completion selects the completion backend named by configuration.
package completion

import (
	"context"
	"fmt"

	"minutes/internal/config"
	"minutes/internal/services"
	"minutes/internal/services/langchain"
	"minutes/internal/services/llm"
)

// New returns the Completer for cfg.Provider. Credentials are checked here so
// commands that never call the service do not need them.
func New(cfg config.LLMConfig) (llm.Completer, error) {
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "completion", "init", "llm.api_key is not set", nil)
	}
	switch cfg.Provider {
	case config.ProviderOpenRouter, "":
		return llm.NewClient(llm.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}), nil
	case config.ProviderLangchain:
		return langchain.New(langchain.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "completion", "init", fmt.Sprintf("unknown provider %q", cfg.Provider), nil)
	}
}

// HealthChecker is implemented by backends that can verify connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Check runs the backend health check when the completer supports one.
func Check(ctx context.Context, completer llm.Completer) error {
	checker, ok := completer.(HealthChecker)
	if !ok {
		return fmt.Errorf("completion backend %T does not support health checks", completer)
	}
	return checker.HealthCheck(ctx)
}
