package testsupport

import (
	"path/filepath"
	"testing"

	"minutes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutboxDir = filepath.Join(base, "outbox")
	cfgVal.LLM.APIKey = "test"
	cfgVal.Mail.Transport = config.TransportOutbox
	cfgVal.Mail.From = "minutes@example.com"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLM points the completion settings at a test endpoint.
func WithLLM(provider, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.Provider = provider
		b.cfg.LLM.BaseURL = baseURL
	}
}

// WithTransport selects the mail transport.
func WithTransport(transport string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mail.Transport = transport
	}
}

// WithSummaryFormat selects text or markdown summary rendering.
func WithSummaryFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mail.SummaryFormat = format
	}
}
