package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"minutes/internal/config"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MINUTES_LLM_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY", "MINUTES_SMTP_PASSWORD"} {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearLLMEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "minutes")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.SessionDBPath() != filepath.Join(wantState, "sessions.db") {
		t.Fatalf("unexpected session db path: %q", cfg.SessionDBPath())
	}
	if cfg.LLM.Provider != config.ProviderOpenRouter {
		t.Fatalf("unexpected provider: %q", cfg.LLM.Provider)
	}
	if cfg.LLM.SummaryMaxTokens != 500 || cfg.LLM.ExtractionMaxTokens != 1000 {
		t.Fatalf("unexpected token limits: %d/%d", cfg.LLM.SummaryMaxTokens, cfg.LLM.ExtractionMaxTokens)
	}
	if cfg.Mail.Transport != config.TransportOutbox {
		t.Fatalf("unexpected transport: %q", cfg.Mail.Transport)
	}
	if cfg.Mail.SummaryFormat != config.SummaryFormatText {
		t.Fatalf("unexpected summary format: %q", cfg.Mail.SummaryFormat)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.LLM.APIKey)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.OutboxDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearLLMEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "minutes.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		LLM struct {
			Provider string `toml:"provider"`
			APIKey   string `toml:"api_key"`
			Model    string `toml:"model"`
		} `toml:"llm"`
		Mail struct {
			Transport     string `toml:"transport"`
			SMTPHost      string `toml:"smtp_host"`
			From          string `toml:"from"`
			SummaryFormat string `toml:"summary_format"`
		} `toml:"mail"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.LLM.Provider = " LangChain "
	custom.LLM.APIKey = "abc123"
	custom.LLM.Model = "gpt-4o"
	custom.Mail.Transport = "SMTP"
	custom.Mail.SMTPHost = "smtp.example.com"
	custom.Mail.From = "bot@example.com"
	custom.Mail.SummaryFormat = "md"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.LLM.Provider != config.ProviderLangchain {
		t.Fatalf("expected langchain provider, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("expected langchain default base url, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey != "abc123" {
		t.Fatalf("expected api key from file, got %q", cfg.LLM.APIKey)
	}
	if cfg.Mail.Transport != config.TransportSMTP {
		t.Fatalf("expected smtp transport, got %q", cfg.Mail.Transport)
	}
	if cfg.Mail.SMTPPort != 587 {
		t.Fatalf("expected default smtp port, got %d", cfg.Mail.SMTPPort)
	}
	if cfg.Mail.SummaryFormat != config.SummaryFormatMarkdown {
		t.Fatalf("expected markdown summary format, got %q", cfg.Mail.SummaryFormat)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
}

func TestEnvFallbacksFillMissingCredentials(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", " env-openrouter ")
	t.Setenv("MINUTES_SMTP_PASSWORD", "env-secret")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-openrouter" {
		t.Errorf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Mail.SMTPPassword != "env-secret" {
		t.Errorf("expected SMTP password from env, got %q", cfg.Mail.SMTPPassword)
	}

	t.Setenv("MINUTES_LLM_API_KEY", "env-minutes")
	cfg, _, _, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-minutes" {
		t.Errorf("expected MINUTES_LLM_API_KEY to take precedence, got %q", cfg.LLM.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_llm_api_key_here") {
		t.Fatalf("sample config missing placeholder key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Mail.Transport != config.TransportOutbox {
		t.Fatalf("expected sample transport outbox, got %q", cfg.Mail.Transport)
	}
	if !strings.Contains(cfg.Paths.StateDir, "minutes") {
		t.Fatalf("expected state dir to contain minutes, got %q", cfg.Paths.StateDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = config.Default()
	cfg.LLM.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = config.Default()
	cfg.Mail.Transport = config.TransportSMTP
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when smtp host missing")
	}

	cfg = config.Default()
	cfg.Mail.Transport = config.TransportSMTP
	cfg.Mail.SMTPHost = "smtp.example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when smtp sender missing")
	}

	cfg = config.Default()
	cfg.Mail.Transport = "pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown transport")
	}

	cfg = config.Default()
	cfg.Mail.SummaryFormat = "rtf"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown summary format")
	}

	cfg = config.Default()
	cfg.Logging.ComponentOverrides = map[string]string{"extraction": "loud"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown override level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
