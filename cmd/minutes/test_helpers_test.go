package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"minutes/internal/config"
	"minutes/internal/logging"
	"minutes/internal/notifications"
	"minutes/internal/services/llm"
	"minutes/internal/testsupport"
)

const (
	testRosterCSV = "Name,Email,Expertise\n" +
		"Alice,alice@example.com,Engineering\n" +
		"Bob,bob@example.com,Design\n"
	testTranscript = "Alice: I will send the report by Friday.\nBob: Sounds good.\n"
	testSummary    = "The team agreed Alice sends the report."
	testTasksJSON  = `{"tasks":[{"task":"Send the report","assignee":"alice","due_date":"Friday","context":"Alice offered"}]}`
)

// healthCompleter adds a health check to the stub completer.
type healthCompleter struct {
	*testsupport.StubCompleter
	healthErr error
}

func (h healthCompleter) HealthCheck(context.Context) error {
	return h.healthErr
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	dir        string
	completer  llm.Completer
	stub       *testsupport.StubCompleter
	mailer     *testsupport.RecordingMailer
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(base, "minutes.toml")
	writeTestConfig(t, configPath, cfg)

	stub := &testsupport.StubCompleter{Respond: func(req llm.Request) (string, error) {
		if req.JSON {
			return testTasksJSON, nil
		}
		return testSummary, nil
	}}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		dir:        base,
		completer:  stub,
		stub:       stub,
		mailer:     &testsupport.RecordingMailer{},
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeInputs stores the standard transcript and roster and returns their paths.
func (e *cliTestEnv) writeInputs(t *testing.T) (string, string) {
	t.Helper()
	transcriptPath := testsupport.WriteFile(t, e.dir, "standup.txt", []byte(testTranscript))
	rosterPath := testsupport.WriteFile(t, e.dir, "team.csv", []byte(testRosterCSV))
	return transcriptPath, rosterPath
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(func(c *commandContext) {
		c.newLogger = func(*config.Config) (*slog.Logger, error) {
			return logging.NewNop(), nil
		}
		c.newCompleter = func(config.LLMConfig) (llm.Completer, error) {
			return e.completer, nil
		}
		c.newMailer = func(context.Context, *config.Config) (notifications.Mailer, error) {
			return e.mailer, nil
		}
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
