package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"minutes/internal/analysis"
	"minutes/internal/config"
	"minutes/internal/extraction"
	"minutes/internal/logging"
	"minutes/internal/notifications"
	"minutes/internal/services"
	"minutes/internal/services/completion"
	"minutes/internal/services/llm"
	"minutes/internal/session"
	"minutes/internal/summary"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	newLogger    func(*config.Config) (*slog.Logger, error)
	newCompleter func(config.LLMConfig) (llm.Completer, error)
	newMailer    func(context.Context, *config.Config) (notifications.Mailer, error)
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		newLogger:    logging.NewFromConfig,
		newCompleter: completion.New,
		newMailer:    notifications.NewMailer,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = c.newLogger(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*session.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.Open(cfg)
}

// withStore opens the session store for the duration of fn.
func (c *commandContext) withStore(fn func(*session.Store) error) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) analyzer() (*analysis.Analyzer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	completer, err := c.newCompleter(cfg.GetLLM())
	if err != nil {
		return nil, err
	}
	return analysis.New(
		summary.New(completer,
			summary.WithMaxTokens(cfg.LLM.SummaryMaxTokens),
			summary.WithLogger(logger),
		),
		extraction.New(completer,
			extraction.WithMaxTokens(cfg.LLM.ExtractionMaxTokens),
			extraction.WithLogger(logger),
		),
		logger,
	), nil
}

func (c *commandContext) mailer(ctx context.Context) (notifications.Mailer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	mailer, err := c.newMailer(ctx, cfg)
	if errors.Is(err, notifications.ErrMailDisabled) {
		return nil, services.Wrap(services.ErrConfiguration, "send", "mailer", "mail.transport is \"none\"; choose gmail, smtp, or outbox", err)
	}
	return mailer, err
}

func (c *commandContext) renderer() (*notifications.Renderer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return notifications.NewRenderer(cfg.Mail.SummaryFormat, cfg.Mail.SenderName), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
