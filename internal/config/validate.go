package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are not required
// here: commands that talk to the completion service or a mail transport
// check for them when they build the client.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateMail(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderLangchain:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenRouter, ProviderLangchain, c.LLM.Provider)
	}
	return ensurePositiveMap(map[string]int{
		"llm.timeout_seconds":       c.LLM.TimeoutSeconds,
		"llm.summary_max_tokens":    c.LLM.SummaryMaxTokens,
		"llm.extraction_max_tokens": c.LLM.ExtractionMaxTokens,
	})
}

func (c *Config) validateMail() error {
	switch c.Mail.Transport {
	case TransportNone, TransportOutbox:
	case TransportGmail:
		if strings.TrimSpace(c.Mail.GmailTokenFile) == "" {
			return errors.New("mail.gmail_token_file must be set when mail.transport is gmail")
		}
	case TransportSMTP:
		if c.Mail.SMTPHost == "" {
			return errors.New("mail.smtp_host must be set when mail.transport is smtp")
		}
		if c.Mail.From == "" {
			return errors.New("mail.from must be set when mail.transport is smtp")
		}
		if c.Mail.SMTPPort > 65535 {
			return fmt.Errorf("mail.smtp_port out of range: %d", c.Mail.SMTPPort)
		}
	default:
		return fmt.Errorf("mail.transport: unsupported value %q (use gmail, smtp, outbox, or none)", c.Mail.Transport)
	}
	switch c.Mail.SummaryFormat {
	case SummaryFormatText, SummaryFormatMarkdown:
	default:
		return fmt.Errorf("mail.summary_format: unsupported value %q (use text or markdown)", c.Mail.SummaryFormat)
	}
	if c.Mail.RequestTimeout <= 0 {
		return errors.New("mail.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	for component, level := range c.Logging.ComponentOverrides {
		switch level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("logging.component_overrides.%s: unsupported level %q", component, level)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
