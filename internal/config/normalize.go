package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	if err := c.normalizeMail(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutboxDir) == "" {
		c.Paths.OutboxDir = defaultOutboxDir
	}
	if c.Paths.OutboxDir, err = expandPath(c.Paths.OutboxDir); err != nil {
		return fmt.Errorf("paths.outbox_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.Provider == ProviderLangchain && (c.LLM.BaseURL == "" || c.LLM.BaseURL == defaultLLMBaseURL) {
		c.LLM.BaseURL = defaultLangchainBaseURL
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.SummaryMaxTokens <= 0 {
		c.LLM.SummaryMaxTokens = defaultSummaryMaxTokens
	}
	if c.LLM.ExtractionMaxTokens <= 0 {
		c.LLM.ExtractionMaxTokens = defaultExtractionMaxTokens
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("MINUTES_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeMail() error {
	c.Mail.Transport = strings.ToLower(strings.TrimSpace(c.Mail.Transport))
	if c.Mail.Transport == "" {
		c.Mail.Transport = defaultMailTransport
	}
	c.Mail.From = strings.TrimSpace(c.Mail.From)
	c.Mail.SenderName = strings.TrimSpace(c.Mail.SenderName)
	if c.Mail.SenderName == "" {
		c.Mail.SenderName = defaultMailSenderName
	}
	c.Mail.SummaryFormat = strings.ToLower(strings.TrimSpace(c.Mail.SummaryFormat))
	switch c.Mail.SummaryFormat {
	case "", "text", "plain":
		c.Mail.SummaryFormat = SummaryFormatText
	case "markdown", "md":
		c.Mail.SummaryFormat = SummaryFormatMarkdown
	}
	if c.Mail.RequestTimeout <= 0 {
		c.Mail.RequestTimeout = defaultMailRequestTimeout
	}

	var err error
	if strings.TrimSpace(c.Mail.GmailTokenFile) == "" {
		c.Mail.GmailTokenFile = defaultGmailTokenFile
	}
	if c.Mail.GmailTokenFile, err = expandPath(c.Mail.GmailTokenFile); err != nil {
		return fmt.Errorf("mail.gmail_token_file: %w", err)
	}
	c.Mail.GmailBaseURL = strings.TrimRight(strings.TrimSpace(c.Mail.GmailBaseURL), "/")
	if c.Mail.GmailBaseURL == "" {
		c.Mail.GmailBaseURL = defaultGmailBaseURL
	}

	c.Mail.SMTPHost = strings.TrimSpace(c.Mail.SMTPHost)
	c.Mail.SMTPUsername = strings.TrimSpace(c.Mail.SMTPUsername)
	if c.Mail.SMTPPort <= 0 {
		c.Mail.SMTPPort = defaultSMTPPort
	}
	if c.Mail.SMTPPassword == "" {
		if value, ok := os.LookupEnv("MINUTES_SMTP_PASSWORD"); ok {
			c.Mail.SMTPPassword = value
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentOverrides) > 0 {
		overrides := make(map[string]string, len(c.Logging.ComponentOverrides))
		for component, level := range c.Logging.ComponentOverrides {
			component = strings.ToLower(strings.TrimSpace(component))
			level = strings.ToLower(strings.TrimSpace(level))
			if component == "" || level == "" {
				continue
			}
			overrides[component] = level
		}
		c.Logging.ComponentOverrides = overrides
	}
}
