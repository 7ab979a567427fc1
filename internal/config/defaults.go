package config

// Completion providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderLangchain  = "langchain"
)

// Mail transports.
const (
	TransportNone   = "none"
	TransportGmail  = "gmail"
	TransportSMTP   = "smtp"
	TransportOutbox = "outbox"
)

// Summary rendering formats for notification email.
const (
	SummaryFormatText     = "text"
	SummaryFormatMarkdown = "markdown"
)

const (
	defaultStateDir            = "~/.local/share/minutes"
	defaultLogDir              = "~/.local/share/minutes/logs"
	defaultOutboxDir           = "~/.local/share/minutes/outbox"
	defaultLLMProvider         = ProviderOpenRouter
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLangchainBaseURL    = "https://api.openai.com/v1"
	defaultLLMModel            = "openai/gpt-4o-mini"
	defaultLLMReferer          = "https://github.com/minutes-dev/minutes"
	defaultLLMTitle            = "Meeting Minutes Analyzer"
	defaultLLMTimeoutSeconds   = 60
	defaultSummaryMaxTokens    = 500
	defaultExtractionMaxTokens = 1000
	defaultMailTransport       = TransportOutbox
	defaultMailSenderName      = "Meeting Coordinator"
	defaultMailSummaryFormat   = SummaryFormatText
	defaultMailRequestTimeout  = 30
	defaultGmailTokenFile      = "~/.config/minutes/gmail_token.json"
	defaultGmailBaseURL        = "https://gmail.googleapis.com"
	defaultSMTPPort            = 587
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			OutboxDir: defaultOutboxDir,
		},
		LLM: LLM{
			Provider:            defaultLLMProvider,
			BaseURL:             defaultLLMBaseURL,
			Model:               defaultLLMModel,
			Referer:             defaultLLMReferer,
			Title:               defaultLLMTitle,
			TimeoutSeconds:      defaultLLMTimeoutSeconds,
			SummaryMaxTokens:    defaultSummaryMaxTokens,
			ExtractionMaxTokens: defaultExtractionMaxTokens,
		},
		Mail: Mail{
			Transport:      defaultMailTransport,
			SenderName:     defaultMailSenderName,
			SummaryFormat:  defaultMailSummaryFormat,
			RequestTimeout: defaultMailRequestTimeout,
			GmailTokenFile: defaultGmailTokenFile,
			GmailBaseURL:   defaultGmailBaseURL,
			SMTPPort:       defaultSMTPPort,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
