package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minutes/internal/config"
	"minutes/internal/mail"
	"minutes/internal/services/gmail"
	"minutes/internal/services/outbox"
	"minutes/internal/services/smtpmail"
)

// ErrMailDisabled is returned by NewMailer when mail.transport is "none".
var ErrMailDisabled = errors.New("mail transport disabled")

// Mailer is the external send capability.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, to, subject, html string) error

// Send calls f.
func (f MailerFunc) Send(ctx context.Context, to, subject, html string) error {
	return f(ctx, to, subject, html)
}

// NewMailer builds the transport selected in configuration.
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	if cfg == nil {
		return nil, errors.New("notifications: config required")
	}
	from := mail.FormatAddress(cfg.Mail.SenderName, cfg.Mail.From)
	timeout := time.Duration(cfg.Mail.RequestTimeout) * time.Second
	switch cfg.Mail.Transport {
	case config.TransportNone:
		return nil, ErrMailDisabled
	case config.TransportGmail:
		return gmail.New(ctx, gmail.Config{
			TokenFile: cfg.Mail.GmailTokenFile,
			BaseURL:   cfg.Mail.GmailBaseURL,
			From:      from,
			Timeout:   timeout,
		})
	case config.TransportSMTP:
		return smtpmail.New(smtpmail.Config{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     from,
			Timeout:  timeout,
		})
	case config.TransportOutbox:
		return outbox.New(cfg.Paths.OutboxDir, from)
	default:
		return nil, fmt.Errorf("notifications: unsupported transport %q", cfg.Mail.Transport)
	}
}
