// Package outbox "sends" notification email by writing each message as an
// .eml file, for dry runs and previews.
package outbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"minutes/internal/mail"
	"minutes/internal/services"
)

// Outbox writes messages into a directory.
type Outbox struct {
	dir  string
	from string
	now  func() time.Time

	mu      sync.Mutex
	written []string
}

// New creates the directory if needed.
func New(dir, from string) (*Outbox, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "outbox", "init", "directory required", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("outbox: create directory: %w", err)
	}
	return &Outbox{dir: dir, from: strings.TrimSpace(from), now: time.Now}, nil
}

// Dir returns the target directory.
func (o *Outbox) Dir() string {
	return o.dir
}

// Written returns the paths written so far, in order.
func (o *Outbox) Written() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.written...)
}

// Send writes one message file.
func (o *Outbox) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := o.now()
	raw, err := mail.Build(mail.Message{From: o.from, To: to, Subject: subject, HTML: html, Date: now})
	if err != nil {
		return services.Wrap(services.ErrValidation, "outbox", "build message", "", err)
	}
	name := fmt.Sprintf("%s-%s-%s.eml", now.UTC().Format("20060102T150405Z"), fileSafe(to), uuid.NewString()[:8])
	path := filepath.Join(o.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return services.Wrap(services.ErrService, "outbox", "write", "", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrService, "outbox", "write", "", err)
	}
	o.mu.Lock()
	o.written = append(o.written, path)
	o.mu.Unlock()
	return nil
}

func fileSafe(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == '@':
			b.WriteString("_at_")
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "recipient"
	}
	return b.String()
}
