// Package summary produces the free-form meeting summary shared with every
// recipient.
package summary

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"minutes/internal/logging"
	"minutes/internal/meeting"
	"minutes/internal/services/llm"
)

const (
	systemPrompt = "You are a professional assistant that creates concise yet comprehensive summaries of meeting transcripts."
	userPrompt   = "Please provide a summarized version of this meeting transcript that captures the key points, decisions, and overall purpose:\n\n"

	// DefaultMaxTokens caps the summary length when the caller does not.
	DefaultMaxTokens = 500
)

// Summarizer turns a transcript into a Summary result.
type Summarizer struct {
	completer llm.Completer
	maxTokens int
	logger    *slog.Logger
}

// Option customizes a Summarizer.
type Option func(*Summarizer)

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Summarizer around a completion backend.
func New(completer llm.Completer, opts ...Option) *Summarizer {
	s := &Summarizer{
		completer: completer,
		maxTokens: DefaultMaxTokens,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "summary")
	return s
}

// Summarize never returns an error: an empty transcript yields the
// placeholder without calling the service, and any service failure is
// reported through the result kind.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) meeting.Summary {
	logger := logging.WithContext(ctx, s.logger)
	text := strings.TrimSpace(transcript)
	if text == "" {
		logger.Info("transcript empty; using placeholder summary")
		return meeting.OK(meeting.SummaryPlaceholder)
	}
	if s.completer == nil {
		return meeting.Failed[string](meeting.KindService, "completion service not configured")
	}

	started := time.Now()
	content, err := s.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		User:      userPrompt + text,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		kind := meeting.KindService
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = meeting.KindCanceled
		}
		logging.WarnWithContext(logger, "summary generation failed", "summary_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key and llm.model, then run `minutes llm check`"),
			logging.String(logging.FieldImpact, "recipients receive the failure notice instead of a summary"),
		)
		return meeting.Failed[string](kind, err.Error())
	}
	logger.Info("summary generated",
		logging.Int("transcript_chars", len(text)),
		logging.Int("summary_chars", len(content)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return meeting.OK(content)
}
