package testsupport

import (
	"context"
	"sync"

	"minutes/internal/services/llm"
)

// StubCompleter is a deterministic completion backend. Respond decides the
// reply for each request; requests are recorded in order.
type StubCompleter struct {
	Respond func(req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

// Complete records req and returns Respond's answer.
func (s *StubCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Respond == nil {
		return "", nil
	}
	return s.Respond(req)
}

// Requests returns a copy of the recorded requests.
func (s *StubCompleter) Requests() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.requests...)
}

// Calls returns how many requests were made.
func (s *StubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// SentMail is one message captured by RecordingMailer.
type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// RecordingMailer captures sends. Addresses in FailFor return that error.
type RecordingMailer struct {
	FailFor map[string]error

	mu   sync.Mutex
	sent []SentMail
}

// Send records the message unless the recipient is configured to fail.
func (m *RecordingMailer) Send(_ context.Context, to, subject, html string) error {
	if err := m.FailFor[to]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns the captured messages in send order.
func (m *RecordingMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}
