package testsupport

import (
	"context"
	"testing"

	"minutes/internal/config"
	"minutes/internal/meeting"
	"minutes/internal/session"
)

// MustOpenStore opens a session.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSession saves a session holding the given transcript and roster.
func NewSession(t testing.TB, store *session.Store, transcript string, roster []meeting.Participant) *session.Session {
	t.Helper()

	sess := session.New()
	sess.SetTranscript("transcript.txt", transcript)
	sess.SetRoster("roster.csv", roster)
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return sess
}
