package services_test

import (
	"errors"
	"strings"
	"testing"

	"minutes/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrService, "gmail", "send", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"gmail", "send", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected service marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"configuration", services.Wrap(services.ErrConfiguration, "llm", "init", "missing api key", nil), services.ExitConfiguration},
		{"format", services.Wrap(services.ErrFormat, "roster", "parse", "bad line", nil), services.ExitUsage},
		{"not found", services.Wrap(services.ErrNotFound, "session", "get", "no such session", nil), services.ExitUsage},
		{"service", services.Wrap(services.ErrService, "smtp", "send", "refused", errors.New("io")), services.ExitFailure},
		{"plain", errors.New("other"), services.ExitFailure},
		{"partial delivery", services.Wrap(services.ErrPartialDelivery, "send", "dispatch", "1 of 3 failed", nil), services.ExitPartialSend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
