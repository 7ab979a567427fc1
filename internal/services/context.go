package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	recipientKey contextKey = "recipient"
	requestIDKey contextKey = "request_id"
)

// WithSessionID annotates context with the meeting session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the meeting session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRecipient annotates context with the email address currently being notified.
func WithRecipient(ctx context.Context, email string) context.Context {
	if email == "" {
		return ctx
	}
	return context.WithValue(ctx, recipientKey, email)
}

// RecipientFromContext returns the recipient address if present.
func RecipientFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(recipientKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
