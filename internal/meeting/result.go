package meeting

import "errors"

// ResultKind tags a Result as a success or as a particular kind of failure.
type ResultKind string

const (
	KindOK       ResultKind = "ok"
	KindService  ResultKind = "service_error"
	KindCanceled ResultKind = "canceled"
)

// Result carries either a value or a failure kind with its detail. Stages that
// must degrade gracefully return a Result instead of an error.
type Result[T any] struct {
	Value  T          `json:"value"`
	Kind   ResultKind `json:"kind"`
	Detail string     `json:"detail,omitempty"`
}

// OK wraps a successful value.
func OK[T any](value T) Result[T] {
	return Result[T]{Value: value, Kind: KindOK}
}

// Failed builds a failure result.
func Failed[T any](kind ResultKind, detail string) Result[T] {
	return Result[T]{Kind: kind, Detail: detail}
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.Kind == KindOK
}

// Err returns nil for successful results and an error carrying Detail otherwise.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	if r.Detail == "" {
		return errors.New(string(r.Kind))
	}
	return errors.New(r.Detail)
}

// Summary is the outcome of one summarization run.
type Summary = Result[string]

// SummaryPlaceholder is the summary reported for an empty transcript.
const SummaryPlaceholder = "No transcript provided for summarization."

// SummaryText renders a summary for display and email bodies.
func SummaryText(s Summary) string {
	if s.OK() {
		return s.Value
	}
	return "Error generating meeting summary: " + s.Detail
}
