// Package extraction asks the completion service for action items and keeps
// only those that survive closed-world validation against the roster.
package extraction

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"minutes/internal/logging"
	"minutes/internal/meeting"
	"minutes/internal/services/llm"
)

// DefaultMaxTokens caps the extraction response when the caller does not.
const DefaultMaxTokens = 1000

const schemaResource = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaDocument []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDocument))
	if err != nil {
		return nil, fmt.Errorf("parse response schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("add response schema: %w", err)
	}
	return compiler.Compile(schemaResource)
})

// Extractor turns a transcript and roster into validated tasks.
type Extractor struct {
	completer llm.Completer
	maxTokens int
	logger    *slog.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an Extractor around a completion backend.
func New(completer llm.Completer, opts ...Option) *Extractor {
	e := &Extractor{
		completer: completer,
		maxTokens: DefaultMaxTokens,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "extraction")
	return e
}

// Extract returns the validated tasks. It never fails: any service or
// parsing problem yields an empty list.
func (e *Extractor) Extract(ctx context.Context, transcript string, participants []meeting.Participant) []meeting.Task {
	tasks, _ := e.ExtractWithReport(ctx, transcript, participants)
	return tasks
}

// ExtractWithReport is Extract plus the per-candidate accounting.
func (e *Extractor) ExtractWithReport(ctx context.Context, transcript string, participants []meeting.Participant) ([]meeting.Task, Report) {
	logger := logging.WithContext(ctx, e.logger)
	text := strings.TrimSpace(transcript)
	if text == "" || len(participants) == 0 {
		logger.Info("extraction skipped",
			logging.Bool("transcript_empty", text == ""),
			logging.Int("participants", len(participants)),
		)
		return []meeting.Task{}, Report{}
	}
	if e.completer == nil {
		return e.degrade(logger, errors.New("completion service not configured"))
	}

	content, err := e.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		User:      buildUserPrompt(text, participants),
		JSON:      true,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return e.degrade(logger, fmt.Errorf("completion: %w", err))
	}

	candidates, err := parseCandidates(content)
	if err != nil {
		return e.degrade(logger, err)
	}

	tasks, report := Validate(candidates, participants)
	logger.Info("tasks extracted",
		logging.Int("candidates", report.Candidates),
		logging.Int("kept", report.Kept),
		logging.Int("dropped", report.Dropped()),
	)
	if report.DroppedUnknownAssignee > 0 {
		logger.Debug("dropped tasks with unknown assignees",
			logging.Int("count", report.DroppedUnknownAssignee),
		)
	}
	return tasks, report
}

func (e *Extractor) degrade(logger *slog.Logger, err error) ([]meeting.Task, Report) {
	logging.WarnWithContext(logger, "task extraction degraded to empty result", "extraction_degraded",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "rerun analyze or check the completion service with `minutes llm check`"),
		logging.String(logging.FieldImpact, "no action items; recipients receive the summary only"),
	)
	return []meeting.Task{}, Report{Degraded: true, Reason: err.Error()}
}

// parseCandidates decodes the response and checks its top-level shape.
func parseCandidates(content string) ([]any, error) {
	var payload any
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("response shape: %w", err)
	}
	object, _ := payload.(map[string]any)
	tasks, _ := object["tasks"].([]any)
	return tasks, nil
}
