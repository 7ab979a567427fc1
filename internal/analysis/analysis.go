// Package analysis runs summarization and task extraction for a session.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"minutes/internal/extraction"
	"minutes/internal/logging"
	"minutes/internal/meeting"
	"minutes/internal/services"
	"minutes/internal/session"
)

var (
	// ErrMissingTranscript is returned when the session has no transcript text.
	ErrMissingTranscript = services.Wrap(services.ErrValidation, "analysis", "", "transcript is required", nil)
	// ErrMissingRoster is returned when the session has no participants.
	ErrMissingRoster = services.Wrap(services.ErrValidation, "analysis", "", "roster is required", nil)
)

// Summarizer produces the meeting summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) meeting.Summary
}

// Extractor produces validated tasks plus accounting.
type Extractor interface {
	ExtractWithReport(ctx context.Context, transcript string, participants []meeting.Participant) ([]meeting.Task, extraction.Report)
}

// Result is what one analysis run produced.
type Result struct {
	Summary  meeting.Summary
	Tasks    []meeting.Task
	Report   extraction.Report
	Duration time.Duration
}

// Analyzer wires the two completion-backed stages together.
type Analyzer struct {
	summarizer Summarizer
	extractor  Extractor
	logger     *slog.Logger
}

// New constructs an Analyzer.
func New(summarizer Summarizer, extractor Extractor, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		summarizer: summarizer,
		extractor:  extractor,
		logger:     logging.NewComponentLogger(logger, "analysis"),
	}
}

// Analyze runs both stages concurrently and stores the results on sess.
// Service failures degrade inside the result; only missing inputs and
// cancellation are returned as errors.
func (a *Analyzer) Analyze(ctx context.Context, sess *session.Session) (Result, error) {
	if sess == nil || strings.TrimSpace(sess.Transcript) == "" {
		return Result{}, ErrMissingTranscript
	}
	if len(sess.Roster) == 0 {
		return Result{}, ErrMissingRoster
	}
	ctx = services.WithSessionID(ctx, sess.ID)
	logger := logging.WithContext(ctx, a.logger)
	started := time.Now()

	var result Result
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.Summary = a.summarizer.Summarize(groupCtx, sess.Transcript)
		return nil
	})
	group.Go(func() error {
		result.Tasks, result.Report = a.extractor.ExtractWithReport(groupCtx, sess.Transcript, sess.Roster)
		return nil
	})
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		logging.WarnWithContext(logger, "analysis interrupted", "analysis_canceled",
			logging.Error(err),
			logging.String(logging.FieldImpact, "session keeps its previous analysis"),
		)
		return Result{}, err
	}

	result.Duration = time.Since(started)
	sess.SetAnalysis(result.Summary, result.Tasks, result.Report)
	logger.Info("analysis complete",
		logging.Bool("summary_ok", result.Summary.OK()),
		logging.Int("tasks", len(result.Tasks)),
		logging.Bool("extraction_degraded", result.Report.Degraded),
		logging.Duration("elapsed", result.Duration),
	)
	return result, nil
}
