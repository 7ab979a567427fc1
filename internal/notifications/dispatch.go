package notifications

import (
	"context"
	"log/slog"
	"time"

	"minutes/internal/delivery"
	"minutes/internal/logging"
	"minutes/internal/meeting"
	"minutes/internal/services"
)

// DetailCanceled marks bundles skipped because the context ended.
const DetailCanceled = "canceled"

// Outcome is the result of one send attempt.
type Outcome struct {
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Succeeded bool   `json:"succeeded"`
	Detail    string `json:"detail,omitempty"`
}

// Report aggregates outcomes. Succeeded+Failed always equals the plan size.
type Report struct {
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Total returns the number of bundles accounted for.
func (r Report) Total() int {
	return r.Succeeded + r.Failed
}

// Progress is reported after every bundle.
type Progress struct {
	Index     int
	Total     int
	Email     string
	Succeeded bool
	Detail    string
}

// Options tune DispatchAll.
type Options struct {
	Renderer *Renderer
	Progress func(Progress)
	Logger   *slog.Logger
}

// DispatchAll sends one message per bundle in plan order. Render or send
// failures are recorded and the loop continues. Once ctx is done the
// remaining bundles are recorded as failed with DetailCanceled.
func DispatchAll(ctx context.Context, plan *delivery.Plan, summary meeting.Summary, mailer Mailer, opts Options) Report {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewRenderer("", "")
	}
	logger := logging.NewComponentLogger(opts.Logger, "notifications")
	logger = logging.WithContext(ctx, logger)
	sampler := logging.NewProgressSampler(25)

	bundles := plan.Bundles()
	report := Report{Outcomes: make([]Outcome, 0, len(bundles))}
	started := time.Now()

	for i, bundle := range bundles {
		outcome := Outcome{Email: bundle.Email, Subject: Subject(bundle.Kind)}
		switch {
		case ctx.Err() != nil:
			outcome.Detail = DetailCanceled
		case mailer == nil:
			outcome.Detail = ErrMailDisabled.Error()
		default:
			outcome = sendOne(ctx, logger, renderer, mailer, bundle, summary)
		}

		if outcome.Succeeded {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if opts.Progress != nil {
			opts.Progress(Progress{
				Index:     i + 1,
				Total:     len(bundles),
				Email:     outcome.Email,
				Succeeded: outcome.Succeeded,
				Detail:    outcome.Detail,
			})
		}
		if sampler.ShouldLogStep(i+1, len(bundles), "dispatch") {
			logger.Info("dispatch progress",
				logging.Int("done", i+1),
				logging.Int("total", len(bundles)),
				logging.Int("failed", report.Failed),
			)
		}
	}

	attrs := []logging.Attr{
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Duration("elapsed", time.Since(started)),
	}
	if report.Failed > 0 {
		logging.WarnWithContext(logger, "dispatch finished with failures", "dispatch_partial",
			append(attrs,
				logging.String(logging.FieldErrorHint, "check transport credentials, then rerun send for the session"),
				logging.String(logging.FieldImpact, "some recipients did not receive the meeting email"),
			)...,
		)
	} else {
		logger.Info("dispatch finished", logging.Args(attrs...)...)
	}
	return report
}

func sendOne(ctx context.Context, logger *slog.Logger, renderer *Renderer, mailer Mailer, bundle delivery.Bundle, summary meeting.Summary) Outcome {
	outcome := Outcome{Email: bundle.Email, Subject: Subject(bundle.Kind)}
	email, err := renderer.Render(bundle, summary)
	if err != nil {
		outcome.Detail = err.Error()
		logging.WarnWithContext(logger, "email render failed", "render_failed",
			logging.String(logging.FieldRecipient, bundle.Email),
			logging.Error(err),
		)
		return outcome
	}
	sendCtx := services.WithRecipient(ctx, bundle.Email)
	if err := mailer.Send(sendCtx, email.To, email.Subject, email.HTML); err != nil {
		outcome.Detail = err.Error()
		logging.WarnWithContext(logger, "email send failed", "send_failed",
			logging.String(logging.FieldRecipient, bundle.Email),
			logging.Error(err),
			logging.String(logging.FieldImpact, "recipient will not receive this meeting email"),
		)
		return outcome
	}
	outcome.Succeeded = true
	logger.Debug("email sent",
		logging.String(logging.FieldRecipient, bundle.Email),
		logging.String("subject", email.Subject),
		logging.Int("tasks", len(bundle.Tasks)),
	)
	return outcome
}
