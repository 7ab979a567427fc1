package analysis_test

import (
	"context"
	"errors"
	"testing"

	"minutes/internal/analysis"
	"minutes/internal/extraction"
	"minutes/internal/meeting"
	"minutes/internal/services"
	"minutes/internal/services/llm"
	"minutes/internal/session"
	"minutes/internal/summary"
	"minutes/internal/testsupport"
)

func newAnalyzer(completer llm.Completer) *analysis.Analyzer {
	return analysis.New(summary.New(completer), extraction.New(completer), nil)
}

func TestAnalyzeRunsBothStages(t *testing.T) {
	completer := &testsupport.StubCompleter{Respond: func(req llm.Request) (string, error) {
		if req.JSON {
			return `{"tasks":[{"task":"Send the report","assignee":"Alice","due_date":"Friday","context":"Alice will send it"}]}`, nil
		}
		return "The team agreed on the report.", nil
	}}
	sess := session.New()
	sess.SetRoster("team.csv", []meeting.Participant{{Name: "Alice", Email: "alice@x.com", Expertise: "Eng"}})
	sess.SetTranscript("t.txt", "Alice will send the report by Friday.")

	result, err := newAnalyzer(completer).Analyze(context.Background(), sess)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if completer.Calls() != 2 {
		t.Fatalf("expected two completion calls, got %d", completer.Calls())
	}
	if !result.Summary.OK() || result.Summary.Value != "The team agreed on the report." {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Email != "alice@x.com" {
		t.Fatalf("unexpected tasks %+v", result.Tasks)
	}
	if !sess.Analyzed() || len(sess.Tasks) != 1 || sess.Extraction == nil || sess.Extraction.Kept != 1 {
		t.Fatalf("session not updated: %+v", sess)
	}
}

func TestAnalyzeDegradesOnServiceFailure(t *testing.T) {
	completer := &testsupport.StubCompleter{Respond: func(llm.Request) (string, error) {
		return "", errors.New("http 500")
	}}
	sess := session.New()
	sess.SetRoster("team.csv", []meeting.Participant{{Name: "Alice", Email: "alice@x.com"}})
	sess.SetTranscript("t.txt", "Alice will send the report.")

	result, err := newAnalyzer(completer).Analyze(context.Background(), sess)
	if err != nil {
		t.Fatalf("service failures must not surface: %v", err)
	}
	if result.Summary.OK() || !result.Report.Degraded || len(result.Tasks) != 0 {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	if plan := sess.Plan(); plan.Len() != 1 {
		t.Fatalf("expected roster fallback plan, got %d bundles", plan.Len())
	}
}

func TestAnalyzeRequiresInputs(t *testing.T) {
	completer := &testsupport.StubCompleter{}
	analyzer := newAnalyzer(completer)

	sess := session.New()
	sess.SetRoster("team.csv", []meeting.Participant{{Name: "Alice", Email: "alice@x.com"}})
	if _, err := analyzer.Analyze(context.Background(), sess); !errors.Is(err, analysis.ErrMissingTranscript) {
		t.Fatalf("expected missing transcript, got %v", err)
	}

	sess = session.New()
	sess.SetTranscript("t.txt", "hello")
	_, err := analyzer.Analyze(context.Background(), sess)
	if !errors.Is(err, analysis.ErrMissingRoster) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected missing roster validation error, got %v", err)
	}
	if completer.Calls() != 0 {
		t.Fatalf("no completion calls expected, got %d", completer.Calls())
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := session.New()
	sess.SetRoster("team.csv", []meeting.Participant{{Name: "Alice", Email: "alice@x.com"}})
	sess.SetTranscript("t.txt", "hello")

	if _, err := newAnalyzer(&testsupport.StubCompleter{}).Analyze(ctx, sess); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sess.Analyzed() {
		t.Fatal("canceled analysis must not update the session")
	}
}
