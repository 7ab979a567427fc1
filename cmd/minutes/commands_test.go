package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutes/internal/meeting"
	"minutes/internal/services"
	"minutes/internal/services/llm"
	"minutes/internal/session"
	"minutes/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "[OK] outbox")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := env.run(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestRosterCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	_, rosterPath := env.writeInputs(t)

	out, _, err := env.run(t, "", "roster", rosterPath)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	requireContains(t, out, "alice@example.com")
	requireContains(t, out, "2 participant(s)")

	out, _, err = env.run(t, "", "roster", rosterPath, "--json")
	if err != nil {
		t.Fatalf("roster --json: %v", err)
	}
	var participants []meeting.Participant
	if err := json.Unmarshal([]byte(out), &participants); err != nil {
		t.Fatalf("decode roster json: %v\n%s", err, out)
	}
	if len(participants) != 2 || participants[1].Name != "Bob" {
		t.Fatalf("unexpected participants %+v", participants)
	}

	pdf := filepath.Join(env.dir, "team.pdf")
	_, _, err = env.run(t, "", "roster", pdf)
	if exitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage exit for unsupported roster, got %v", err)
	}
}

func TestRosterCommandReportsLineOfBadEntry(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.dir, "team.txt")
	if err := os.WriteFile(bad, []byte("Alice, alice@example.com, Eng\nBob only\n"), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	_, _, err := env.run(t, "", "roster", bad)
	if err == nil {
		t.Fatal("expected format error")
	}
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected format marker, got %v", err)
	}
	if exitCode(err) != services.ExitUsage {
		t.Fatalf("unexpected exit code %d", exitCode(err))
	}
}

func TestAnalyzeShowPreviewSend(t *testing.T) {
	env := setupCLITestEnv(t)
	transcriptPath, rosterPath := env.writeInputs(t)

	out, stderr, err := env.run(t, "", "analyze", "--transcript", transcriptPath, "--roster", rosterPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, stderr, "Saved session")
	requireContains(t, out, testSummary)
	requireContains(t, out, "Alice <alice@example.com> (1)")
	requireContains(t, out, "Send the report")
	requireContains(t, out, "1 proposed, 1 kept")
	if env.stub.Calls() != 2 {
		t.Fatalf("expected two completion calls, got %d", env.stub.Calls())
	}

	out, _, err = env.run(t, "", "show", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(out), &sess); err != nil {
		t.Fatalf("decode session: %v\n%s", err, out)
	}
	if len(sess.Tasks) != 1 || sess.Tasks[0].Assignee != "Alice" || sess.Tasks[0].Email != "alice@example.com" {
		t.Fatalf("unexpected stored tasks %+v", sess.Tasks)
	}

	out, _, err = env.run(t, "", "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, out, sess.ShortID())
	requireContains(t, out, "standup.txt")

	previewDir := filepath.Join(env.dir, "preview")
	out, _, err = env.run(t, "", "preview", sess.ShortID(), "--out", previewDir)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	requireContains(t, out, "Wrote 1 preview(s)")
	html, err := os.ReadFile(filepath.Join(previewDir, "01-alice_example_com.html"))
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	requireContains(t, string(html), "Send the report")

	out, _, err = env.run(t, "", "send", "--yes")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	requireContains(t, out, "1 of 1")
	requireContains(t, out, "Sent 1 of 1 email(s)")
	sent := env.mailer.Sent()
	if len(sent) != 1 || sent[0].To != "alice@example.com" || sent[0].Subject != "Meeting Action Items" {
		t.Fatalf("unexpected sends %+v", sent)
	}
	requireContains(t, sent[0].HTML, testSummary)
}

func TestSendPartialFailureExitsWithPartialStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	env.stub.Respond = func(req llm.Request) (string, error) {
		if req.JSON {
			return `{"tasks":[]}`, nil
		}
		return testSummary, nil
	}
	env.mailer.FailFor = map[string]error{"bob@example.com": errors.New("mailbox unavailable")}
	transcriptPath, rosterPath := env.writeInputs(t)

	if _, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	out, _, err := env.run(t, "", "send", "--yes")
	if err == nil {
		t.Fatal("expected partial failure error")
	}
	if got := exitCode(err); got != services.ExitPartialSend {
		t.Fatalf("exit code = %d, want %d", got, services.ExitPartialSend)
	}
	requireContains(t, out, "Meeting Summary")
	requireContains(t, out, "mailbox unavailable")
	requireContains(t, out, "Sent 1 of 2 email(s), 1 failed")

	sent := env.mailer.Sent()
	if len(sent) != 1 || sent[0].To != "alice@example.com" || sent[0].Subject != "Meeting Summary" {
		t.Fatalf("unexpected sends %+v", sent)
	}
}

func TestSendRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	transcriptPath, rosterPath := env.writeInputs(t)
	if _, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	out, _, err := env.run(t, "n\n", "send")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	requireContains(t, out, "Send 1 email(s)?")
	requireContains(t, out, "Aborted")
	if len(env.mailer.Sent()) != 0 {
		t.Fatalf("expected no sends, got %+v", env.mailer.Sent())
	}
}

func TestSendWithNothingToDeliver(t *testing.T) {
	env := setupCLITestEnv(t)
	env.stub.Respond = func(req llm.Request) (string, error) {
		if req.JSON {
			return `{"tasks":[{"task":"Pick a venue","assignee":"Unassigned"}]}`, nil
		}
		return testSummary, nil
	}
	transcriptPath, rosterPath := env.writeInputs(t)
	if _, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	out, _, err := env.run(t, "", "send", "--yes")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	requireContains(t, out, "Nothing to send")
	if len(env.mailer.Sent()) != 0 {
		t.Fatalf("expected no sends, got %+v", env.mailer.Sent())
	}
}

func TestAnalyzeDegradedExtractionStillSaves(t *testing.T) {
	env := setupCLITestEnv(t)
	env.stub.Respond = func(req llm.Request) (string, error) {
		if req.JSON {
			return "I could not find any tasks, sorry.", nil
		}
		return "", errors.New("http 503")
	}
	transcriptPath, rosterPath := env.writeInputs(t)

	out, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Error generating meeting summary: http 503")
	requireContains(t, out, "No action items identified.")
	requireContains(t, out, "no tasks extracted")
}

func TestAnalyzeValidatesInputs(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "analyze")
	if exitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage exit without inputs, got %v", err)
	}

	_, rosterPath := env.writeInputs(t)
	pdf := filepath.Join(env.dir, "meeting.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	_, _, err = env.run(t, "", "analyze", "-t", pdf, "-r", rosterPath)
	if exitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage exit for pdf transcript, got %v", err)
	}
	if env.stub.Calls() != 0 {
		t.Fatalf("expected no completion calls, got %d", env.stub.Calls())
	}
}

func TestReanalyzeReplacesRosterAndKeepsTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	transcriptPath, rosterPath := env.writeInputs(t)
	if _, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	onlyBob := testsupport.WriteFile(t, env.dir, "bob.csv", []byte("Name,Email,Expertise\nBob,bob@example.com,Design\n"))

	listOut, _, err := env.run(t, "", "sessions", "list", "--json")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	var sessions []session.Session
	if err := json.Unmarshal([]byte(listOut), &sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	id := sessions[0].ID

	out, _, err := env.run(t, "", "analyze", "--session", id[:6], "--roster", onlyBob, "--json")
	if err != nil {
		t.Fatalf("re-analyze: %v", err)
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(out), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.ID != id || sess.TranscriptName != "standup.txt" || sess.RosterName != "bob.csv" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if len(sess.Tasks) != 0 || sess.Extraction == nil || sess.Extraction.DroppedUnknownAssignee != 1 {
		t.Fatalf("expected alice's task to be dropped against the new roster, got %+v / %+v", sess.Tasks, sess.Extraction)
	}
}

func TestSessionsRemoveAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	transcriptPath, rosterPath := env.writeInputs(t)
	for i := 0; i < 2; i++ {
		if _, _, err := env.run(t, "", "analyze", "-t", transcriptPath, "-r", rosterPath); err != nil {
			t.Fatalf("analyze: %v", err)
		}
	}

	out, _, err := env.run(t, "", "show", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var latest session.Session
	if err := json.Unmarshal([]byte(out), &latest); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	out, _, err = env.run(t, "", "sessions", "remove", latest.ID)
	if err != nil {
		t.Fatalf("sessions remove: %v", err)
	}
	requireContains(t, out, "Removed session "+latest.ShortID())

	_, _, err = env.run(t, "", "show", latest.ID)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}

	out, _, err = env.run(t, "", "sessions", "clear")
	if err != nil {
		t.Fatalf("sessions clear: %v", err)
	}
	requireContains(t, out, "Removed 1 session(s)")

	out, _, err = env.run(t, "", "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, out, "No sessions recorded")

	_, _, err = env.run(t, "", "show")
	if exitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage exit with no sessions, got %v", err)
	}
}

func TestLLMCheck(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "llm", "check")
	if err == nil || !strings.Contains(err.Error(), "does not support health checks") {
		t.Fatalf("expected unsupported health check error, got %v", err)
	}

	env.completer = healthCompleter{StubCompleter: env.stub}
	out, _, err := env.run(t, "", "llm", "check")
	if err != nil {
		t.Fatalf("llm check: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "responded in")

	env.completer = healthCompleter{StubCompleter: env.stub, healthErr: errors.New("http 401")}
	out, _, err = env.run(t, "", "llm", "check")
	if err == nil {
		t.Fatal("expected health failure")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "http 401")
}
