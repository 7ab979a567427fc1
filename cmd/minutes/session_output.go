package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"minutes/internal/extraction"
	"minutes/internal/meeting"
	"minutes/internal/session"
	"minutes/internal/textutil"
)

const timeDisplayLayout = "2006-01-02 15:04"

// assigneeGroup holds the tasks of one assignee in extraction order.
type assigneeGroup struct {
	Assignee string
	Tasks    []meeting.Task
}

// groupByAssignee orders groups by first appearance and puts unassigned
// tasks last.
func groupByAssignee(tasks []meeting.Task) []assigneeGroup {
	var groups []assigneeGroup
	index := make(map[string]int)
	var unassigned []meeting.Task
	for _, task := range tasks {
		if task.IsUnassigned() {
			unassigned = append(unassigned, task)
			continue
		}
		i, ok := index[task.Assignee]
		if !ok {
			i = len(groups)
			index[task.Assignee] = i
			groups = append(groups, assigneeGroup{Assignee: task.Assignee})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}
	if len(unassigned) > 0 {
		groups = append(groups, assigneeGroup{Assignee: meeting.Unassigned, Tasks: unassigned})
	}
	return groups
}

func printSessionHeader(w io.Writer, sess *session.Session) {
	colorize := shouldColorize(w)
	for _, line := range renderSectionHeader("Session "+sess.ShortID(), colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "ID:          %s\n", sess.ID)
	fmt.Fprintf(w, "Updated:     %s\n", sess.UpdatedAt.Local().Format(timeDisplayLayout))
	fmt.Fprintf(w, "Transcript:  %s (%d chars)\n", cell(sess.TranscriptName, 60), len([]rune(sess.Transcript)))
	fmt.Fprintf(w, "Roster:      %s (%d participants)\n", cell(sess.RosterName, 60), len(sess.Roster))
	analyzed := "no"
	if sess.Analyzed() {
		analyzed = sess.AnalyzedAt.Local().Format(timeDisplayLayout)
	}
	fmt.Fprintf(w, "Analyzed:    %s\n", analyzed)
}

func printAnalysis(w io.Writer, sess *session.Session) {
	colorize := shouldColorize(w)
	if !sess.Analyzed() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No analysis yet; run `minutes analyze --session "+sess.ShortID()+"`.")
		return
	}

	fmt.Fprintln(w)
	for _, line := range renderSectionHeader("Summary", colorize) {
		fmt.Fprintln(w, line)
	}
	if !sess.Summary.OK() {
		fmt.Fprintln(w, renderStatusLine("Summary", statusError, sess.Summary.Detail, colorize))
	}
	fmt.Fprintln(w, meeting.SummaryText(*sess.Summary))

	fmt.Fprintln(w)
	for _, line := range renderSectionHeader("Action Items", colorize) {
		fmt.Fprintln(w, line)
	}
	groups := groupByAssignee(sess.Tasks)
	if len(groups) == 0 {
		fmt.Fprintln(w, "No action items identified.")
	}
	for _, group := range groups {
		label := group.Assignee
		if email := group.Tasks[0].Email; email != "" {
			label += " <" + email + ">"
		}
		fmt.Fprintf(w, "%s (%d)\n", label, len(group.Tasks))
		rows := make([][]string, 0, len(group.Tasks))
		for _, task := range group.Tasks {
			rows = append(rows, []string{cell(task.Description, 60), cell(task.DueDate, 20), cell(task.Context, 40)})
		}
		fmt.Fprintln(w, renderTable([]string{"Task", "Due", "Context"}, rows, nil))
	}

	if sess.Extraction != nil {
		fmt.Fprintln(w)
		renderChecks(w, "Extraction", extractionChecks(*sess.Extraction))
	}
}

func extractionChecks(report extraction.Report) []statusCheck {
	if report.Degraded {
		return []statusCheck{{
			Label:   "Extraction",
			Kind:    statusWarn,
			Message: "no tasks extracted: " + textutil.Truncate(report.Reason, 120),
		}}
	}
	checks := []statusCheck{{
		Label:   "Candidates",
		Kind:    statusOK,
		Message: fmt.Sprintf("%d proposed, %d kept", report.Candidates, report.Kept),
	}}
	if dropped := report.Dropped(); dropped > 0 {
		parts := make([]string, 0, 3)
		if report.DroppedUnknownAssignee > 0 {
			parts = append(parts, fmt.Sprintf("%d unknown assignee", report.DroppedUnknownAssignee))
		}
		if report.DroppedEmpty > 0 {
			parts = append(parts, fmt.Sprintf("%d empty", report.DroppedEmpty))
		}
		if report.DroppedMalformed > 0 {
			parts = append(parts, fmt.Sprintf("%d malformed", report.DroppedMalformed))
		}
		checks = append(checks, statusCheck{
			Label:   "Dropped",
			Kind:    statusWarn,
			Message: strings.Join(parts, ", "),
		})
	}
	return checks
}

func formatAge(ts time.Time, now time.Time) string {
	age := now.Sub(ts)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return ts.Local().Format("2006-01-02")
	}
}
