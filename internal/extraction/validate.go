package extraction

import (
	"strings"

	"minutes/internal/meeting"
)

// Report counts what happened to each candidate the service proposed.
type Report struct {
	Candidates             int    `json:"candidates"`
	Kept                   int    `json:"kept"`
	DroppedEmpty           int    `json:"dropped_empty"`
	DroppedUnknownAssignee int    `json:"dropped_unknown_assignee"`
	DroppedMalformed       int    `json:"dropped_malformed"`
	Degraded               bool   `json:"degraded"`
	Reason                 string `json:"reason,omitempty"`
}

// Dropped returns the total number of discarded candidates.
func (r Report) Dropped() int {
	return r.DroppedEmpty + r.DroppedUnknownAssignee + r.DroppedMalformed
}

// Validate applies the closed-world rules to raw candidates in order. A
// candidate survives only when it has a description and its assignee is the
// unassigned sentinel or a roster member; survivors carry the roster spelling
// of the assignee and that participant's email.
func Validate(candidates []any, participants []meeting.Participant) ([]meeting.Task, Report) {
	dir := meeting.NewDirectory(participants)
	unassignedKey := meeting.CanonicalName(meeting.Unassigned)
	report := Report{Candidates: len(candidates)}
	tasks := make([]meeting.Task, 0, len(candidates))

	for _, candidate := range candidates {
		fields, ok := candidate.(map[string]any)
		if !ok {
			report.DroppedMalformed++
			continue
		}
		description := stringField(fields, "task")
		if description == "" {
			report.DroppedEmpty++
			continue
		}
		task := meeting.Task{
			Description: description,
			DueDate:     stringField(fields, "due_date"),
			Context:     stringField(fields, "context"),
		}
		if task.DueDate == "" {
			task.DueDate = meeting.NotSpecified
		}

		assignee := stringField(fields, "assignee")
		if meeting.CanonicalName(assignee) == unassignedKey {
			task.Assignee = meeting.Unassigned
		} else if p, found := dir.Lookup(assignee); found {
			task.Assignee = p.Name
			task.Email = strings.TrimSpace(p.Email)
		} else {
			report.DroppedUnknownAssignee++
			continue
		}
		tasks = append(tasks, task)
	}
	report.Kept = len(tasks)
	return tasks, report
}

// stringField returns the trimmed string value of key; other types read as empty.
func stringField(fields map[string]any, key string) string {
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
