package meeting

import (
	"strings"

	"golang.org/x/text/cases"
)

// Sentinel values the extractor and the completion service agree on.
const (
	Unassigned   = "Unassigned"
	NotSpecified = "Not specified"
)

// Participant is one roster entry.
type Participant struct {
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Expertise string `json:"expertise" yaml:"expertise"`
}

// Key returns the canonical identity of the participant.
func (p Participant) Key() string {
	return CanonicalName(p.Name)
}

// Task is a validated action item. Assignee is either Unassigned or the
// roster spelling of a participant name; Email is empty for unassigned tasks.
type Task struct {
	Description string `json:"task"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"`
	Context     string `json:"context"`
	Email       string `json:"email"`
}

// IsUnassigned reports whether the task has no owner.
func (t Task) IsUnassigned() bool {
	return t.Assignee == Unassigned
}

// CanonicalName trims and case-folds a participant name for comparison.
func CanonicalName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ValidEmail is the deliverability check used when grouping recipients.
func ValidEmail(email string) bool {
	return strings.Contains(strings.TrimSpace(email), "@")
}

// Directory indexes a roster by canonical name. The first participant with a
// given name wins; later duplicates are ignored.
type Directory struct {
	byName map[string]Participant
}

// NewDirectory builds a lookup over participants.
func NewDirectory(participants []Participant) Directory {
	byName := make(map[string]Participant, len(participants))
	for _, p := range participants {
		key := p.Key()
		if key == "" {
			continue
		}
		if _, exists := byName[key]; exists {
			continue
		}
		byName[key] = p
	}
	return Directory{byName: byName}
}

// Lookup resolves a name to its participant using canonical comparison.
func (d Directory) Lookup(name string) (Participant, bool) {
	p, ok := d.byName[CanonicalName(name)]
	return p, ok
}

// Len returns the number of distinct names.
func (d Directory) Len() int {
	return len(d.byName)
}
