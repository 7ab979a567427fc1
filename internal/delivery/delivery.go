// Package delivery partitions validated tasks, or the roster when there are
// none, into one bundle per recipient email.
package delivery

import (
	"strings"

	"minutes/internal/meeting"
)

// Kind distinguishes task bundles from summary-only bundles.
type Kind string

const (
	KindTask        Kind = "task"
	KindSummaryOnly Kind = "summary-only"
)

// Bundle is the content destined for one recipient.
type Bundle struct {
	Email         string         `json:"email"`
	RecipientName string         `json:"recipient_name"`
	Tasks         []meeting.Task `json:"tasks"`
	Kind          Kind           `json:"kind"`
}

// Plan is an insertion-ordered set of bundles keyed by email.
type Plan struct {
	order   []string
	bundles map[string]*Bundle
}

func newPlan() *Plan {
	return &Plan{bundles: make(map[string]*Bundle)}
}

// Len returns the number of bundles.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Empty reports whether there is nothing to send.
func (p *Plan) Empty() bool {
	return p.Len() == 0
}

// Bundles returns the bundles in insertion order.
func (p *Plan) Bundles() []Bundle {
	if p == nil {
		return nil
	}
	out := make([]Bundle, 0, len(p.order))
	for _, email := range p.order {
		b := p.bundles[email]
		out = append(out, Bundle{
			Email:         b.Email,
			RecipientName: b.RecipientName,
			Tasks:         cloneTasks(b.Tasks),
			Kind:          b.Kind,
		})
	}
	return out
}

// Get returns the bundle for an email.
func (p *Plan) Get(email string) (Bundle, bool) {
	if p == nil {
		return Bundle{}, false
	}
	b, ok := p.bundles[strings.TrimSpace(email)]
	if !ok {
		return Bundle{}, false
	}
	out := *b
	out.Tasks = cloneTasks(b.Tasks)
	return out, true
}

// Emails returns recipient addresses in insertion order.
func (p *Plan) Emails() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.order...)
}

// Group builds the delivery plan. With tasks, each task with a deliverable
// email lands in that email's bundle and the recipient name comes from the
// first task seen. Without tasks, every roster participant with a valid
// email gets a summary-only bundle. Tasks with no deliverable email never
// cause a roster fallback.
func Group(tasks []meeting.Task, participants []meeting.Participant) *Plan {
	plan := newPlan()
	if len(tasks) > 0 {
		for _, task := range tasks {
			email := strings.TrimSpace(task.Email)
			if !meeting.ValidEmail(email) {
				continue
			}
			b, ok := plan.bundles[email]
			if !ok {
				b = &Bundle{Email: email, RecipientName: task.Assignee, Kind: KindTask}
				plan.add(b)
			}
			b.Tasks = append(b.Tasks, task)
		}
		return plan
	}
	for _, p := range participants {
		email := strings.TrimSpace(p.Email)
		if !meeting.ValidEmail(email) {
			continue
		}
		if _, ok := plan.bundles[email]; ok {
			continue
		}
		plan.add(&Bundle{Email: email, RecipientName: p.Name, Tasks: []meeting.Task{}, Kind: KindSummaryOnly})
	}
	return plan
}

func (p *Plan) add(b *Bundle) {
	p.order = append(p.order, b.Email)
	p.bundles[b.Email] = b
}

func cloneTasks(tasks []meeting.Task) []meeting.Task {
	out := make([]meeting.Task, len(tasks))
	copy(out, tasks)
	return out
}
