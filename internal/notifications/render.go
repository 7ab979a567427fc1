package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"minutes/internal/config"
	"minutes/internal/delivery"
	"minutes/internal/meeting"
)

// Fixed subjects per bundle kind.
const (
	SubjectActionItems = "Meeting Action Items"
	SubjectSummary     = "Meeting Summary"
)

const defaultSenderName = "Meeting Coordinator"

//go:embed templates/email.html.tmpl
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "templates/email.html.tmpl"))

// Email is a rendered message ready for a Mailer.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Renderer turns bundles into HTML email.
type Renderer struct {
	format     string
	senderName string
	markdown   goldmark.Markdown
}

// NewRenderer builds a Renderer. format is config.SummaryFormatText or
// config.SummaryFormatMarkdown.
func NewRenderer(format, senderName string) *Renderer {
	if strings.TrimSpace(senderName) == "" {
		senderName = defaultSenderName
	}
	r := &Renderer{format: format, senderName: senderName}
	if format == config.SummaryFormatMarkdown {
		r.markdown = goldmark.New()
	}
	return r
}

type emailView struct {
	Heading       string
	RecipientName string
	Intro         string
	Summary       template.HTML
	TaskSection   bool
	Tasks         []meeting.Task
	SenderName    string
}

// Subject returns the fixed subject for a bundle kind.
func Subject(kind delivery.Kind) string {
	if kind == delivery.KindTask {
		return SubjectActionItems
	}
	return SubjectSummary
}

// Render produces the message for one bundle.
func (r *Renderer) Render(bundle delivery.Bundle, summary meeting.Summary) (Email, error) {
	summaryHTML, err := r.summaryHTML(meeting.SummaryText(summary))
	if err != nil {
		return Email{}, err
	}
	view := emailView{
		Heading:       "Meeting Summary",
		RecipientName: bundle.RecipientName,
		Intro:         "Below you'll find a summary of our recent meeting.",
		Summary:       summaryHTML,
		SenderName:    r.senderName,
	}
	if bundle.Kind == delivery.KindTask {
		view.Heading = "Meeting Summary & Action Items"
		view.Intro = "Below you'll find a summary of our recent meeting and your assigned action items."
		view.TaskSection = true
		view.Tasks = bundle.Tasks
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return Email{}, fmt.Errorf("render email for %s: %w", bundle.Email, err)
	}
	return Email{To: bundle.Email, Subject: Subject(bundle.Kind), HTML: buf.String()}, nil
}

func (r *Renderer) summaryHTML(text string) (template.HTML, error) {
	if r.markdown != nil {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(text), &buf); err != nil {
			return "", fmt.Errorf("render markdown summary: %w", err)
		}
		return template.HTML(buf.String()), nil
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")), nil
}
