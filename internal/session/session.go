package session

import (
	"time"

	"github.com/google/uuid"

	"minutes/internal/delivery"
	"minutes/internal/extraction"
	"minutes/internal/meeting"
)

// Session holds one meeting's inputs and analysis results. Replacing the
// transcript or roster clears any earlier analysis.
type Session struct {
	ID             string                `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	TranscriptName string                `json:"transcript_name,omitempty"`
	Transcript     string                `json:"transcript"`
	RosterName     string                `json:"roster_name,omitempty"`
	Roster         []meeting.Participant `json:"roster"`
	Summary        *meeting.Summary      `json:"summary,omitempty"`
	Tasks          []meeting.Task        `json:"tasks"`
	Extraction     *extraction.Report    `json:"extraction,omitempty"`
	AnalyzedAt     *time.Time            `json:"analyzed_at,omitempty"`
}

// New starts an empty session with a fresh identifier.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Roster:    []meeting.Participant{},
		Tasks:     []meeting.Task{},
	}
}

// ShortID returns the first eight characters of the identifier.
func (s *Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// SetRoster replaces the roster wholesale.
func (s *Session) SetRoster(name string, participants []meeting.Participant) {
	s.RosterName = name
	s.Roster = append([]meeting.Participant{}, participants...)
	s.clearAnalysis()
}

// SetTranscript replaces the transcript wholesale.
func (s *Session) SetTranscript(name, text string) {
	s.TranscriptName = name
	s.Transcript = text
	s.clearAnalysis()
}

// SetAnalysis records the summary and validated tasks.
func (s *Session) SetAnalysis(summary meeting.Summary, tasks []meeting.Task, report extraction.Report) {
	now := time.Now().UTC()
	s.Summary = &summary
	s.Tasks = append([]meeting.Task{}, tasks...)
	s.Extraction = &report
	s.AnalyzedAt = &now
	s.touch()
}

// Analyzed reports whether analysis results are present.
func (s *Session) Analyzed() bool {
	return s.Summary != nil && s.AnalyzedAt != nil
}

// Reset clears everything except the identifier and creation time.
func (s *Session) Reset() {
	s.TranscriptName = ""
	s.Transcript = ""
	s.RosterName = ""
	s.Roster = []meeting.Participant{}
	s.clearAnalysis()
}

// Plan groups the session's tasks, or its roster, into delivery bundles.
func (s *Session) Plan() *delivery.Plan {
	return delivery.Group(s.Tasks, s.Roster)
}

func (s *Session) clearAnalysis() {
	s.Summary = nil
	s.Tasks = []meeting.Task{}
	s.Extraction = nil
	s.AnalyzedAt = nil
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
