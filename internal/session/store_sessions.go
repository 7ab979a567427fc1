package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"minutes/internal/extraction"
	"minutes/internal/meeting"
	"minutes/internal/services"
)

// Fixed-width so lexical order in SQLite matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sessionColumns = "id, created_at, updated_at, transcript_name, transcript, roster_name, roster_json, summary_json, tasks_json, extraction_json, analyzed_at"

// ErrAmbiguousID is returned when an ID prefix matches several sessions.
var ErrAmbiguousID = errors.New("session id prefix is ambiguous")

// Save inserts or replaces a session.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	if strings.TrimSpace(sess.ID) == "" {
		return errors.New("session id is empty")
	}
	rosterJSON, err := marshalJSON(nonNilParticipants(sess.Roster))
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	tasksJSON, err := marshalJSON(nonNilTasks(sess.Tasks))
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	summaryJSON, err := marshalOptional(sess.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	extractionJSON, err := marshalOptional(sess.Extraction)
	if err != nil {
		return fmt.Errorf("marshal extraction report: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             updated_at = excluded.updated_at,
             transcript_name = excluded.transcript_name,
             transcript = excluded.transcript,
             roster_name = excluded.roster_name,
             roster_json = excluded.roster_json,
             summary_json = excluded.summary_json,
             tasks_json = excluded.tasks_json,
             extraction_json = excluded.extraction_json,
             analyzed_at = excluded.analyzed_at`,
		sess.ID,
		formatTime(sess.CreatedAt),
		formatTime(sess.UpdatedAt),
		nullableString(sess.TranscriptName),
		sess.Transcript,
		nullableString(sess.RosterName),
		rosterJSON,
		summaryJSON,
		tasksJSON,
		extractionJSON,
		nullableTime(sess.AnalyzedAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get fetches a session by exact ID. It returns nil, nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Latest returns the most recently updated session, or nil when none exist.
func (s *Store) Latest(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+sessionColumns+` FROM sessions ORDER BY updated_at DESC LIMIT 1`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// Resolve finds a session by full ID or unique prefix. An empty reference
// means the latest session. Missing sessions yield services.ErrNotFound.
func (s *Store) Resolve(ctx context.Context, ref string) (*Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		sess, err := s.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, services.Wrap(services.ErrNotFound, "session", "resolve", "no sessions recorded; run `minutes analyze` first", nil)
		}
		return sess, nil
	}
	if sess, err := s.Get(ctx, ref); err != nil || sess != nil {
		return sess, err
	}

	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM sessions WHERE id LIKE ? ESCAPE '\' ORDER BY updated_at DESC LIMIT 2`,
		escapeLike(ref)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	defer rows.Close()
	var matches []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		matches = append(matches, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "session", "resolve", fmt.Sprintf("no session matches %q", ref), nil)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, ref)
	}
}

// List returns every session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+sessionColumns+` FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes one session and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every session and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return res.RowsAffected()
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id             string
		createdRaw     string
		updatedRaw     string
		transcriptName sql.NullString
		transcript     string
		rosterName     sql.NullString
		rosterJSON     string
		summaryJSON    sql.NullString
		tasksJSON      string
		extractionJSON sql.NullString
		analyzedRaw    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&createdRaw,
		&updatedRaw,
		&transcriptName,
		&transcript,
		&rosterName,
		&rosterJSON,
		&summaryJSON,
		&tasksJSON,
		&extractionJSON,
		&analyzedRaw,
	); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:             id,
		CreatedAt:      parseTime(createdRaw),
		UpdatedAt:      parseTime(updatedRaw),
		TranscriptName: transcriptName.String,
		Transcript:     transcript,
		RosterName:     rosterName.String,
		Roster:         []meeting.Participant{},
		Tasks:          []meeting.Task{},
	}
	if err := json.Unmarshal([]byte(rosterJSON), &sess.Roster); err != nil {
		return nil, fmt.Errorf("decode roster for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tasksJSON), &sess.Tasks); err != nil {
		return nil, fmt.Errorf("decode tasks for %s: %w", id, err)
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		var summary meeting.Summary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
			return nil, fmt.Errorf("decode summary for %s: %w", id, err)
		}
		sess.Summary = &summary
	}
	if extractionJSON.Valid && extractionJSON.String != "" {
		var report extraction.Report
		if err := json.Unmarshal([]byte(extractionJSON.String), &report); err != nil {
			return nil, fmt.Errorf("decode extraction report for %s: %w", id, err)
		}
		sess.Extraction = &report
	}
	if analyzedRaw.Valid && analyzedRaw.String != "" {
		t := parseTime(analyzedRaw.String)
		sess.AnalyzedAt = &t
	}
	return sess, nil
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalOptional[T any](value *T) (any, error) {
	if value == nil {
		return nil, nil
	}
	return marshalJSON(value)
}

func nonNilParticipants(values []meeting.Participant) []meeting.Participant {
	if values == nil {
		return []meeting.Participant{}
	}
	return values
}

func nonNilTasks(values []meeting.Task) []meeting.Task {
	if values == nil {
		return []meeting.Task{}
	}
	return values
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		if fallback, ferr := time.Parse(time.RFC3339Nano, raw); ferr == nil {
			return fallback
		}
		return time.Time{}
	}
	return t
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
