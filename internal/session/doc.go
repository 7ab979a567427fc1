// Package session carries the per-meeting state passed between pipeline
// stages and persists it in SQLite so separate CLI invocations can analyze,
// review, and dispatch the same meeting.
//
// Each session is one row keyed by UUID. Slices and results are stored as
// JSON columns. The schema is versioned; a mismatch returns
// ErrSchemaMismatch and the database file must be removed.
//
// LockDispatch takes a per-session file lock so two processes never send the
// same session's email at the same time.
package session
