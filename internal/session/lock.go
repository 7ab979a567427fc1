package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrDispatchInProgress is returned when another process holds the session's
// dispatch lock.
var ErrDispatchInProgress = errors.New("dispatch already in progress for this session")

// DispatchLock is held while a session's email is being sent.
type DispatchLock struct {
	lock *flock.Flock
}

// Path returns the lock file location.
func (l *DispatchLock) Path() string {
	return l.lock.Path()
}

// Release frees the lock and removes the lock file.
func (l *DispatchLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	path := l.lock.Path()
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release dispatch lock: %w", err)
	}
	_ = os.Remove(path)
	return nil
}

// LockDispatch acquires the per-session dispatch lock without blocking.
func (s *Store) LockDispatch(id string) (*DispatchLock, error) {
	if err := os.MkdirAll(s.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(s.lockDir, id+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrDispatchInProgress, id)
	}
	return &DispatchLock{lock: lock}, nil
}
