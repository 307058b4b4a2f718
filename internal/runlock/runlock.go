// Package runlock serializes pipeline runs that write to the same output
// root. The lock lives next to the root as "<root>.lock".
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"flowpack/internal/faults"
)

// ErrHeld reports that another process owns the lock.
var ErrHeld = errors.New("output root is locked by another run")

// Lock is an exclusive advisory lock held for the duration of one run.
type Lock struct {
	path string
	fl   *flock.Flock
}

// PathFor returns the lock file path guarding outputRoot.
func PathFor(outputRoot string) string {
	cleaned := filepath.Clean(strings.TrimSpace(outputRoot))
	return cleaned + ".lock"
}

// Acquire takes the lock for outputRoot without blocking. A held lock yields
// an error wrapping both ErrHeld and faults.ErrPrecondition.
func Acquire(outputRoot string) (*Lock, error) {
	if strings.TrimSpace(outputRoot) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "runlock", "acquire", "output root is empty", nil)
	}
	lockPath := PathFor(outputRoot)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrPrecondition, "runlock", "acquire", "create lock directory", err)
	}

	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrPrecondition, "runlock", "acquire", fmt.Sprintf("lock %s", lockPath), err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrPrecondition, "runlock", "acquire", lockPath, ErrHeld)
	}
	return &Lock{path: lockPath, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and removes the lock file. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	l.fl = nil
	return nil
}
