package tags

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"screengen/internal/errors"
)

// LockFileName is the advisory lock file created in the output directory
// while a run holds its tag allocation.
const LockFileName = ".screengen.lock"

// RunLock guards an output directory between tag allocation and render
// completion. Tags are derived from the directory's file names, so two
// runs allocating concurrently would compute colliding tag sets; the
// lock makes allocation-to-render atomic with respect to other runs.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock creates an unacquired lock for the given output directory.
func NewRunLock(dir string) *RunLock {
	return &RunLock{lock: flock.New(filepath.Join(dir, LockFileName))}
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.lock.Path()
}

// Acquire takes the lock without blocking. A directory already locked by
// another run is a configuration error, not a wait condition.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return errors.NewIOError("acquiring output directory lock", err)
	}
	if !ok {
		return errors.NewConfigError("output directory is locked by another run: " + l.lock.Path())
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
