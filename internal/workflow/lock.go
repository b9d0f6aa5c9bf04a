package workflow

import (
	"crypto/sha1" //nolint:gosec // lock file naming, not security
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockPath returns the lock file guarding kind jobs on target.
func LockPath(lockDir string, kind Kind, target string) string {
	sum := sha1.Sum([]byte(target)) //nolint:gosec
	return filepath.Join(lockDir, fmt.Sprintf("%s-%s.lock", kind, hex.EncodeToString(sum[:])[:12]))
}

func acquireLock(lockDir string, kind Kind, target string) (*flock.Flock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(LockPath(lockDir, kind, target))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire job lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrJobActive, kind, filepath.Base(target))
	}
	return lock, nil
}

// HeldLocks lists the lock files in lockDir currently held by a running job,
// in this or another process.
func HeldLocks(lockDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(lockDir, "*.lock"))
	if err != nil {
		return nil, err
	}
	var held []string
	for _, path := range matches {
		lock := flock.New(path)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("probe lock %s: %w", filepath.Base(path), err)
		}
		if !ok {
			held = append(held, path)
			continue
		}
		if err := lock.Unlock(); err != nil {
			return nil, fmt.Errorf("release probe lock %s: %w", filepath.Base(path), err)
		}
	}
	return held, nil
}
