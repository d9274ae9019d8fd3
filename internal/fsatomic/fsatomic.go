package fsatomic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrLockTimeout reports that an exclusive lock could not be acquired within
// the caller's deadline. Callers skip the guarded action rather than retry.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// lockRetryDelay is the poll interval while waiting for a contended lock.
const lockRetryDelay = 25 * time.Millisecond

// WriteFile atomically replaces path with data. The payload is written to a
// uniquely named temp file in the same directory and renamed into place, so a
// concurrent reader observes either the old content or the new, never a mix.
// Racing writers get distinct temp names; the last rename wins.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// WithLock runs fn while holding an exclusive advisory lock on lockPath.
// Acquisition is bounded by timeout; ErrLockTimeout is returned when the lock
// stays contended. The lock is released on every exit path, including a
// panicking fn.
func WithLock(ctx context.Context, lockPath string, timeout time.Duration, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lock := flock.New(lockPath)
	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("acquire lock %q: %w", lockPath, err)
	}
	if !ok {
		return ErrLockTimeout
	}
	defer func() {
		_ = lock.Unlock()
	}()

	return fn()
}
