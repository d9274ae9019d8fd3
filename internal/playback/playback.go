// Package playback serializes access to the machine's audio output across
// voxhook invocations.
//
// Each hook event runs in its own process, so two events landing close
// together would otherwise talk over each other. The coordinator is a named
// advisory file lock: whoever holds it may produce sound, everyone else waits
// up to a bounded timeout and then skips their clip. Stale notifications that
// queue up and play long after the triggering event are worse than silence.
// The kernel releases the lock when the holder exits, crashed or not.
package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"voxhook/internal/fsatomic"
)

// ErrLockTimeout reports that the playback lock stayed contended past the
// caller's deadline. The caller's policy is to skip playback, never to queue.
var ErrLockTimeout = fsatomic.ErrLockTimeout

// acquireRetryDelay is the poll interval while waiting for the lock.
const acquireRetryDelay = 50 * time.Millisecond

// Guard represents a held playback lock. Release it with defer; every exit
// path of the playing code must give the device back.
type Guard struct {
	lock *flock.Flock
}

// Release unlocks the playback lock. Safe to call once per Guard.
func (g *Guard) Release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	lock := g.lock
	g.lock = nil
	return lock.Unlock()
}

// Acquire takes the exclusive machine-wide playback lock at lockPath, waiting
// at most timeout. On success the caller owns the audio device until the
// returned Guard is released.
func Acquire(ctx context.Context, lockPath string, timeout time.Duration) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lock := flock.New(lockPath)
	ok, err := lock.TryLockContext(lockCtx, acquireRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("acquire playback lock %q: %w", lockPath, err)
	}
	if !ok {
		return nil, ErrLockTimeout
	}
	return &Guard{lock: lock}, nil
}

// DefaultLockPath returns the machine-wide default lock location.
func DefaultLockPath() string {
	return filepath.Join(os.TempDir(), "voxhook-audio.lock")
}
