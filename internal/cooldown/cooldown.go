// Package cooldown rate-limits repeatable events using a marker file's
// modification time, so cooldown state survives across short-lived handler
// processes.
package cooldown

import (
	"os"
	"time"

	"voxhook/internal/fsatomic"
)

// Gate suppresses events that fire again within the configured window.
type Gate struct {
	path   string
	window time.Duration

	now func() time.Time
}

// NewGate returns a gate backed by the marker file at path. A non-positive
// window disables the gate.
func NewGate(path string, window time.Duration) *Gate {
	return &Gate{path: path, window: window, now: time.Now}
}

// Active reports whether the gate is currently suppressing. Missing or
// unreadable marker files count as inactive so a broken state directory never
// silences events permanently.
func (g *Gate) Active() bool {
	if g == nil || g.window <= 0 {
		return false
	}
	info, err := os.Stat(g.path)
	if err != nil {
		return false
	}
	return g.now().Sub(info.ModTime()) < g.window
}

// Mark records that the event just fired, starting a new window.
func (g *Gate) Mark() error {
	if g == nil || g.window <= 0 {
		return nil
	}
	return fsatomic.WriteFile(g.path, []byte(g.now().UTC().Format(time.RFC3339)+"\n"), 0o644)
}
