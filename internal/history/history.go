// Package history keeps the bounded rolling record of what voxhook has said.
//
// The log is global: every invocation, for every project, appends to the same
// file, so the quip generator's anti-repetition context spans everything the
// system has ever said and not just the current session. Appends are
// flock-guarded read-modify-writes published by atomic rename, which is what
// guarantees a record is visible the moment Append returns even when two
// invocations interleave. A corrupt log degrades to empty rather than failing
// the caller.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"voxhook/internal/fsatomic"
	"voxhook/internal/logging"
)

// DefaultMaxEntries is the history bound used when none is configured.
const DefaultMaxEntries = 20

// defaultLockWait bounds how long an append waits for the history lock.
const defaultLockWait = 5 * time.Second

// Record is one spoken line of commentary.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	EventKind string    `json:"event_kind"`
	Project   string    `json:"project,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	Text      string    `json:"text"`
}

// Log provides cross-process safe access to the history file.
type Log struct {
	path     string
	max      int
	lockWait time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewLog creates a log stored at path, keeping at most max records. A max <= 0
// selects DefaultMaxEntries.
func NewLog(path string, max int, logger *slog.Logger) *Log {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Log{
		path:     path,
		max:      max,
		lockWait: defaultLockWait,
		logger:   logging.NewComponentLogger(logger, "history"),
		now:      time.Now,
	}
}

// Append adds a record, evicting the oldest entries when the bound would be
// exceeded. The record is durably visible before Append returns.
func (l *Log) Append(ctx context.Context, rec Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now().UTC()
	}
	return fsatomic.WithLock(ctx, l.lockPath(), l.lockWait, func() error {
		records := l.load()
		records = append(records, rec)
		if len(records) > l.max {
			records = records[len(records)-l.max:]
		}
		return l.save(records)
	})
}

// Recent returns up to n records, oldest first. The most recent record is
// always last, which is the order the quip prompt wants them in.
func (l *Log) Recent(n int) []Record {
	records := l.load()
	if n >= 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Clear removes every record.
func (l *Log) Clear(ctx context.Context) error {
	return fsatomic.WithLock(ctx, l.lockPath(), l.lockWait, func() error {
		return l.save([]Record{})
	})
}

func (l *Log) lockPath() string { return l.path + ".lock" }

// load reads the history file, failing open to empty on any problem.
func (l *Log) load() []Record {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("history unreadable, starting empty",
				logging.String("path", l.path),
				logging.Error(err))
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn("history malformed, starting empty",
			logging.String("path", l.path),
			logging.Error(err))
		return nil
	}
	if len(records) > l.max {
		records = records[len(records)-l.max:]
	}
	return records
}

func (l *Log) save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := fsatomic.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
