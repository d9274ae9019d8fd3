package audiocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"voxhook/internal/fingerprint"
	"voxhook/internal/fsatomic"
	"voxhook/internal/logging"
)

// DefaultCapacity is the entry bound used when no capacity is configured.
const DefaultCapacity = 500

const (
	indexFileName = "index.json"
	lockFileName  = "index.lock"

	// defaultLockWait bounds how long a mutation waits for the index lock.
	// Index writes are tiny, so a contended lock clears in milliseconds;
	// anything longer means something is wrong and the caller should degrade.
	defaultLockWait = 5 * time.Second
)

var (
	// ErrCacheCorrupted reports an unreadable or malformed index. The store
	// recovers from it internally by starting empty; it is exported for
	// diagnostics that want to surface the condition.
	ErrCacheCorrupted = errors.New("cache index corrupted")

	// ErrArtifactMissing reports an index entry whose backing file is gone.
	// Lookups treat it as a miss and drop the entry.
	ErrArtifactMissing = errors.New("cached artifact missing")
)

// Entry describes one cached clip.
type Entry struct {
	Fingerprint    string    `json:"fingerprint"`
	Path           string    `json:"path"` // relative to the cache directory
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	SizeBytes      uint64    `json:"size_bytes"`
}

// Stats summarizes cache occupancy.
type Stats struct {
	Total     int
	Valid     int
	SizeBytes uint64
	Capacity  int
}

type index struct {
	Capacity int              `json:"capacity"`
	Entries  map[string]Entry `json:"entries"`
}

// Store provides cross-process safe access to the audio cache.
type Store struct {
	dir      string
	capacity int
	lockWait time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a store rooted at dir. A capacity <= 0 selects
// DefaultCapacity. The directory is created lazily on first insert.
func NewStore(dir string, capacity int, logger *slog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		dir:      dir,
		capacity: capacity,
		lockWait: defaultLockWait,
		logger:   logging.NewComponentLogger(logger, "audiocache"),
		now:      time.Now,
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) indexPath() string { return filepath.Join(s.dir, indexFileName) }
func (s *Store) lockPath() string  { return filepath.Join(s.dir, lockFileName) }

func (s *Store) artifactPath(fp string) string {
	return filepath.Join(s.dir, fingerprint.ArtifactName(fp))
}

// Lookup returns the absolute artifact path for a fingerprint. A miss is not
// an error. On a hit the entry's recency is bumped and persisted before the
// call returns, so eviction ordering stays accurate across processes. An
// entry whose artifact no longer exists is dropped and reported as a miss.
func (s *Store) Lookup(ctx context.Context, fp string) (string, bool, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return "", false, nil
	}

	var (
		path string
		hit  bool
	)
	err := fsatomic.WithLock(ctx, s.lockPath(), s.lockWait, func() error {
		idx := s.load()
		entry, found := idx.Entries[fp]
		if !found {
			return nil
		}

		abs := filepath.Join(s.dir, entry.Path)
		if _, err := os.Stat(abs); err != nil {
			s.logger.Debug("dropping dangling cache entry",
				logging.String("fingerprint", fp),
				logging.Error(fmt.Errorf("%w: %s", ErrArtifactMissing, entry.Path)))
			delete(idx.Entries, fp)
			return s.save(idx)
		}

		entry.LastAccessedAt = s.now().UTC()
		idx.Entries[fp] = entry
		if err := s.save(idx); err != nil {
			return err
		}
		path, hit = abs, true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return path, hit, nil
}

// Insert writes audio under the fingerprint's deterministic artifact path and
// registers it in the index. Re-inserting an existing fingerprint overwrites
// the artifact and refreshes both timestamps. When the insertion pushes the
// cache past capacity, least-recently-accessed entries are evicted (including
// their backing files) until the bound holds again.
func (s *Store) Insert(ctx context.Context, fp string, audio []byte) (string, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return "", errors.New("fingerprint cannot be empty")
	}

	abs := s.artifactPath(fp)
	if err := fsatomic.WriteFile(abs, audio, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	err := fsatomic.WithLock(ctx, s.lockPath(), s.lockWait, func() error {
		idx := s.load()
		now := s.now().UTC()
		idx.Entries[fp] = Entry{
			Fingerprint:    fp,
			Path:           fingerprint.ArtifactName(fp),
			CreatedAt:      now,
			LastAccessedAt: now,
			SizeBytes:      uint64(len(audio)),
		}
		for len(idx.Entries) > s.capacity {
			evicted := s.evictLocked(idx)
			if evicted == nil {
				break
			}
			s.logger.Debug("evicted cache entry",
				logging.String("fingerprint", evicted.Fingerprint),
				logging.Uint64("size_bytes", evicted.SizeBytes))
		}
		return s.save(idx)
	})
	if err != nil {
		return "", fmt.Errorf("register artifact: %w", err)
	}

	s.logger.Debug("cached artifact",
		logging.String("fingerprint", fp),
		logging.Int("size_bytes", len(audio)))
	return abs, nil
}

// EvictOne removes exactly the least-recently-used entry and its artifact.
// It returns nil when the cache is empty.
func (s *Store) EvictOne(ctx context.Context) (*Entry, error) {
	var evicted *Entry
	err := fsatomic.WithLock(ctx, s.lockPath(), s.lockWait, func() error {
		idx := s.load()
		if len(idx.Entries) == 0 {
			return nil
		}
		evicted = s.evictLocked(idx)
		return s.save(idx)
	})
	if err != nil {
		return nil, err
	}
	return evicted, nil
}

// evictLocked removes the LRU entry from idx and deletes its artifact. Recency
// is LastAccessedAt with CreatedAt as the tiebreaker. Must run under the
// index lock.
func (s *Store) evictLocked(idx *index) *Entry {
	var victim *Entry
	for _, entry := range idx.Entries {
		e := entry
		if victim == nil || older(e, *victim) {
			victim = &e
		}
	}
	if victim == nil {
		return nil
	}
	delete(idx.Entries, victim.Fingerprint)
	if err := os.Remove(filepath.Join(s.dir, victim.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove evicted artifact",
			logging.String("path", victim.Path),
			logging.Error(err))
	}
	return victim
}

func older(a, b Entry) bool {
	if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
		return a.LastAccessedAt.Before(b.LastAccessedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Fingerprint < b.Fingerprint
}

// AnyArtifact returns the most recently accessed clip that still exists on
// disk. It backs the "play something rather than nothing" fallback on a miss.
func (s *Store) AnyArtifact() (string, bool) {
	idx := s.load()
	entries := make([]Entry, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return older(entries[j], entries[i]) })

	for _, entry := range entries {
		abs := filepath.Join(s.dir, entry.Path)
		if _, err := os.Stat(abs); err == nil {
			return abs, true
		}
	}
	return "", false
}

// Entries returns all index entries, most recently accessed first.
func (s *Store) Entries() []Entry {
	idx := s.load()
	entries := make([]Entry, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return older(entries[j], entries[i]) })
	return entries
}

// Stats reports cache occupancy. Valid counts entries whose artifact exists.
func (s *Store) Stats() Stats {
	idx := s.load()
	stats := Stats{Total: len(idx.Entries), Capacity: s.capacity}
	for _, entry := range idx.Entries {
		stats.SizeBytes += entry.SizeBytes
		if _, err := os.Stat(filepath.Join(s.dir, entry.Path)); err == nil {
			stats.Valid++
		}
	}
	return stats
}

// Clear removes every entry and artifact, leaving an empty index behind.
func (s *Store) Clear(ctx context.Context) error {
	return fsatomic.WithLock(ctx, s.lockPath(), s.lockWait, func() error {
		idx := s.load()
		for _, entry := range idx.Entries {
			if err := os.Remove(filepath.Join(s.dir, entry.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("failed to remove artifact",
					logging.String("path", entry.Path),
					logging.Error(err))
			}
		}
		idx.Entries = map[string]Entry{}
		return s.save(idx)
	})
}

// load reads the index, failing open: a missing, unreadable, or malformed
// index yields an empty one, and the next successful mutation rewrites it.
func (s *Store) load() *index {
	empty := &index{Capacity: s.capacity, Entries: map[string]Entry{}}

	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cache index unreadable, starting empty",
				logging.String("path", s.indexPath()),
				logging.Error(fmt.Errorf("%w: %w", ErrCacheCorrupted, err)))
		}
		return empty
	}
	if len(data) == 0 {
		return empty
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		s.logger.Warn("cache index malformed, starting empty",
			logging.String("path", s.indexPath()),
			logging.Error(fmt.Errorf("%w: %w", ErrCacheCorrupted, err)))
		return empty
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	idx.Capacity = s.capacity
	return &idx
}

func (s *Store) save(idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := fsatomic.WriteFile(s.indexPath(), data, 0o644); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	return nil
}
