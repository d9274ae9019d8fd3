// Package audiocache provides the durable, content-addressed store for
// generated audio clips.
//
// Clips are keyed by fingerprint (see internal/fingerprint) and live as one
// WAV file per fingerprint next to a JSON index. The index is the single
// source of truth for cache membership: artifacts on disk without an index
// entry are orphans and are ignored, index entries whose artifact vanished
// are dropped on the next mutation. Capacity is enforced with strict
// least-recently-used eviction on insert.
//
// Every index mutation is one flock-guarded read-modify-write published via
// atomic rename, so concurrent hook invocations can race freely: the index is
// always observed whole, and for a given fingerprint the last writer wins.
// A corrupt or missing index degrades to an empty cache instead of an error;
// the worst outcome of any failure here is a cache miss, never a crash.
//
// CLI commands for inspection and management:
//
//	voxhook cache stats   # Entry counts and disk usage
//	voxhook cache list    # Entries in recency order
//	voxhook cache clear   # Remove all entries and artifacts
package audiocache
