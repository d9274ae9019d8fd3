package audiocache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxhook/internal/fingerprint"
)

// newTestStore returns a store whose clock advances one second per call so
// recency ordering is deterministic without sleeping.
func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	store := NewStore(t.TempDir(), capacity, nil)
	cursor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		cursor = cursor.Add(time.Second)
		return cursor
	}
	return store
}

func TestInsertThenLookupReturnsSameBytes(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()

	audio := []byte("RIFF-fake-wav-payload")
	fp := fingerprint.New("Task complete.")

	if _, err := store.Insert(ctx, fp, audio); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	path, ok, err := store.Lookup(ctx, fp)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !ok {
		t.Fatal("Lookup missed a just-inserted fingerprint")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("artifact content mismatch: got %d bytes, want %d", len(got), len(audio))
	}
}

func TestLookupMissIsNotAnError(t *testing.T) {
	store := newTestStore(t, 10)

	_, ok, err := store.Lookup(context.Background(), "deadbeefdeadbeef")
	if err != nil {
		t.Fatalf("Lookup returned error on miss: %v", err)
	}
	if ok {
		t.Error("Lookup reported a hit for an absent fingerprint")
	}
}

func TestReinsertOverwritesArtifact(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()
	fp := fingerprint.New("Done. Standing by.")

	if _, err := store.Insert(ctx, fp, []byte("old")); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, fp, []byte("new-bytes")); err != nil {
		t.Fatalf("second Insert failed: %v", err)
	}

	path, ok, _ := store.Lookup(ctx, fp)
	if !ok {
		t.Fatal("Lookup missed after reinsert")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new-bytes" {
		t.Errorf("artifact not overwritten: got %q", got)
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reinsert, got %d", len(entries))
	}
	if entries[0].SizeBytes != uint64(len("new-bytes")) {
		t.Errorf("size not refreshed: got %d", entries[0].SizeBytes)
	}
}

func TestCapacityInvariantHolds(t *testing.T) {
	const capacity = 5
	store := newTestStore(t, capacity)
	ctx := context.Background()

	phrases := []string{"one", "two", "three", "four", "five", "six"}
	for _, phrase := range phrases {
		if _, err := store.Insert(ctx, fingerprint.New(phrase), []byte(phrase)); err != nil {
			t.Fatalf("Insert %q failed: %v", phrase, err)
		}
	}

	entries := store.Entries()
	if len(entries) != capacity {
		t.Fatalf("capacity invariant violated: %d entries, capacity %d", len(entries), capacity)
	}

	// "one" was the least recently accessed when "six" arrived.
	if _, ok, _ := store.Lookup(ctx, fingerprint.New("one")); ok {
		t.Error("LRU entry survived eviction")
	}
	if _, ok, _ := store.Lookup(ctx, fingerprint.New("six")); !ok {
		t.Error("newest entry was evicted")
	}

	// The evicted artifact must be gone from disk too.
	evictedPath := filepath.Join(store.Dir(), fingerprint.ArtifactName(fingerprint.New("one")))
	if _, err := os.Stat(evictedPath); !os.IsNotExist(err) {
		t.Error("evicted artifact still on disk")
	}
}

func TestLookupPromotesRecency(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	fpA := fingerprint.New("alpha")
	fpB := fingerprint.New("beta")
	fpC := fingerprint.New("gamma")
	fpD := fingerprint.New("delta")

	mustInsert(t, store, fpA, "alpha")
	mustInsert(t, store, fpB, "beta")

	// Promote A so B becomes the LRU victim.
	if _, ok, _ := store.Lookup(ctx, fpA); !ok {
		t.Fatal("Lookup A missed")
	}
	mustInsert(t, store, fpC, "gamma")
	if _, ok, _ := store.Lookup(ctx, fpB); ok {
		t.Error("B should have been evicted after A's promotion")
	}

	// Promote A again; C is now the victim of D's insertion.
	if _, ok, _ := store.Lookup(ctx, fpA); !ok {
		t.Fatal("A should have survived the first eviction")
	}
	mustInsert(t, store, fpD, "delta")

	if _, ok, _ := store.Lookup(ctx, fpA); !ok {
		t.Error("survivor A missing")
	}
	if _, ok, _ := store.Lookup(ctx, fpD); !ok {
		t.Error("survivor D missing")
	}
	if _, ok, _ := store.Lookup(ctx, fpC); ok {
		t.Error("C should have been evicted")
	}
}

func TestEvictOneRemovesExactlyTheLRU(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()

	mustInsert(t, store, fingerprint.New("old"), "old")
	mustInsert(t, store, fingerprint.New("mid"), "mid")
	mustInsert(t, store, fingerprint.New("new"), "new")

	evicted, err := store.EvictOne(ctx)
	if err != nil {
		t.Fatalf("EvictOne failed: %v", err)
	}
	if evicted == nil {
		t.Fatal("EvictOne returned nil on a populated cache")
	}
	if evicted.Fingerprint != fingerprint.New("old") {
		t.Errorf("evicted %q, want the LRU entry", evicted.Fingerprint)
	}
	if len(store.Entries()) != 2 {
		t.Errorf("expected 2 entries after EvictOne, got %d", len(store.Entries()))
	}
}

func TestEvictOneOnEmptyCache(t *testing.T) {
	store := newTestStore(t, 10)

	evicted, err := store.EvictOne(context.Background())
	if err != nil {
		t.Fatalf("EvictOne failed: %v", err)
	}
	if evicted != nil {
		t.Errorf("EvictOne on empty cache returned %+v", evicted)
	}
}

func TestDanglingEntryBecomesMiss(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()
	fp := fingerprint.New("ghost")

	path, err := store.Insert(ctx, fp, []byte("ghost"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}

	_, ok, err := store.Lookup(ctx, fp)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ok {
		t.Error("Lookup hit an entry whose artifact is gone")
	}
	if len(store.Entries()) != 0 {
		t.Error("dangling entry not removed from the index")
	}
}

func TestCorruptIndexFailsOpen(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()

	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.indexPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := store.Lookup(ctx, fingerprint.New("anything")); err != nil || ok {
		t.Errorf("corrupt index should behave as empty: ok=%v err=%v", ok, err)
	}

	// The next mutation rewrites a well-formed index.
	fp := fingerprint.New("recovered")
	if _, err := store.Insert(ctx, fp, []byte("recovered")); err != nil {
		t.Fatalf("Insert after corruption failed: %v", err)
	}
	if _, ok, _ := store.Lookup(ctx, fp); !ok {
		t.Error("Lookup missed after recovery insert")
	}
}

func TestStrayTempFileDoesNotCorruptIndex(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()
	fp := fingerprint.New("stable")

	mustInsert(t, store, fp, "stable")

	// Simulate a writer that died between temp-write and rename.
	stray := filepath.Join(store.Dir(), ".index.json.crashed.tmp")
	if err := os.WriteFile(stray, []byte(`{"capacity":10,"entr`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := store.Lookup(ctx, fp); err != nil || !ok {
		t.Errorf("pre-crash state lost: ok=%v err=%v", ok, err)
	}
}

func TestAnyArtifactPrefersFilesThatExist(t *testing.T) {
	store := newTestStore(t, 10)

	if _, ok := store.AnyArtifact(); ok {
		t.Error("AnyArtifact on empty cache reported a hit")
	}

	keepPath := mustInsert(t, store, fingerprint.New("keep"), "keep")
	gonePath := mustInsert(t, store, fingerprint.New("gone"), "gone")
	if err := os.Remove(gonePath); err != nil {
		t.Fatal(err)
	}

	path, ok := store.AnyArtifact()
	if !ok {
		t.Fatal("AnyArtifact found nothing")
	}
	if path != keepPath {
		t.Errorf("AnyArtifact returned %q, want %q", path, keepPath)
	}
}

func TestClearEmptiesIndexAndDisk(t *testing.T) {
	store := newTestStore(t, 10)
	ctx := context.Background()

	pathA := mustInsert(t, store, fingerprint.New("a"), "a")
	pathB := mustInsert(t, store, fingerprint.New("b"), "b")

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Error("entries remain after Clear")
	}
	for _, path := range []string{pathA, pathB} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("artifact %s survived Clear", path)
		}
	}
}

func TestStatsCountsValidEntries(t *testing.T) {
	store := newTestStore(t, 10)

	mustInsert(t, store, fingerprint.New("alive"), "alive")
	gonePath := mustInsert(t, store, fingerprint.New("dead"), "dead")
	if err := os.Remove(gonePath); err != nil {
		t.Fatal(err)
	}

	stats := store.Stats()
	if stats.Total != 2 {
		t.Errorf("Total: got %d, want 2", stats.Total)
	}
	if stats.Valid != 1 {
		t.Errorf("Valid: got %d, want 1", stats.Valid)
	}
	if stats.Capacity != 10 {
		t.Errorf("Capacity: got %d, want 10", stats.Capacity)
	}
	if stats.SizeBytes != uint64(len("alive")+len("dead")) {
		t.Errorf("SizeBytes: got %d", stats.SizeBytes)
	}
}

func mustInsert(t *testing.T, store *Store, fp, payload string) string {
	t.Helper()
	path, err := store.Insert(context.Background(), fp, []byte(payload))
	if err != nil {
		t.Fatalf("Insert %q failed: %v", fp, err)
	}
	return path
}
