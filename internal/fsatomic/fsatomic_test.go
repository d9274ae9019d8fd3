package fsatomic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	if err := WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFile overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content mismatch: got %q, want %q", data, "second")
	}
}

func TestWriteFileCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	if err := WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	for i := 0; i < 5; i++ {
		if err := WriteFile(path, []byte("payload"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestWithLockRunsFunction(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	ran := false
	err := WithLock(context.Background(), lockPath, time.Second, func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock failed: %v", err)
	}
	if !ran {
		t.Error("guarded function did not run")
	}
}

func TestWithLockPropagatesError(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	sentinel := errors.New("boom")
	err := WithLock(context.Background(), lockPath, time.Second, func() error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestWithLockTimesOutWhenContended(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holderReady := make(chan struct{})
	holderDone := make(chan struct{})
	go func() {
		defer close(holderDone)
		err := WithLock(context.Background(), lockPath, time.Second, func() error {
			close(holderReady)
			time.Sleep(400 * time.Millisecond)
			return nil
		})
		if err != nil {
			t.Errorf("holder WithLock failed: %v", err)
		}
	}()

	<-holderReady
	err := WithLock(context.Background(), lockPath, 50*time.Millisecond, func() error {
		t.Error("second holder ran while lock was held")
		return nil
	})
	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}
	<-holderDone
}

func TestWithLockSerializesWriters(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	var inside int
	var maxInside int
	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			done <- WithLock(context.Background(), lockPath, 5*time.Second, func() error {
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				time.Sleep(20 * time.Millisecond)
				inside--
				return nil
			})
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Fatalf("WithLock failed: %v", err)
		}
	}
	if maxInside != 1 {
		t.Errorf("critical section overlapped: max concurrency %d", maxInside)
	}
}
