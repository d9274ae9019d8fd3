package preflight

import (
	"context"
	"path/filepath"
	"testing"

	"voxhook/internal/config"
	"voxhook/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteFile(t, f, 1)
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace_OK(t *testing.T) {
	result := CheckFreeSpace("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass on temp filesystem, got: %s", result.Detail)
	}
}

func TestCheckQuip_MissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.Quip.APIKey = ""
	result := CheckQuip(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure without api key")
	}
}

func TestCheckQuip_OK(t *testing.T) {
	cfg := config.Default()
	cfg.Quip.APIKey = "key"
	cfg.Quip.Model = "demo-model"
	result := CheckQuip(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	if CheckNtfy(&cfg).Passed {
		t.Fatal("expected failure without topic")
	}
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/voxhook-demo"
	if result := CheckNtfy(&cfg); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckPiper_MissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.TTS.PiperBinary = "true"
	cfg.TTS.PiperModel = filepath.Join(t.TempDir(), "missing.onnx")
	result := CheckPiper(&cfg)
	if result.Passed {
		t.Fatal("expected failure for missing model file")
	}
}

func TestRunAllIncludesBaseChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Audio.Enabled = false
	cfg.TTS.Engine = "none"

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results (dirs, space, ntfy), got %d", len(results))
	}
	for _, result := range results[:3] {
		if !result.Passed {
			t.Fatalf("%s failed: %s", result.Name, result.Detail)
		}
	}
}
