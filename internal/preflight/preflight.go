// Package preflight runs environment health checks for the doctor command.
package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"voxhook/internal/config"
	"voxhook/internal/player"
	"voxhook/internal/synth"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckFreeSpace("Cache disk space", cfg.Paths.CacheDir),
	}

	if cfg.Audio.Enabled {
		results = append(results, CheckPlayer(cfg.Audio.Player))
	}
	if cfg.TTS.Engine == "piper" {
		results = append(results, CheckPiper(cfg))
	}
	if cfg.Quip.Enabled {
		results = append(results, CheckQuip(ctx, cfg))
	}
	results = append(results, CheckNtfy(cfg))

	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// minFreeBytes below which the cache disk check fails. Audio artifacts are
// small, so 50 MiB of headroom is plenty.
const minFreeBytes = 50 << 20

// CheckFreeSpace verifies the filesystem holding path has headroom for new
// artifacts.
func CheckFreeSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("low disk space: %d MiB free", free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free>>20)}
}

// CheckPlayer verifies an audio player binary is available.
func CheckPlayer(configured string) Result {
	const name = "Audio player"
	binary := strings.TrimSpace(configured)
	if binary == "" {
		binary = player.DetectBinary()
	}
	if binary == "" {
		return Result{Name: name, Detail: "no player binary found (afplay/paplay/aplay/ffplay)"}
	}
	return Result{Name: name, Passed: true, Detail: binary}
}

// CheckPiper verifies the piper binary and voice model are present.
func CheckPiper(cfg *config.Config) Result {
	const name = "Piper TTS"
	engine := synth.NewPiperEngine(cfg.TTS.PiperBinary, cfg.TTS.PiperModel, cfg.TTS.SampleRate, nil)
	if !engine.Available() {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", cfg.TTS.PiperBinary)}
	}
	model := strings.TrimSpace(cfg.TTS.PiperModel)
	if model == "" {
		return Result{Name: name, Detail: "model path not configured"}
	}
	if _, err := os.Stat(model); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("model %s (error: %v)", model, err)}
	}
	return Result{Name: name, Passed: true, Detail: model}
}

// CheckQuip verifies the commentary model endpoint is configured. It does not
// issue a live request so doctor stays fast and free.
func CheckQuip(_ context.Context, cfg *config.Config) Result {
	const name = "Quip LLM"
	if strings.TrimSpace(cfg.Quip.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	if strings.TrimSpace(cfg.Quip.Model) == "" {
		return Result{Name: name, Detail: "model missing"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Quip.Model}
}

// CheckNtfy reports whether push notifications are configured.
func CheckNtfy(cfg *config.Config) Result {
	const name = "ntfy"
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Detail: "no topic configured (notifications disabled)"}
	}
	return Result{Name: name, Passed: true, Detail: topic}
}
