// Package player plays cached WAV clips through an external player binary.
//
// Playback always happens under the machine-wide playback lock so concurrent
// invocations never talk over each other. PlaySequence holds the lock across
// a whole run of clips (project name, then message) to keep another process
// from interleaving audio mid-announcement. A lock timeout means the clip is
// skipped, by policy: a late notification is noise, not information.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"voxhook/internal/logging"
	"voxhook/internal/playback"
)

// candidateBinaries are probed in order when no player is configured.
var candidateBinaries = []string{"afplay", "paplay", "aplay", "ffplay"}

// Player runs an external audio player serialized by the playback lock.
type Player struct {
	binary      string
	volume      float64
	speed       float64
	lockPath    string
	lockTimeout time.Duration
	logger      *slog.Logger

	// run is swapped in tests to avoid real audio output.
	run func(ctx context.Context, name string, args ...string) error
}

// Options configures a Player.
type Options struct {
	Binary      string
	Volume      float64
	Speed       float64
	LockPath    string
	LockTimeout time.Duration
}

// New builds a player. An empty Binary auto-detects a known player; an empty
// LockPath uses the machine-wide default.
func New(opts Options, logger *slog.Logger) *Player {
	binary := opts.Binary
	if binary == "" {
		binary = DetectBinary()
	}
	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = playback.DefaultLockPath()
	}
	lockTimeout := opts.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	volume := opts.Volume
	if volume <= 0 {
		volume = 0.6
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = 1.0
	}
	return &Player{
		binary:      binary,
		volume:      volume,
		speed:       speed,
		lockPath:    lockPath,
		lockTimeout: lockTimeout,
		logger:      logging.NewComponentLogger(logger, "player"),
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// DetectBinary returns the first known player on PATH, or empty.
func DetectBinary() string {
	for _, name := range candidateBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// Play plays a single WAV file under the playback lock.
func (p *Player) Play(ctx context.Context, wavPath string) error {
	return p.PlaySequence(ctx, wavPath)
}

// PlaySequence plays WAV files back to back, holding the playback lock for
// the entire sequence.
func (p *Player) PlaySequence(ctx context.Context, wavPaths ...string) error {
	if len(wavPaths) == 0 {
		return nil
	}
	if p.binary == "" {
		return fmt.Errorf("no audio player available")
	}

	guard, err := playback.Acquire(ctx, p.lockPath, p.lockTimeout)
	if err != nil {
		return fmt.Errorf("playback lock: %w", err)
	}
	defer guard.Release()

	for _, wavPath := range wavPaths {
		args := p.buildArgs(wavPath)
		p.logger.Debug("playing clip",
			logging.String("player", p.binary),
			logging.String("path", wavPath))
		if err := p.run(ctx, p.binary, args...); err != nil {
			return fmt.Errorf("play %q: %w", wavPath, err)
		}
	}
	return nil
}

// buildArgs maps the player's volume and speed settings onto whichever flags
// the binary supports.
func (p *Player) buildArgs(wavPath string) []string {
	switch p.binary {
	case "afplay":
		args := []string{"-v", formatFloat(p.volume)}
		if p.speed != 1.0 {
			args = append(args, "-r", formatFloat(p.speed))
		}
		return append(args, wavPath)
	case "paplay":
		// paplay volume is 0..65536.
		return []string{"--volume", strconv.Itoa(int(p.volume * 65536)), wavPath}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", wavPath}
	case "aplay":
		return []string{"-q", wavPath}
	default: // user-supplied binary: pass the file and nothing else
		return []string{wavPath}
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
