package player

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"voxhook/internal/playback"
)

func newTestPlayer(t *testing.T, binary string) (*Player, *[][]string) {
	t.Helper()
	var invocations [][]string
	p := New(Options{
		Binary:      binary,
		Volume:      0.6,
		Speed:       1.0,
		LockPath:    filepath.Join(t.TempDir(), "audio.lock"),
		LockTimeout: time.Second,
	}, nil)
	p.run = func(_ context.Context, name string, args ...string) error {
		invocations = append(invocations, append([]string{name}, args...))
		return nil
	}
	return p, &invocations
}

func TestPlayInvokesPlayerOnce(t *testing.T) {
	p, invocations := newTestPlayer(t, "afplay")

	if err := p.Play(context.Background(), "/tmp/clip.wav"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(*invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(*invocations))
	}
}

func TestPlaySequenceKeepsOrder(t *testing.T) {
	p, invocations := newTestPlayer(t, "afplay")

	if err := p.PlaySequence(context.Background(), "/tmp/project.wav", "/tmp/message.wav"); err != nil {
		t.Fatalf("PlaySequence failed: %v", err)
	}
	if len(*invocations) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(*invocations))
	}
	first := (*invocations)[0]
	second := (*invocations)[1]
	if first[len(first)-1] != "/tmp/project.wav" || second[len(second)-1] != "/tmp/message.wav" {
		t.Errorf("sequence order wrong: %v then %v", first, second)
	}
}

func TestPlaySkipsWhenLockHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "audio.lock")
	p := New(Options{
		Binary:      "afplay",
		LockPath:    lockPath,
		LockTimeout: 50 * time.Millisecond,
	}, nil)
	p.run = func(context.Context, string, ...string) error {
		t.Error("player ran without the lock")
		return nil
	}

	guard, err := playback.Acquire(context.Background(), lockPath, time.Second)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer guard.Release()

	err = p.Play(context.Background(), "/tmp/clip.wav")
	if !errors.Is(err, playback.ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}
}

func TestBuildArgsPerBinary(t *testing.T) {
	cases := []struct {
		binary string
		speed  float64
		want   []string
	}{
		{"afplay", 1.0, []string{"-v", "0.6", "/c.wav"}},
		{"afplay", 1.5, []string{"-v", "0.6", "-r", "1.5", "/c.wav"}},
		{"paplay", 1.0, []string{"--volume", "39321", "/c.wav"}},
		{"aplay", 1.0, []string{"-q", "/c.wav"}},
		{"ffplay", 1.0, []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "/c.wav"}},
		{"mycustomplayer", 1.0, []string{"/c.wav"}},
	}
	for _, tc := range cases {
		p := New(Options{Binary: tc.binary, Volume: 0.6, Speed: tc.speed}, nil)
		got := p.buildArgs("/c.wav")
		if len(got) != len(tc.want) {
			t.Errorf("%s: args %v, want %v", tc.binary, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: args %v, want %v", tc.binary, got, tc.want)
				break
			}
		}
	}
}

func TestPlayWithoutBinaryErrors(t *testing.T) {
	p := New(Options{Binary: "definitely-not-a-player-on-path"}, nil)
	p.binary = ""

	if err := p.Play(context.Background(), "/tmp/clip.wav"); err == nil {
		t.Error("expected an error with no player binary")
	}
}

func TestPlaySequenceWithNoPathsIsNoop(t *testing.T) {
	p, invocations := newTestPlayer(t, "afplay")
	if err := p.PlaySequence(context.Background()); err != nil {
		t.Fatalf("empty PlaySequence failed: %v", err)
	}
	if len(*invocations) != 0 {
		t.Error("empty sequence invoked the player")
	}
}
