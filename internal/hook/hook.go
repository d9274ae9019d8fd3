// Package hook orchestrates the response to a single lifecycle event:
// suppression checks, message selection, cached playback, background
// generation, and push notification.
//
// Nothing here returns a fatal error to the caller. The handler runs inside
// an event pipeline that treats a non-zero exit as a failure, so every
// problem is logged and swallowed.
package hook

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"voxhook/internal/audiocache"
	"voxhook/internal/config"
	"voxhook/internal/cooldown"
	"voxhook/internal/fingerprint"
	"voxhook/internal/hookevent"
	"voxhook/internal/logging"
	"voxhook/internal/messages"
	"voxhook/internal/notify"
)

// suppressFileName placed in a project working directory silences events
// for that project only.
const suppressFileName = ".voxhook-suppress"

// AudioPlayer is the playback surface the handler needs.
type AudioPlayer interface {
	Play(ctx context.Context, wavPath string) error
	PlaySequence(ctx context.Context, wavPaths ...string) error
}

// SpawnFunc launches a detached background process with the given stdin and
// arguments. The default implementation re-executes the current binary.
type SpawnFunc func(stdin []byte, args ...string) error

// Handler responds to one decoded hook payload.
type Handler struct {
	cfg      *config.Config
	store    *audiocache.Store
	catalog  *messages.Catalog
	player   AudioPlayer
	notifier notify.Service
	idleGate *cooldown.Gate
	logger   *slog.Logger
	spawn    SpawnFunc
}

// New wires a handler from configuration. The player, notifier, and spawn
// function are injectable so tests can observe behavior without audio
// hardware or network.
func New(cfg *config.Config, store *audiocache.Store, catalog *messages.Catalog, player AudioPlayer, notifier notify.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	window := time.Duration(cfg.Events.IdleCooldownSeconds) * time.Second
	return &Handler{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		player:   player,
		notifier: notifier,
		idleGate: cooldown.NewGate(cfg.CooldownPath(), window),
		logger:   logger,
		spawn:    spawnDetached,
	}
}

// SetSpawn overrides how background processes are launched.
func (h *Handler) SetSpawn(fn SpawnFunc) {
	if fn != nil {
		h.spawn = fn
	}
}

// Handle processes one event payload end to end.
func (h *Handler) Handle(ctx context.Context, payload hookevent.Payload) {
	if h.muted() {
		h.logger.Debug("muted, skipping event", logging.String("event", string(payload.Kind())))
		return
	}
	if h.projectSuppressed(payload.CWD) {
		h.logger.Debug("project suppressed, skipping event", logging.String("cwd", payload.CWD))
		return
	}
	if h.cfg.Events.SuppressDelegate && payload.IsDelegate() {
		h.logger.Debug("delegate session, skipping event")
		return
	}

	kind := payload.Kind()
	notif, isIdle := hookevent.NotifGeneral, false
	if kind == hookevent.KindNotification {
		notif, isIdle = payload.Notification()
		if isIdle {
			if h.idleGate.Active() {
				h.logger.Debug("idle notification on cooldown, skipping")
				return
			}
			if err := h.idleGate.Mark(); err != nil {
				h.logger.Warn("mark idle cooldown", logging.Error(err))
			}
		}
	}

	project := payload.ProjectName()
	text := h.catalog.Pick(kind, notif)

	if h.cfg.Audio.Enabled {
		if h.cfg.Quip.Enabled {
			h.spawnQuip(payload, notif)
		} else {
			h.speak(ctx, project, text)
		}
	}

	if err := h.notifier.NotifyEvent(ctx, project, text); err != nil {
		h.logger.Warn("send push notification", logging.Error(err))
	}
}

// speak plays the cached audio for text, prefixed by the project-name clip
// when one exists, and warms the cache in the background for any miss.
func (h *Handler) speak(ctx context.Context, project, text string) {
	voice := h.cfg.TTS.Voice
	msgPath, msgHit, err := h.store.Lookup(ctx, fingerprint.WithVoice(text, voice))
	if err != nil {
		h.logger.Warn("cache lookup", logging.Error(err))
	}

	var projPath string
	var projHit bool
	if project != "" {
		projPath, projHit, err = h.store.Lookup(ctx, fingerprint.Project(project))
		if err != nil {
			h.logger.Warn("project cache lookup", logging.Error(err))
		}
	}

	switch {
	case projHit && msgHit:
		h.play(ctx, projPath, msgPath)
	case projHit:
		h.play(ctx, projPath)
		h.spawnGenerate("--text", text)
	case msgHit:
		h.play(ctx, msgPath)
		if project != "" {
			h.spawnGenerate("--project", project)
		}
	default:
		if fallback, ok := h.store.AnyArtifact(); ok {
			h.play(ctx, fallback)
		}
		h.spawnGenerate("--text", text)
		if project != "" {
			h.spawnGenerate("--project", project)
		}
	}
}

func (h *Handler) play(ctx context.Context, paths ...string) {
	if err := h.player.PlaySequence(ctx, paths...); err != nil {
		h.logger.Warn("playback", logging.Error(err))
	}
}

// spawnQuip hands the raw payload to a detached quip process, which owns
// generation, synthesis, playback, and the history append. The cached
// template phrase is skipped so the two do not double-play.
func (h *Handler) spawnQuip(payload hookevent.Payload, notif hookevent.NotificationType) {
	if payload.Kind() == hookevent.KindNotification {
		payload.NotificationType = string(notif)
	}
	encoded, err := payload.Encode()
	if err != nil {
		h.logger.Warn("encode quip payload", logging.Error(err))
		return
	}
	if err := h.spawn(encoded, "quip"); err != nil {
		h.logger.Warn("spawn quip", logging.Error(err))
	}
}

func (h *Handler) spawnGenerate(flag, value string) {
	if err := h.spawn(nil, "generate", flag, value); err != nil {
		h.logger.Warn("spawn generate", logging.Error(err))
	}
}

func (h *Handler) muted() bool {
	_, err := os.Stat(h.cfg.MutePath())
	return err == nil
}

func (h *Handler) projectSuppressed(cwd string) bool {
	if cwd == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(cwd, suppressFileName))
	return err == nil
}

// spawnDetached re-executes the current binary with args, feeds stdin, and
// releases the process so it outlives this one.
func spawnDetached(stdin []byte, args ...string) error {
	self, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(self, args...)
	if len(stdin) > 0 {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
