package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	c.normalizeBounds()
	if err := c.normalizeTTS(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeQuip()
	if err := c.normalizeEvents(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = filepath.Join(c.Paths.StateDir, "cache")
	} else if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	} else if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() error {
	c.Audio.Player = strings.TrimSpace(c.Audio.Player)
	if c.Audio.Volume <= 0 {
		c.Audio.Volume = defaultVolume
	}
	if c.Audio.PlaybackSpeed <= 0 {
		c.Audio.PlaybackSpeed = defaultPlaybackSpeed
	}
	if c.Audio.LockTimeoutSeconds <= 0 {
		c.Audio.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
	// The playback lock guards a machine-wide resource, so it defaults to a
	// path shared by every invocation regardless of state_dir.
	if strings.TrimSpace(c.Audio.LockPath) == "" {
		c.Audio.LockPath = filepath.Join(os.TempDir(), "voxhook-audio.lock")
		return nil
	}
	expanded, err := expandPath(c.Audio.LockPath)
	if err != nil {
		return fmt.Errorf("audio.lock_path: %w", err)
	}
	c.Audio.LockPath = expanded
	return nil
}

func (c *Config) normalizeBounds() {
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = defaultCacheMaxEntries
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = defaultHistoryMaxEntries
	}
}

func (c *Config) normalizeTTS() error {
	c.TTS.Engine = strings.ToLower(strings.TrimSpace(c.TTS.Engine))
	if c.TTS.Engine == "" {
		c.TTS.Engine = defaultTTSEngine
	}
	c.TTS.PiperBinary = strings.TrimSpace(c.TTS.PiperBinary)
	if c.TTS.PiperBinary == "" {
		c.TTS.PiperBinary = defaultPiperBinary
	}
	c.TTS.PiperModel = strings.TrimSpace(c.TTS.PiperModel)
	if c.TTS.PiperModel != "" {
		expanded, err := expandPath(c.TTS.PiperModel)
		if err != nil {
			return fmt.Errorf("tts.piper_model: %w", err)
		}
		c.TTS.PiperModel = expanded
	}
	if c.TTS.SampleRate <= 0 {
		c.TTS.SampleRate = defaultSampleRate
	}
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("VOXHOOK_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
	if strings.TrimSpace(c.Notifications.Title) == "" {
		c.Notifications.Title = defaultNtfyTitle
	}
	if len(c.Notifications.Tags) == 0 {
		c.Notifications.Tags = []string{"voxhook"}
	}
}

func (c *Config) normalizeQuip() {
	c.Quip.APIKey = strings.TrimSpace(c.Quip.APIKey)
	if c.Quip.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Quip.APIKey = strings.TrimSpace(value)
		}
	}
	c.Quip.BaseURL = strings.TrimSpace(c.Quip.BaseURL)
	if c.Quip.BaseURL == "" {
		c.Quip.BaseURL = defaultQuipBaseURL
	}
	c.Quip.Model = strings.TrimSpace(c.Quip.Model)
	if c.Quip.Model == "" {
		c.Quip.Model = defaultQuipModel
	}
	c.Quip.Referer = strings.TrimSpace(c.Quip.Referer)
	if c.Quip.Referer == "" {
		c.Quip.Referer = defaultQuipReferer
	}
	c.Quip.Title = strings.TrimSpace(c.Quip.Title)
	if c.Quip.Title == "" {
		c.Quip.Title = defaultQuipTitle
	}
	if c.Quip.TimeoutSeconds <= 0 {
		c.Quip.TimeoutSeconds = defaultQuipTimeoutSeconds
	}
	if c.Quip.MaxWords <= 0 {
		c.Quip.MaxWords = defaultQuipMaxWords
	}
}

func (c *Config) normalizeEvents() error {
	if c.Events.IdleCooldownSeconds < 0 {
		c.Events.IdleCooldownSeconds = defaultIdleCooldownSeconds
	}
	c.Events.TemplatesPath = strings.TrimSpace(c.Events.TemplatesPath)
	if c.Events.TemplatesPath != "" {
		expanded, err := expandPath(c.Events.TemplatesPath)
		if err != nil {
			return fmt.Errorf("events.templates_path: %w", err)
		}
		c.Events.TemplatesPath = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
