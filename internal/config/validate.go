package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateQuip(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Volume > 2.0 {
		return errors.New("audio.volume must be at most 2.0")
	}
	if c.Audio.PlaybackSpeed < 0.25 || c.Audio.PlaybackSpeed > 4.0 {
		return errors.New("audio.playback_speed must be between 0.25 and 4.0")
	}
	return nil
}

func (c *Config) validateTTS() error {
	switch c.TTS.Engine {
	case "piper", "none":
		return nil
	default:
		return fmt.Errorf("tts.engine: unsupported engine %q (expected \"piper\" or \"none\")", c.TTS.Engine)
	}
}

func (c *Config) validateQuip() error {
	if !c.Quip.Enabled {
		return nil
	}
	if c.Quip.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/voxhook/config.toml"
		}
		return fmt.Errorf("quip.api_key is required when quip.enabled is true. Set OPENROUTER_API_KEY or edit %s (create with 'voxhook config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Quip.BaseURL, "http://") && !strings.HasPrefix(c.Quip.BaseURL, "https://") {
		return fmt.Errorf("quip.base_url must be an http(s) URL, got %q", c.Quip.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
