package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Audio contains playback configuration.
type Audio struct {
	Enabled            bool    `toml:"enabled"`
	Player             string  `toml:"player"`
	Volume             float64 `toml:"volume"`
	PlaybackSpeed      float64 `toml:"playback_speed"`
	LockPath           string  `toml:"lock_path"`
	LockTimeoutSeconds int     `toml:"lock_timeout_seconds"`
}

// Cache contains configuration for the audio artifact cache.
type Cache struct {
	MaxEntries int `toml:"max_entries"`
}

// History contains configuration for the spoken-commentary history log.
type History struct {
	MaxEntries int `toml:"max_entries"`
}

// TTS contains configuration for the speech generator.
type TTS struct {
	Engine      string `toml:"engine"`
	PiperBinary string `toml:"piper_binary"`
	PiperModel  string `toml:"piper_model"`
	SampleRate  int    `toml:"sample_rate"`
	Voice       string `toml:"voice"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string   `toml:"ntfy_topic"`
	RequestTimeout int      `toml:"request_timeout"`
	Priority       string   `toml:"priority"`
	Tags           []string `toml:"tags"`
	Title          string   `toml:"title"`
}

// Quip contains configuration for dynamic commentary generation.
type Quip struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxWords       int    `toml:"max_words"`
}

// Events contains per-event handling policy.
type Events struct {
	IdleCooldownSeconds int    `toml:"idle_cooldown_seconds"`
	SuppressDelegate    bool   `toml:"suppress_delegate"`
	TemplatesPath       string `toml:"templates_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for voxhook.
//
// Configuration sections by subsystem:
//   - Paths: state, cache, and log directories
//   - Audio: player binary, volume, and the playback lock
//   - Cache: artifact cache capacity
//   - History: commentary history bound
//   - TTS: speech generator settings
//   - Notifications: ntfy push settings
//   - Quip: dynamic commentary LLM settings
//   - Events: cooldowns, suppression, template overrides
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Audio         Audio         `toml:"audio"`
	Cache         Cache         `toml:"cache"`
	History       History       `toml:"history"`
	TTS           TTS           `toml:"tts"`
	Notifications Notifications `toml:"notifications"`
	Quip          Quip          `toml:"quip"`
	Events        Events        `toml:"events"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/voxhook/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path and the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories voxhook writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MutePath returns the file whose presence silences all output.
func (c *Config) MutePath() string {
	return filepath.Join(c.Paths.StateDir, ".muted")
}

// HistoryPath returns the path of the commentary history log.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.json")
}

// CooldownPath returns the idle-notification cooldown marker path.
func (c *Config) CooldownPath() string {
	return filepath.Join(c.Paths.StateDir, ".idle_cooldown")
}

// LogFilePath returns the log file location, or empty when no log dir is set.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "voxhook.log")
}

// SampleConfig returns the annotated sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
