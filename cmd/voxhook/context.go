package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"voxhook/internal/audiocache"
	"voxhook/internal/config"
	"voxhook/internal/history"
	"voxhook/internal/logging"
	"voxhook/internal/player"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue lazily builds the shared logger. Handler subprocesses must not
// write to stdout, so everything flows to stderr and the log file.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) cacheStore() (*audiocache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return audiocache.NewStore(cfg.Paths.CacheDir, cfg.Cache.MaxEntries, c.loggerValue()), nil
}

func (c *commandContext) historyLog() (*history.Log, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.NewLog(cfg.HistoryPath(), cfg.History.MaxEntries, c.loggerValue()), nil
}

func (c *commandContext) audioPlayer() (*player.Player, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return player.New(player.Options{
		Binary:      cfg.Audio.Player,
		Volume:      cfg.Audio.Volume,
		Speed:       cfg.Audio.PlaybackSpeed,
		LockPath:    cfg.Audio.LockPath,
		LockTimeout: time.Duration(cfg.Audio.LockTimeoutSeconds) * time.Second,
	}, c.loggerValue()), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
