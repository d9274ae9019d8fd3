package config

const (
	defaultStateDir            = "~/.local/share/voxhook"
	defaultVolume              = 0.6
	defaultPlaybackSpeed       = 1.0
	defaultLockTimeoutSeconds  = 30
	defaultCacheMaxEntries     = 500
	defaultHistoryMaxEntries   = 20
	defaultTTSEngine           = "piper"
	defaultPiperBinary         = "piper"
	defaultSampleRate          = 22050
	defaultNtfyRequestTimeout  = 10
	defaultNtfyTitle           = "Voxhook"
	defaultQuipBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultQuipModel           = "anthropic/claude-haiku-4.5"
	defaultQuipReferer         = "https://github.com/voxhook/voxhook"
	defaultQuipTitle           = "Voxhook Quip"
	defaultQuipTimeoutSeconds  = 20
	defaultQuipMaxWords        = 12
	defaultIdleCooldownSeconds = 300
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Audio: Audio{
			Enabled:            true,
			Volume:             defaultVolume,
			PlaybackSpeed:      defaultPlaybackSpeed,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Cache: Cache{
			MaxEntries: defaultCacheMaxEntries,
		},
		History: History{
			MaxEntries: defaultHistoryMaxEntries,
		},
		TTS: TTS{
			Engine:      defaultTTSEngine,
			PiperBinary: defaultPiperBinary,
			SampleRate:  defaultSampleRate,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Tags:           []string{"voxhook"},
			Title:          defaultNtfyTitle,
		},
		Quip: Quip{
			BaseURL:        defaultQuipBaseURL,
			Model:          defaultQuipModel,
			Referer:        defaultQuipReferer,
			Title:          defaultQuipTitle,
			TimeoutSeconds: defaultQuipTimeoutSeconds,
			MaxWords:       defaultQuipMaxWords,
		},
		Events: Events{
			IdleCooldownSeconds: defaultIdleCooldownSeconds,
			SuppressDelegate:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
