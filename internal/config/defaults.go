package config

const (
	defaultStateDir       = "~/.local/share/mediasweep"
	defaultConfigPath     = "~/.config/mediasweep/config.toml"
	defaultProjectConfig  = "mediasweep.toml"
	defaultFFprobeBinary  = "ffprobe"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultHistoryEnabled = true
	defaultNtfyTimeout    = 10
)

var (
	defaultVideoCodecs       = []string{"h264"}
	defaultAudioCodecs       = []string{"aac"}
	defaultSubtitleLanguages = []string{"fra", "fre", "eng", "und"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		FFprobe: FFprobe{
			Binary: defaultFFprobeBinary,
		},
		Policy: Policy{
			VideoCodecs:       cloneStrings(defaultVideoCodecs),
			AudioCodecs:       cloneStrings(defaultAudioCodecs),
			SubtitleLanguages: cloneStrings(defaultSubtitleLanguages),
		},
		Inventory: Inventory{
			Enabled: defaultHistoryEnabled,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
