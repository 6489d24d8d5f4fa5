package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFprobe()
	c.normalizePolicy()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFprobe() {
	if value, ok := os.LookupEnv("MEDIASWEEP_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFprobe.Binary = value
	}
	c.FFprobe.Binary = strings.TrimSpace(c.FFprobe.Binary)
	if c.FFprobe.Binary == "" {
		c.FFprobe.Binary = defaultFFprobeBinary
	}
}

// Policy values are compared verbatim against ffprobe output, so only blanks
// and duplicates are dropped; case is preserved.
func (c *Config) normalizePolicy() {
	c.Policy.VideoCodecs = normalizeList(c.Policy.VideoCodecs)
	c.Policy.AudioCodecs = normalizeList(c.Policy.AudioCodecs)
	c.Policy.SubtitleLanguages = normalizeList(c.Policy.SubtitleLanguages)
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

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
