package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be zero or positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic: %q is not an http(s) URL", topic)
	}
	return nil
}

func (c *Config) validatePolicy() error {
	if len(c.Policy.VideoCodecs) == 0 {
		return errors.New("policy.video_codecs must list at least one codec")
	}
	if len(c.Policy.AudioCodecs) == 0 {
		return errors.New("policy.audio_codecs must list at least one codec")
	}
	if len(c.Policy.SubtitleLanguages) == 0 {
		return errors.New("policy.subtitle_languages must list at least one language")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
