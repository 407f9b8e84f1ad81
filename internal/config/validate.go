package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.HistoryDB == "" {
		return errors.New("paths.history_db must be set")
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.FFmpegBinary == "" {
		return errors.New("conversion.ffmpeg_binary must be set")
	}
	if c.Conversion.FFprobeBinary == "" {
		return errors.New("conversion.ffprobe_binary must be set")
	}
	return ensurePositiveMap(map[string]int{
		"conversion.probe_timeout_ms":     c.Conversion.ProbeTimeoutMS,
		"conversion.cancel_grace_seconds": c.Conversion.CancelGraceSeconds,
		"conversion.event_buffer":         c.Conversion.EventBuffer,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
