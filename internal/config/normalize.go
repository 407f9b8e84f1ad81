package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ForceSimulatedEnv forces the simulated backend when set to a truthy value.
// Intended for demos and tests on hosts without ffmpeg.
const ForceSimulatedEnv = "REEL_FORCE_SIMULATED"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeUI(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeUI() error {
	var err error
	if strings.TrimSpace(c.UI.StartDir) == "" {
		c.UI.StartDir = "."
	}
	if c.UI.StartDir, err = expandPath(c.UI.StartDir); err != nil {
		return fmt.Errorf("ui.start_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConversion() {
	c.Conversion.FFmpegBinary = strings.TrimSpace(c.Conversion.FFmpegBinary)
	if c.Conversion.FFmpegBinary == "" {
		c.Conversion.FFmpegBinary = defaultFFmpegBinary
	}
	c.Conversion.FFprobeBinary = strings.TrimSpace(c.Conversion.FFprobeBinary)
	if c.Conversion.FFprobeBinary == "" {
		c.Conversion.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Conversion.ProbeTimeoutMS <= 0 {
		c.Conversion.ProbeTimeoutMS = defaultProbeTimeoutMS
	}
	if c.Conversion.CancelGraceSeconds <= 0 {
		c.Conversion.CancelGraceSeconds = defaultCancelGraceSeconds
	}
	if c.Conversion.EventBuffer <= 0 {
		c.Conversion.EventBuffer = defaultEventBuffer
	}
	if !c.Conversion.ForceSimulated {
		c.Conversion.ForceSimulated = envForceSimulated()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func envForceSimulated() bool {
	value, ok := os.LookupEnv(ForceSimulatedEnv)
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}
	// Any other non-empty value counts as set.
	return true
}
