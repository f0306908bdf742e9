// Package config holds the runtime settings of the questionnaire runner.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runner configuration.
type Config struct {
	// Definition is the path of the questionnaire definition.
	Definition string

	// LogFile receives diagnostics while the terminal UI runs. Empty
	// disables logging.
	LogFile  string
	LogLevel string // Default: "info"

	// SettleDelay is the pause between preloading and the first screen.
	// Default: 2s.
	SettleDelay time.Duration

	// Placeholder is shown while resources preload.
	Placeholder string

	// OutputDir is where download screens write relative paths.
	// Default: current directory.
	OutputDir string

	// HTTPTimeout bounds media fetches. Default: 30s.
	HTTPTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		SettleDelay: 2 * time.Second,
		Placeholder: "Loading...",
		OutputDir:   ".",
		HTTPTimeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or malformed values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("FRAGEBOGEN_DEFINITION"); p != "" {
		cfg.Definition = p
	}
	if p := os.Getenv("FRAGEBOGEN_LOG"); p != "" {
		cfg.LogFile = p
	}
	if l := os.Getenv("FRAGEBOGEN_LOG_LEVEL"); l != "" {
		cfg.LogLevel = l
	}
	if d, ok := durationEnv("FRAGEBOGEN_SETTLE_DELAY"); ok {
		cfg.SettleDelay = d
	}
	if p := os.Getenv("FRAGEBOGEN_PLACEHOLDER"); p != "" {
		cfg.Placeholder = p
	}
	if d := os.Getenv("FRAGEBOGEN_OUTPUT_DIR"); d != "" {
		cfg.OutputDir = d
	}
	if d, ok := durationEnv("FRAGEBOGEN_HTTP_TIMEOUT"); ok {
		cfg.HTTPTimeout = d
	}

	return cfg
}

// durationEnv accepts Go durations and plain milliseconds.
func durationEnv(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, true
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}

// Validate checks the settings a run needs.
func (c Config) Validate() error {
	if c.Definition == "" {
		return fmt.Errorf("a definition is required (argument or FRAGEBOGEN_DEFINITION)")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got %s", c.SettleDelay)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}
