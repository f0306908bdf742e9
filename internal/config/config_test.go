package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Error(t, cfg.Validate(), "no definition")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FRAGEBOGEN_DEFINITION", "study.yaml")
	t.Setenv("FRAGEBOGEN_LOG", "/tmp/fragebogen.log")
	t.Setenv("FRAGEBOGEN_LOG_LEVEL", "debug")
	t.Setenv("FRAGEBOGEN_SETTLE_DELAY", "500")
	t.Setenv("FRAGEBOGEN_OUTPUT_DIR", "/data")
	t.Setenv("FRAGEBOGEN_HTTP_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "study.yaml", cfg.Definition)
	assert.Equal(t, "/tmp/fragebogen.log", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, "/data", cfg.OutputDir)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnvIgnoresMalformedDurations(t *testing.T) {
	t.Setenv("FRAGEBOGEN_SETTLE_DELAY", "soon")
	assert.Equal(t, 2*time.Second, ConfigFromEnv().SettleDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"zero settle delay", func(c *Config) { c.SettleDelay = 0 }, true},
		{"negative settle delay", func(c *Config) { c.SettleDelay = -time.Second }, false},
		{"no http timeout", func(c *Config) { c.HTTPTimeout = 0 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Definition = "q.yaml"
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
