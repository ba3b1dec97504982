package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "shell.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
map: gpio
connect: 10.0.0.2:7483
psk: secret
radix: bin
timeout: 2s
`), 0o644))

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(file, &cfg))
	assert.Equal(t, "gpio", cfg.Map)
	assert.Equal(t, "10.0.0.2:7483", cfg.Connect)
	assert.Equal(t, "secret", cfg.PSK)
	assert.Equal(t, "bin", cfg.Radix)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, validateConfig(&cfg))
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("map: [uart"), 0o644))
	assert.Error(t, loadConfigFile(file, &cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown map", func(c *Config) { c.Map = "spi" }, "unknown map"},
		{"connect and discover", func(c *Config) { c.Connect = "x:1"; c.Discover = true }, "mutually exclusive"},
		{"radix", func(c *Config) { c.Radix = "oct" }, "unknown radix"},
		{"timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			err := validateConfig(&cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
