package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"DEEZER_BASE_URL",
	"DEEZER_TIMEOUT",
	"DEEZER_MAX_LIMIT",
	"DEEZER_DEFAULT_LIMIT",
	"DEEZER_USER_AGENT",
	"LOG_LEVEL",
	"LOG_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.deezer.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 25, cfg.MaxLimit)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.LogPath)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEEZER_BASE_URL", "http://localhost:9000/deezer")
	t.Setenv("DEEZER_TIMEOUT", "2s")
	t.Setenv("DEEZER_MAX_LIMIT", "100")
	t.Setenv("DEEZER_DEFAULT_LIMIT", "20")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PATH", "/tmp/deezer-test.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/deezer", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.MaxLimit)
	assert.Equal(t, 20, cfg.DefaultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/deezer-test.log", cfg.LogPath)

	opts := cfg.ClientOptions()
	assert.Equal(t, cfg.BaseURL, opts.BaseURL)
	assert.Equal(t, cfg.Timeout, opts.Timeout)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{"timeout", map[string]string{"DEEZER_TIMEOUT": "soon"}, []string{"DEEZER_TIMEOUT"}},
		{"max limit", map[string]string{"DEEZER_MAX_LIMIT": "abc"}, []string{"DEEZER_MAX_LIMIT"}},
		{"default limit", map[string]string{"DEEZER_DEFAULT_LIMIT": "2.5"}, []string{"DEEZER_DEFAULT_LIMIT"}},
		{"all reported together", map[string]string{
			"DEEZER_TIMEOUT":   "10",
			"DEEZER_MAX_LIMIT": "lots",
		}, []string{"DEEZER_TIMEOUT", "DEEZER_MAX_LIMIT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			for _, key := range tt.want {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEEZER_BASE_URL", "api.deezer.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEZER_BASE_URL")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		BaseURL:      "https://api.deezer.com",
		Timeout:      5 * time.Second,
		MaxLimit:     25,
		DefaultLimit: 10,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"unparseable base URL", func(c *Config) { c.BaseURL = "http://[::1" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"zero max limit", func(c *Config) { c.MaxLimit = 0 }, true},
		{"negative default limit", func(c *Config) { c.DefaultLimit = -5 }, true},
		{"default above max", func(c *Config) { c.DefaultLimit = 30 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
