// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"deezer/deezer"
)

// Config holds everything the server and CLI need at startup.
type Config struct {
	// Catalog API
	BaseURL      string
	Timeout      time.Duration
	MaxLimit     int
	DefaultLimit int
	UserAgent    string

	// Logging
	LogLevel string
	LogPath  string
}

// Load reads an optional .env file, then the environment, and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		BaseURL:   getEnv("DEEZER_BASE_URL", deezer.DefaultBaseURL),
		UserAgent: getEnv("DEEZER_USER_AGENT", deezer.DefaultUserAgent),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPath:   getEnv("LOG_PATH", filepath.Join(os.TempDir(), "deezer-mcp", "server.log")),
	}

	// Report every malformed number at once rather than one per restart.
	var errs, err error
	cfg.Timeout, err = getEnvDuration("DEEZER_TIMEOUT", deezer.DefaultTimeout)
	errs = multierr.Append(errs, err)
	cfg.MaxLimit, err = getEnvInt("DEEZER_MAX_LIMIT", deezer.DefaultMaxLimit)
	errs = multierr.Append(errs, err)
	cfg.DefaultLimit, err = getEnvInt("DEEZER_DEFAULT_LIMIT", deezer.DefaultLimit)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, fmt.Errorf("invalid configuration: %w", errs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if _, err := deezer.ParseBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("DEEZER_BASE_URL: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("DEEZER_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.MaxLimit <= 0 {
		return fmt.Errorf("DEEZER_MAX_LIMIT must be positive, got %d", c.MaxLimit)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("DEEZER_DEFAULT_LIMIT must be positive, got %d", c.DefaultLimit)
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("DEEZER_DEFAULT_LIMIT (%d) exceeds DEEZER_MAX_LIMIT (%d)", c.DefaultLimit, c.MaxLimit)
	}
	return nil
}

// ClientOptions converts the catalog settings for deezer.NewClient.
func (c *Config) ClientOptions() deezer.Options {
	return deezer.Options{
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		UserAgent: c.UserAgent,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return intValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration such as 10s", key, value)
	}
	return duration, nil
}
