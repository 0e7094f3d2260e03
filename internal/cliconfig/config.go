// Package cliconfig layers CLI configuration from defaults, a TOML file,
// BOXCAR_* environment variables, and command-line flags, in increasing
// order of precedence.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for boxcar.
type Config struct {
	Endpoint string
	Topic    string

	TenantID   string
	DocumentID string

	MaxMessageBytes  int
	MaxBatchMessages int
	FlushDelay       time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Endpoint:        "localhost:9092",
		MaxMessageBytes: 1 << 20, // 1MB
		FlushDelay:      time.Millisecond,
		LogLevel:        "info",
		TenantID:        os.Getenv("BOXCAR_TENANT_ID"),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.TenantID == "" {
		return fmt.Errorf("tenant-id is required")
	}
	if c.DocumentID == "" {
		return fmt.Errorf("document-id is required")
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max message bytes must be positive")
	}
	if c.FlushDelay <= 0 {
		return fmt.Errorf("flush delay must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	return nil
}

// Logger returns the CLI console logger at the configured level.
func (c *Config) Logger() zerolog.Logger {
	level, _ := zerolog.ParseLevel(c.LogLevel)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
