package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Endpoint         string `toml:"endpoint"`
	Topic            string `toml:"topic"`
	TenantID         string `toml:"tenant_id"`
	DocumentID       string `toml:"document_id"`
	MaxMessageBytes  int    `toml:"max_message_bytes"`
	MaxBatchMessages int    `toml:"max_batch_messages"`
	FlushDelay       string `toml:"flush_delay"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.boxcar/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".boxcar", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("topic", fc.Topic, &cfg.Topic)
	s.setString("tenant-id", fc.TenantID, &cfg.TenantID)
	s.setString("document-id", fc.DocumentID, &cfg.DocumentID)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("max-message-bytes", fc.MaxMessageBytes, &cfg.MaxMessageBytes)
	s.setInt("max-batch-messages", fc.MaxBatchMessages, &cfg.MaxBatchMessages)

	return s.setDuration("flush-delay", fc.FlushDelay, &cfg.FlushDelay)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
