package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (BOXCAR_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", os.Getenv("BOXCAR_ENDPOINT"), &cfg.Endpoint)
	s.setString("topic", os.Getenv("BOXCAR_TOPIC"), &cfg.Topic)
	s.setString("tenant-id", os.Getenv("BOXCAR_TENANT_ID"), &cfg.TenantID)
	s.setString("document-id", os.Getenv("BOXCAR_DOCUMENT_ID"), &cfg.DocumentID)
	s.setString("log-level", os.Getenv("BOXCAR_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("max-message-bytes", os.Getenv("BOXCAR_MAX_MESSAGE_BYTES"), &cfg.MaxMessageBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-messages", os.Getenv("BOXCAR_MAX_BATCH_MESSAGES"), &cfg.MaxBatchMessages); err != nil {
		return err
	}

	return s.setDuration("flush-delay", os.Getenv("BOXCAR_FLUSH_DELAY"), &cfg.FlushDelay)
}
