package boxcar

import (
	"fmt"
	"time"

	"github.com/bft-labs/boxcar/internal/domain"
)

// Default configuration values.
const (
	// DefaultMaxMessageBytes mirrors the common broker-side record cap.
	DefaultMaxMessageBytes = 1 << 20 // 1MB

	// DefaultFlushDelay is the deferral window for coalescing submissions
	// into one flush cycle.
	DefaultFlushDelay = time.Millisecond
)

// Config holds the configuration for a boxcar producer.
// Use SetDefaults to fill optional fields, then Validate.
type Config struct {
	// Endpoint is the broker address (host:port).
	Endpoint string

	// Topic is the destination topic/stream for all produced records.
	Topic string

	// MaxMessageBytes is the broker's maximum record size. The effective
	// per-message limit is 75% of this value; the remainder is headroom
	// for the batching envelope added at serialization.
	MaxMessageBytes int

	// MaxBatchMessages caps the number of queued messages before an
	// immediate flush runs. 0 (the default) disables the ceiling; it is a
	// safety valve, not the common flush path.
	MaxBatchMessages int

	// FlushDelay is the coalescing deferral before a scheduled flush runs.
	FlushDelay time.Duration
}

// SetDefaults fills in default values for unset optional fields.
func (c *Config) SetDefaults() {
	if c.MaxMessageBytes == 0 {
		c.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if c.FlushDelay == 0 {
		c.FlushDelay = DefaultFlushDelay
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", domain.ErrInvalidConfig)
	}
	if c.Topic == "" {
		return fmt.Errorf("%w: topic is required", domain.ErrInvalidConfig)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("%w: max message bytes must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxBatchMessages < 0 {
		return fmt.Errorf("%w: max batch messages must not be negative", domain.ErrInvalidConfig)
	}
	if c.FlushDelay <= 0 {
		return fmt.Errorf("%w: flush delay must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
