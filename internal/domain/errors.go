package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the boxcar domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrOversizedMessage is returned by Submit when a message meets or
	// exceeds the effective per-message size limit. No state is mutated.
	ErrOversizedMessage = errors.New("boxcar: message exceeds size limit")

	// ErrProducerClosed is returned when submitting to a closed producer,
	// and rejects boxcars that were queued but never flushed at close.
	ErrProducerClosed = errors.New("boxcar: producer closed")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("boxcar: already running")

	// ErrNotRunning is returned when Close() is called on a stopped instance.
	ErrNotRunning = errors.New("boxcar: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("boxcar: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("boxcar: invalid configuration")
)

// DeliveryError reports that the broker failed to durably accept a produced
// record. It rejects the boxcar's completion handle, failing every message
// batched into it.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("boxcar: delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
