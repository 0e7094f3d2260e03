package boxcar

import (
	"github.com/bft-labs/boxcar/internal/domain"
	"github.com/bft-labs/boxcar/internal/ports"
	"github.com/bft-labs/boxcar/pkg/log"
)

// Logger is the structured logging interface consumed by the producer.
// See pkg/log for adapters.
type Logger = log.Logger

// Ack is the completion handle returned by Submit. It is shared by every
// message batched into the same boxcar and settles exactly once.
type Ack = domain.Ack

// Broker is the producer-side broker client contract. The default
// implementation speaks Kafka; inject a custom one with WithBroker.
type Broker = ports.Broker

// Option configures optional behavior of a Producer.
type Option func(*options)

// options holds the optional configuration for a Producer instance.
type options struct {
	logger       ports.Logger
	broker       ports.Broker
	eventHandler EventHandler
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBroker sets a custom broker client, replacing the default Kafka
// implementation. Useful for testing and for alternative brokers.
func WithBroker(broker Broker) Option {
	return func(o *options) {
		o.broker = broker
	}
}

// WithEventHandler sets a handler for producer events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
