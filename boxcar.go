// Package boxcar provides a batching producer for partitioned log brokers.
//
// Example usage:
//
//	cfg := boxcar.Config{
//	    Endpoint: "localhost:9092",
//	    Topic:    "documents",
//	}
//	producer, err := boxcar.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := producer.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	ack, err := producer.Submit(payload, tenantID, documentID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ack.Wait(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	producer.Close()
//
// See pkg/boxcar for the full API, including event handlers and dependency
// injection options.
package boxcar

import (
	producer "github.com/bft-labs/boxcar/pkg/boxcar"
)

// Config holds the configuration for a boxcar producer.
// Set Endpoint and Topic; SetDefaults fills the rest.
type Config = producer.Config

// Producer is the batching producer. Use New() to create an instance.
type Producer = producer.Producer

// Ack is the completion handle returned by Submit. It is shared by every
// message batched into the same boxcar and settles exactly once.
type Ack = producer.Ack

// Option configures optional behavior of a Producer.
type Option = producer.Option

// State represents the lifecycle state of a producer.
type State = producer.State

// EventHandler receives producer events.
type EventHandler = producer.EventHandler

// New creates a new Producer with the given configuration.
func New(cfg Config, opts ...Option) (*Producer, error) {
	return producer.New(cfg, opts...)
}

// Re-exported options; see pkg/boxcar for details.
var (
	WithLogger       = producer.WithLogger
	WithBroker       = producer.WithBroker
	WithEventHandler = producer.WithEventHandler
)
