package ports

import (
	"context"
	"time"
)

// OutboundRecord is a single serialized boxcar addressed to the broker.
type OutboundRecord struct {
	// Topic is the destination topic/stream name.
	Topic string

	// Key is the routing/partition key. The broker's partitioner routes
	// same-key records to the same partition, preserving their order.
	Key []byte

	// Value is the serialized record payload.
	Value []byte

	// Timestamp is the record's production time.
	Timestamp time.Time

	// Token is an opaque correlation token echoed back in the delivery
	// report for this record.
	Token any
}

// BrokerHandler receives asynchronous events from the broker client.
// Methods may be called from broker-owned goroutines.
type BrokerHandler interface {
	// OnReady is invoked once the broker client can accept records.
	OnReady()

	// OnDisconnected is invoked when the connection is lost or closed.
	// err is nil for a clean disconnect.
	OnDisconnected(err error)

	// OnDeliveryReport is invoked once per produced record with the
	// record's correlation token. err is nil if the broker durably
	// accepted the record.
	OnDeliveryReport(token any, err error)
}

// Broker is the producer-side contract of the partitioned log broker client.
// Connection lifecycle, transport, partition assignment, and wire-level
// retries are the implementation's concern; the batching core only calls
// into this interface and observes handler callbacks.
type Broker interface {
	// Connect establishes the connection and registers the event handler.
	// Readiness is signaled asynchronously via the handler's OnReady.
	Connect(ctx context.Context, h BrokerHandler) error

	// Produce submits a record. It never blocks on delivery; the outcome
	// arrives later via OnDeliveryReport carrying rec.Token.
	Produce(ctx context.Context, rec OutboundRecord) error

	// Disconnect waits for in-flight produces and closes the connection.
	Disconnect(ctx context.Context) error
}
