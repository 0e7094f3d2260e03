// Package boxcar provides an embeddable message-batching producer for
// partitioned log brokers.
//
// Boxcar accepts a high rate of small messages addressed to logical streams
// (a tenant/document pair), groups them into size-bounded batches ("boxcars")
// per stream, and flushes those batches to the broker on a coalescing
// schedule. Each caller receives a completion handle that settles once the
// broker acknowledges or rejects the batch.
//
// # Basic Usage
//
//	cfg := boxcar.Config{
//	    Endpoint: "localhost:9092",
//	    Topic:    "documents",
//	}
//
//	producer, err := boxcar.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := producer.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	ack, err := producer.Submit("payload", "tenant-1", "doc-42")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ack.Wait(ctx); err != nil {
//	    log.Printf("delivery failed: %v", err)
//	}
//
//	_ = producer.Close()
//
// # Ordering
//
// Messages submitted to the same (tenant, document) stream reach the broker
// in submission order. Streams with different keys have no relative ordering
// guarantee.
//
// # Delivery Semantics
//
// A boxcar aggregates many messages under one completion handle; a single
// broker-level failure fails every message batched into it. Close does not
// wait for outstanding acknowledgments — callers that require delivery
// confirmation must wait on their handles before closing. Submit never
// applies backpressure: queued messages are bounded only by the optional
// MaxBatchMessages ceiling, so overload handling belongs to the caller.
//
// # Event Handling
//
// To observe producer activity, implement [EventHandler] and pass it via
// [WithEventHandler]. Events are delivered synchronously; implementations
// should return quickly.
//
// # Dependency Injection
//
// For testing, inject custom implementations of external dependencies:
//
//	producer, err := boxcar.New(cfg,
//	    boxcar.WithBroker(fakeBroker),
//	    boxcar.WithLogger(customLogger),
//	)
package boxcar
