// Package kafka implements the ports.Broker contract on segmentio/kafka-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/bft-labs/boxcar/internal/ports"
)

// ErrNotConnected is returned by Produce before Connect has completed.
var ErrNotConnected = errors.New("kafka: not connected")

// messageWriter is the writer surface the client needs. *kafkago.Writer
// satisfies it.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Client implements ports.Broker using a kafka-go Writer.
//
// The writer runs in async mode: Produce enqueues the record synchronously,
// so records enter the writer in Produce call order and same-key records
// keep their submit order on the partition the hash balancer pins them to.
// Delivery outcomes arrive through the writer's completion callback, which
// forwards them to the handler with each record's correlation token.
type Client struct {
	endpoint string
	logger   ports.Logger

	mu       sync.Mutex
	writer   messageWriter
	handler  ports.BrokerHandler
	inflight sync.WaitGroup
}

// NewClient creates a broker client for the given endpoint (host:port).
func NewClient(endpoint string, logger ports.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		logger:   logger,
	}
}

// Connect registers the handler and starts dialing the broker in the
// background, retrying with jittered exponential backoff until the broker
// answers or ctx is canceled. Readiness is signaled via h.OnReady.
func (c *Client) Connect(ctx context.Context, h ports.BrokerHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler != nil {
		return fmt.Errorf("kafka: connect called twice")
	}
	c.handler = h

	// Broker-level log and error events are surfaced to the operator's
	// logger, never swallowed.
	c.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(c.endpoint),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		Completion:   c.onCompletion,
		BatchTimeout: 10 * time.Millisecond,
		Logger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf("kafka: "+msg, args...))
		}),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			c.logger.Error(fmt.Sprintf("kafka: "+msg, args...))
		}),
	}

	go c.dial(ctx, h)
	return nil
}

// dial probes the broker until it is reachable, then signals readiness.
func (c *Client) dial(ctx context.Context, h ports.BrokerHandler) {
	back := newBackoff(defaultBackoffInitial, defaultBackoffMax)

	for {
		conn, err := kafkago.DialContext(ctx, "tcp", c.endpoint)
		if err == nil {
			conn.Close()
			h.OnReady()
			return
		}

		c.logger.Warn("kafka: broker unreachable, retrying",
			ports.String("endpoint", c.endpoint),
			ports.Duration("backoff", back.Current()),
			ports.Err(err),
		)

		select {
		case <-ctx.Done():
			h.OnDisconnected(ctx.Err())
			return
		case <-time.After(back.Next()):
		}
	}
}

// Produce enqueues a record on the async writer. Enqueueing happens on the
// caller's goroutine, so two Produce calls hand their records to the writer
// in call order. The delivery outcome is reported asynchronously to the
// handler with rec.Token; Produce itself never blocks on delivery.
func (c *Client) Produce(ctx context.Context, rec ports.OutboundRecord) error {
	c.mu.Lock()
	writer := c.writer
	c.mu.Unlock()

	if writer == nil {
		return ErrNotConnected
	}

	msg := kafkago.Message{
		Topic:      rec.Topic,
		Key:        rec.Key,
		Value:      rec.Value,
		Time:       rec.Timestamp,
		WriterData: rec.Token,
	}

	c.inflight.Add(1)
	if err := writer.WriteMessages(ctx, msg); err != nil {
		c.inflight.Done()
		return err
	}
	return nil
}

// onCompletion is the writer's completion callback. It runs on a
// writer-owned goroutine once per written batch and forwards one delivery
// report per message, carrying the correlation token from WriterData.
func (c *Client) onCompletion(messages []kafkago.Message, err error) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()

	for _, msg := range messages {
		if handler != nil {
			handler.OnDeliveryReport(msg.WriterData, err)
		}
		c.inflight.Done()
	}
}

// Disconnect closes the writer, which flushes queued async records and runs
// their completions, then waits for outstanding delivery reports. Waiting is
// bounded by ctx.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	writer := c.writer
	c.writer = nil
	c.mu.Unlock()

	var closeErr error
	if writer != nil {
		closeErr = writer.Close()
	}

	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		c.notifyDisconnected(ctx.Err())
		return fmt.Errorf("kafka: disconnect: %w", ctx.Err())
	}

	c.notifyDisconnected(closeErr)
	if closeErr != nil {
		return fmt.Errorf("kafka: disconnect: %w", closeErr)
	}
	return nil
}

func (c *Client) notifyDisconnected(err error) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler != nil {
		handler.OnDisconnected(err)
	}
}
