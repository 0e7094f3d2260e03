package boxcar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/boxcar/internal/adapters/kafka"
	"github.com/bft-labs/boxcar/internal/app"
	"github.com/bft-labs/boxcar/internal/domain"
	"github.com/bft-labs/boxcar/internal/ports"
)

// Errors returned by the public API. Check with errors.Is.
var (
	// ErrOversizedMessage is returned by Submit when the message meets or
	// exceeds the effective per-message size limit.
	ErrOversizedMessage = domain.ErrOversizedMessage

	// ErrProducerClosed is returned by Submit after Close, and rejects
	// handles of boxcars that never reached the broker.
	ErrProducerClosed = domain.ErrProducerClosed

	// ErrAlreadyRunning is returned by Start on a running producer.
	ErrAlreadyRunning = domain.ErrAlreadyRunning

	// ErrNotRunning is returned by Close on a stopped producer.
	ErrNotRunning = domain.ErrNotRunning

	// ErrShutdownTimeout is returned by Close when disconnect exceeds the
	// shutdown timeout.
	ErrShutdownTimeout = domain.ErrShutdownTimeout

	// ErrInvalidConfig is returned by New when configuration is invalid.
	ErrInvalidConfig = domain.ErrInvalidConfig
)

// Producer is an embeddable batching producer.
// Use New() to create an instance, then Start() to connect to the broker.
type Producer struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	core      *app.Producer
	broker    ports.Broker
	logger    ports.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a new Producer with the given configuration.
// The instance is created in StateDisconnected; call Start() to connect.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Producer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Producer{
		config: cfg,
		opts:   o,
		logger: o.logger,
	}

	emitter := &eventEmitterWrapper{producer: p, handler: o.eventHandler}
	p.lifecycle = app.NewLifecycle(p.logger, emitter)

	p.broker = o.broker
	if p.broker == nil {
		p.broker = kafka.NewClient(cfg.Endpoint, p.logger)
	}

	p.core = app.NewProducer(app.ProducerConfig{
		Topic:            cfg.Topic,
		MaxMessageBytes:  cfg.MaxMessageBytes,
		MaxBatchMessages: cfg.MaxBatchMessages,
		FlushDelay:       cfg.FlushDelay,
	}, p.broker, p.logger, emitter)

	return p, nil
}

// Start initiates the broker connection. It returns immediately; readiness
// is reached asynchronously (observe it via Status or an EventHandler).
// Messages may be submitted before the producer is connected — they stay
// queued and flush on the connected transition.
func (p *Producer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := p.lifecycle.TransitionTo(app.StateConnecting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.lifecycle.SetCancel(cancel)

	if err := p.core.Connect(runCtx); err != nil {
		cancel()
		_ = p.lifecycle.TransitionTo(app.StateCrashed, "connect failed")
		return err
	}
	return nil
}

// Submit validates and queues a message for the (tenantID, documentID)
// stream and returns its boxcar's completion handle. The handle is shared
// by every message batched into the same boxcar and settles exactly once.
//
// Submit never blocks on the broker. It fails synchronously with
// ErrOversizedMessage (no state mutated) or ErrProducerClosed.
func (p *Producer) Submit(message, tenantID, documentID string) (*Ack, error) {
	return p.core.Submit(message, tenantID, documentID)
}

// Pending returns the number of queued messages awaiting flush.
func (p *Producer) Pending() int {
	return p.core.Pending()
}

// Tune adjusts the dynamic batching knobs at runtime. Zero flushDelay and
// negative maxBatchMessages leave the respective setting unchanged.
func (p *Producer) Tune(flushDelay time.Duration, maxBatchMessages int) {
	p.core.Tune(flushDelay, maxBatchMessages)
}

// Close flushes queued boxcars if connected, then disconnects from the
// broker. Boxcars that never reached the broker are rejected with
// ErrProducerClosed.
//
// Close does not wait for delivery acknowledgment of flushed records;
// callers that require confirmation must wait on their Acks first.
func (p *Producer) Close() error {
	p.mu.Lock()

	if !p.lifecycle.CanClose() {
		p.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := p.lifecycle.TransitionTo(app.StateClosing, "Close() called"); err != nil {
		p.mu.Unlock()
		return err
	}
	cancel := p.cancel
	p.mu.Unlock()

	ctx, cancelClose := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancelClose()

	err := p.core.Close(ctx)
	if cancel != nil {
		cancel()
	}

	if err != nil {
		_ = p.lifecycle.TransitionTo(app.StateCrashed, "disconnect failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.ErrShutdownTimeout
		}
		return err
	}

	_ = p.lifecycle.TransitionTo(app.StateDisconnected, "graceful close")
	return nil
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (p *Producer) Status() State {
	return convertState(p.lifecycle.State())
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces
// and drives lifecycle transitions from broker events.
type eventEmitterWrapper struct {
	producer *Producer
	handler  EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnBrokerReady() {
	_ = e.producer.lifecycle.TransitionTo(app.StateConnected, "broker ready")
}

func (e *eventEmitterWrapper) OnBrokerDisconnected(err error) {
	// During Close the transition is driven by Close itself.
	if e.producer.lifecycle.State() == app.StateClosing {
		return
	}
	if err != nil {
		_ = e.producer.lifecycle.TransitionTo(app.StateCrashed, err.Error())
	}
}

func (e *eventEmitterWrapper) OnFlush(boxcars, messages, bytes int) {
	if e.handler == nil {
		return
	}
	e.handler.OnFlush(FlushEvent{
		Boxcars:  boxcars,
		Messages: messages,
		Bytes:    bytes,
	})
}

func (e *eventEmitterWrapper) OnDeliverySuccess(messages int) {
	if e.handler == nil {
		return
	}
	e.handler.OnDelivery(DeliveryEvent{Messages: messages})
}

func (e *eventEmitterWrapper) OnDeliveryError(err error, messages int) {
	if e.handler == nil {
		return
	}
	e.handler.OnDelivery(DeliveryEvent{Messages: messages, Err: err})
}

func convertState(s app.State) State {
	switch s {
	case app.StateDisconnected:
		return StateDisconnected
	case app.StateConnecting:
		return StateConnecting
	case app.StateConnected:
		return StateConnected
	case app.StateClosing:
		return StateClosing
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateDisconnected
	}
}
