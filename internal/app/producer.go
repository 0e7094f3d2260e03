package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/boxcar/internal/domain"
	"github.com/bft-labs/boxcar/internal/ports"
)

// ProducerConfig contains configuration for the batching producer core.
type ProducerConfig struct {
	// Topic is the destination topic for all produced records.
	Topic string

	// MaxMessageBytes is the broker's configured maximum record size.
	MaxMessageBytes int

	// MaxBatchMessages is the pending-message ceiling. When the number of
	// queued messages reaches it, the deferred flush is cancelled and an
	// immediate flush runs instead. 0 disables the ceiling, leaving the
	// deferred flush as the only trigger; the ceiling is a safety valve,
	// not the common path.
	MaxBatchMessages int

	// FlushDelay is the deferral before a scheduled flush runs. Submissions
	// arriving within the window coalesce into the same flush cycle.
	FlushDelay time.Duration
}

// EffectiveLimit returns the per-message size limit: 75% of MaxMessageBytes.
// The remaining headroom covers the batching envelope (framing, JSON
// structure, field names) added when boxcars are serialized.
func (c ProducerConfig) EffectiveLimit() int {
	return c.MaxMessageBytes * 3 / 4
}

// ProduceEventEmitter is called on broker transitions, flushes, and
// delivery outcomes.
type ProduceEventEmitter interface {
	OnBrokerReady()
	OnBrokerDisconnected(err error)
	OnFlush(boxcars, messages, bytes int)
	OnDeliverySuccess(messages int)
	OnDeliveryError(err error, messages int)
}

// Producer accumulates messages into per-stream boxcars and flushes them to
// the broker on a coalescing schedule.
//
// A single mutex guards all batching state (queues, counters, the scheduled
// flush timer); mutation happens only under it, in Submit, the flush timer
// callback, and broker handler callbacks. Boxcars for a key are appended and
// flushed strictly in queue order, which preserves per-stream submission
// order through the broker's partitioner.
type Producer struct {
	cfg     ProducerConfig
	broker  ports.Broker
	logger  ports.Logger
	emitter ProduceEventEmitter

	mu             sync.Mutex
	ctx            context.Context
	queues         map[string][]*domain.Boxcar
	pending        int
	flushTimer     *time.Timer
	flushScheduled bool
	connected      bool
	closed         bool
}

// NewProducer creates a producer core with the given dependencies.
// emitter may be nil.
func NewProducer(cfg ProducerConfig, broker ports.Broker, logger ports.Logger, emitter ProduceEventEmitter) *Producer {
	return &Producer{
		cfg:     cfg,
		broker:  broker,
		logger:  logger,
		emitter: emitter,
		ctx:     context.Background(),
		queues:  make(map[string][]*domain.Boxcar),
	}
}

// Connect initiates the broker connection. Messages submitted before the
// broker signals readiness stay queued; the connected transition schedules
// their flush.
func (p *Producer) Connect(ctx context.Context) error {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	return p.broker.Connect(ctx, p)
}

// Submit validates msg, accumulates it into the tail boxcar for the
// (tenantID, documentID) stream, and triggers the flush-scheduling policy.
//
// The returned Ack is shared by every message added to the same boxcar and
// settles once, atomically, for all of them when the broker's delivery
// report arrives.
func (p *Producer) Submit(msg, tenantID, documentID string) (*domain.Ack, error) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, domain.ErrProducerClosed
	}

	limit := p.cfg.EffectiveLimit()
	if len(msg) >= limit {
		p.mu.Unlock()
		return nil, domain.ErrOversizedMessage
	}

	key := domain.StreamKey(tenantID, documentID)
	queue := p.queues[key]

	// Only the tail boxcar is ever appended to; earlier boxcars in the
	// queue are flush-ready and immutable.
	if len(queue) == 0 || !queue[len(queue)-1].Fits(msg, limit) {
		queue = append(queue, domain.NewBoxcar(tenantID, documentID))
	}
	tail := queue[len(queue)-1]
	tail.Append(msg)
	p.queues[key] = queue
	p.pending++

	stats := p.scheduleFlushLocked()
	ack := tail.Ack
	p.mu.Unlock()

	p.emitFlush(stats)
	return ack, nil
}

// Pending returns the number of queued messages awaiting flush.
func (p *Producer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Connected reports whether the broker has signaled readiness.
func (p *Producer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Tune adjusts the dynamic batching knobs at runtime. Zero flushDelay and
// negative maxBatchMessages leave the respective setting unchanged.
func (p *Producer) Tune(flushDelay time.Duration, maxBatchMessages int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if flushDelay > 0 {
		p.cfg.FlushDelay = flushDelay
	}
	if maxBatchMessages >= 0 {
		p.cfg.MaxBatchMessages = maxBatchMessages
	}
}

// Close flushes queued boxcars if the broker is connected, rejects boxcars
// that never reached the broker, and disconnects.
//
// Close does not wait for delivery acknowledgment of flushed records;
// callers that require delivery confirmation must await their Acks before
// calling Close.
func (p *Producer) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrNotRunning
	}
	p.closed = true

	if p.flushTimer != nil {
		p.flushTimer.Stop()
		p.flushTimer = nil
	}
	p.flushScheduled = false

	var stats flushStats
	if p.connected {
		stats = p.flushLocked()
	} else {
		p.rejectQueuedLocked(domain.ErrProducerClosed)
	}
	p.mu.Unlock()

	p.emitFlush(stats)
	return p.broker.Disconnect(ctx)
}

// OnReady implements ports.BrokerHandler. The connected transition retries
// flush scheduling for messages that queued up before the broker was ready.
func (p *Producer) OnReady() {
	p.mu.Lock()
	p.connected = true
	var stats flushStats
	if p.pending > 0 {
		stats = p.scheduleFlushLocked()
	}
	p.mu.Unlock()

	p.logger.Info("broker ready", ports.String("topic", p.cfg.Topic))
	if p.emitter != nil {
		p.emitter.OnBrokerReady()
	}
	p.emitFlush(stats)
}

// OnDisconnected implements ports.BrokerHandler.
func (p *Producer) OnDisconnected(err error) {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("broker disconnected", ports.Err(err))
	} else {
		p.logger.Info("broker disconnected")
	}
	if p.emitter != nil {
		p.emitter.OnBrokerDisconnected(err)
	}
}

// OnDeliveryReport implements ports.BrokerHandler. It is the single place
// where record-level success or failure becomes visible to submitters.
func (p *Producer) OnDeliveryReport(token any, err error) {
	boxcar, ok := token.(*domain.Boxcar)
	if !ok {
		p.logger.Error("delivery report with unknown token", ports.Any("token", token))
		return
	}

	if err != nil {
		boxcar.Ack.Reject(&domain.DeliveryError{Err: err})
		p.logger.Error("boxcar delivery failed",
			ports.String("tenant", boxcar.TenantID),
			ports.String("document", boxcar.DocumentID),
			ports.Int("messages", boxcar.Len()),
			ports.Err(err),
		)
		if p.emitter != nil {
			p.emitter.OnDeliveryError(err, boxcar.Len())
		}
		return
	}

	boxcar.Ack.Resolve()
	p.logger.Debug("boxcar delivered",
		ports.String("tenant", boxcar.TenantID),
		ports.String("document", boxcar.DocumentID),
		ports.Int("messages", boxcar.Len()),
	)
	if p.emitter != nil {
		p.emitter.OnDeliverySuccess(boxcar.Len())
	}
}

// flushStats summarizes one flush cycle for event emission.
type flushStats struct {
	ran      bool
	boxcars  int
	messages int
	bytes    int
}

// emitFlush forwards flush stats to the emitter. It must be called without
// p.mu held; handlers may call back into the producer.
func (p *Producer) emitFlush(stats flushStats) {
	if !stats.ran || p.emitter == nil {
		return
	}
	p.emitter.OnFlush(stats.boxcars, stats.messages, stats.bytes)
}

// scheduleFlushLocked applies the coalescing policy. Callers hold p.mu and
// emit the returned stats after unlocking.
func (p *Producer) scheduleFlushLocked() flushStats {
	if !p.connected {
		// Retried on every Submit and on the connected transition.
		return flushStats{}
	}

	if p.cfg.MaxBatchMessages > 0 && p.pending >= p.cfg.MaxBatchMessages {
		// Ceiling reached: cancel the deferred flush and run now.
		if p.flushTimer != nil {
			p.flushTimer.Stop()
			p.flushTimer = nil
		}
		p.flushScheduled = false
		return p.flushLocked()
	}

	if p.flushScheduled {
		return flushStats{}
	}
	p.flushScheduled = true
	p.flushTimer = time.AfterFunc(p.cfg.FlushDelay, p.flushTick)
	return flushStats{}
}

// flushTick runs the deferred flush. It clears the scheduled flag itself so
// that a ceiling-triggered flush correctly cancels a queued deferral.
func (p *Producer) flushTick() {
	p.mu.Lock()
	if !p.flushScheduled {
		// Cancelled by a ceiling flush or by Close after the timer fired.
		p.mu.Unlock()
		return
	}
	p.flushScheduled = false
	p.flushTimer = nil
	stats := p.flushLocked()
	p.mu.Unlock()

	p.emitFlush(stats)
}

// flushLocked drains every queue in insertion order, producing one record
// per boxcar. It never blocks on delivery; acknowledgment arrives later via
// OnDeliveryReport. Callers hold p.mu.
func (p *Producer) flushLocked() flushStats {
	if p.pending == 0 {
		return flushStats{}
	}

	var boxcars, messages, bytes int
	for _, queue := range p.queues {
		for _, boxcar := range queue {
			payload, err := boxcar.Record().Encode()
			if err != nil {
				boxcar.Ack.Reject(err)
				p.logger.Error("encode boxcar", ports.Err(err))
				continue
			}

			rec := ports.OutboundRecord{
				Topic:     p.cfg.Topic,
				Key:       []byte(boxcar.DocumentID),
				Value:     payload,
				Timestamp: time.Now(),
				Token:     boxcar,
			}
			if err := p.broker.Produce(p.ctx, rec); err != nil {
				boxcar.Ack.Reject(&domain.DeliveryError{Err: err})
				p.logger.Error("produce boxcar", ports.Err(err))
				continue
			}

			boxcars++
			messages += boxcar.Len()
			bytes += len(payload)
		}
	}

	p.queues = make(map[string][]*domain.Boxcar)
	p.pending = 0

	p.logger.Debug("flushed",
		ports.Int("boxcars", boxcars),
		ports.Int("messages", messages),
		ports.Int("bytes", bytes),
	)
	return flushStats{ran: true, boxcars: boxcars, messages: messages, bytes: bytes}
}

// rejectQueuedLocked settles every queued boxcar with err and clears the
// queues. Callers hold p.mu.
func (p *Producer) rejectQueuedLocked(err error) {
	for _, queue := range p.queues {
		for _, boxcar := range queue {
			boxcar.Ack.Reject(err)
		}
	}
	p.queues = make(map[string][]*domain.Boxcar)
	p.pending = 0
}
