package domain

import (
	"context"
	"sync"
)

// Ack is a one-shot completion handle. Every Submit call that lands in the
// same boxcar receives the same Ack; it resolves or rejects exactly once,
// atomically for all of them, when the broker's delivery report arrives.
//
// A rejected Ack fails every message batched into the boxcar. This is an
// explicit all-or-nothing unit-of-delivery decision.
type Ack struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewAck creates an unsettled completion handle.
func NewAck() *Ack {
	return &Ack{done: make(chan struct{})}
}

// Resolve settles the handle successfully. Later settles are no-ops.
func (a *Ack) Resolve() {
	a.once.Do(func() { close(a.done) })
}

// Reject settles the handle with err. Later settles are no-ops.
func (a *Ack) Reject(err error) {
	a.once.Do(func() {
		a.err = err
		close(a.done)
	})
}

// Done returns a channel that is closed once the handle settles.
func (a *Ack) Done() <-chan struct{} {
	return a.done
}

// Err returns the settlement error. It must only be called after Done is
// closed; before that it always returns nil.
func (a *Ack) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// Wait blocks until the handle settles or ctx is canceled, returning the
// settlement error or the context error respectively.
func (a *Ack) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
