package kafka

import (
	"testing"
	"time"
)

func TestBackoff_NextAdvancesAndCaps(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 400*time.Millisecond)

	// Jitter is ±20%, so each delay stays within that band of the value
	// current held when Next was called.
	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond, // capped
	}

	for i, base := range expected {
		delay := b.Next()
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)
		if delay < lo || delay > hi {
			t.Errorf("attempt %d: delay = %v, want within [%v, %v]", i, delay, lo, hi)
		}
	}

	if b.Current() != 400*time.Millisecond {
		t.Errorf("Current() = %v, want capped at 400ms", b.Current())
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := newBackoff(100*time.Millisecond, time.Second)

	b.Next()
	b.Next()
	b.Reset()

	if b.Current() != 100*time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 100ms", b.Current())
	}
}
