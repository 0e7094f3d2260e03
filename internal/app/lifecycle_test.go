package app

import (
	"context"
	"sync"
	"testing"

	"github.com/bft-labs/boxcar/internal/domain"
	"github.com/bft-labs/boxcar/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockStateEmitter tracks state change events for testing.
type mockStateEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockStateEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockStateEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	if l == nil {
		t.Fatal("NewLifecycle returned nil")
	}
	if l.State() != StateDisconnected {
		t.Errorf("initial state = %v, want StateDisconnected", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "Disconnected"},
		{StateConnecting, "Connecting"},
		{StateConnected, "Connected"},
		{StateClosing, "Closing"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"disconnected to connecting", StateDisconnected, StateConnecting},
		{"connecting to connected", StateConnecting, StateConnected},
		{"connecting to closing", StateConnecting, StateClosing}, // early close during connect
		{"connecting to crashed", StateConnecting, StateCrashed},
		{"connected to closing", StateConnected, StateClosing},
		{"connected to crashed", StateConnected, StateCrashed},
		{"closing to disconnected", StateClosing, StateDisconnected},
		{"closing to crashed", StateClosing, StateCrashed},
		{"crashed to connecting", StateCrashed, StateConnecting},
		{"crashed to closing", StateCrashed, StateClosing}, // close after crash rejects queued boxcars
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			if err := l.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v, want nil", err)
			}
			if l.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", l.State(), tt.to)
			}
		})
	}
}

func TestLifecycle_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"disconnected to connected", StateDisconnected, StateConnected, domain.ErrNotRunning},
		{"disconnected to closing", StateDisconnected, StateClosing, domain.ErrNotRunning},
		{"connecting to disconnected", StateConnecting, StateDisconnected, domain.ErrAlreadyRunning},
		{"connected to connecting", StateConnected, StateConnecting, domain.ErrAlreadyRunning},
		{"connected to disconnected", StateConnected, StateDisconnected, domain.ErrAlreadyRunning},
		{"closing to connected", StateClosing, StateConnected, domain.ErrAlreadyRunning},
		{"closing to connecting", StateClosing, StateConnecting, domain.ErrAlreadyRunning},
		{"crashed to connected", StateCrashed, StateConnected, domain.ErrNotRunning},
		{"crashed to disconnected", StateCrashed, StateDisconnected, domain.ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")

			if err != tt.wantErr {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			// State should not change on invalid transition
			if l.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition, want %v", l.State(), tt.from)
			}
		})
	}
}

func TestLifecycle_TransitionTo_EmitsEvents(t *testing.T) {
	emitter := &mockStateEmitter{}
	l := NewLifecycle(&mockLogger{}, emitter)

	_ = l.TransitionTo(StateConnecting, "start test")
	_ = l.TransitionTo(StateConnected, "ready test")

	events := emitter.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	if events[0].previous != StateDisconnected || events[0].current != StateConnecting {
		t.Errorf("event 0: got %v->%v, want Disconnected->Connecting", events[0].previous, events[0].current)
	}
	if events[1].previous != StateConnecting || events[1].current != StateConnected {
		t.Errorf("event 1: got %v->%v, want Connecting->Connected", events[1].previous, events[1].current)
	}
}

func TestLifecycle_CanStart(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, true},
		{StateConnecting, false},
		{StateConnected, false},
		{StateClosing, false},
		{StateCrashed, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			got := l.CanStart()
			if got != tt.want {
				t.Errorf("CanStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_CanClose(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, false},
		{StateConnecting, true},
		{StateConnected, true},
		{StateClosing, false},
		{StateCrashed, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			got := l.CanClose()
			if got != tt.want {
				t.Errorf("CanClose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_SetCancel_And_Cancel(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)

	// Context should not be canceled yet
	select {
	case <-ctx.Done():
		t.Error("context should not be canceled before Cancel()")
	default:
	}

	l.Cancel()

	// Context should be canceled now
	select {
	case <-ctx.Done():
		// Expected
	default:
		t.Error("context should be canceled after Cancel()")
	}
}

func TestLifecycle_Cancel_NilSafe(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	// Should not panic when cancel is nil
	l.Cancel()
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var wg sync.WaitGroup

	// Concurrent state reads
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.CanStart()
				_ = l.CanClose()
			}
		}()
	}

	// Concurrent transitions (some will fail, which is expected)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.TransitionTo(StateConnecting, "test")
			_ = l.TransitionTo(StateConnected, "test")
		}()
	}

	wg.Wait()
}
