package boxcar

// State represents the lifecycle state of a producer.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateClosing:
		return "Closing"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent reports a lifecycle state transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// FlushEvent reports one flush cycle.
type FlushEvent struct {
	Boxcars  int
	Messages int
	Bytes    int
}

// DeliveryEvent reports the broker's acknowledgment of one boxcar.
// Err is nil when the record was durably accepted; a non-nil Err affected
// every message in the boxcar.
type DeliveryEvent struct {
	Messages int
	Err      error
}

// EventHandler receives producer events. Events are called synchronously
// from producer goroutines; implementations should return quickly.
type EventHandler interface {
	// OnStateChange is called when the lifecycle state changes.
	OnStateChange(event StateChangeEvent)

	// OnFlush is called after each flush cycle.
	OnFlush(event FlushEvent)

	// OnDelivery is called once per boxcar delivery report.
	OnDelivery(event DeliveryEvent)
}
