package hd44780

import "time"

// EventKind classifies recoverable anomalies seen on the bus.
type EventKind uint8

const (
	// EventBusyTimeout means the busy flag stayed set for the whole poll
	// budget. The pending operation was issued anyway.
	EventBusyTimeout EventKind = iota + 1
)

func (k EventKind) String() string {
	switch k {
	case EventBusyTimeout:
		return "busy-timeout"
	default:
		return "unknown"
	}
}

// Event describes one anomaly.
type Event struct {
	Kind EventKind
	// Op names the operation that was waiting on the controller.
	Op string
	// Attempts is the number of busy-flag reads performed.
	Attempts int
	At       time.Time
}

// Observer receives anomaly events. Observe is called synchronously from
// the bus operation, so implementations must not block.
type Observer interface {
	Observe(Event)
}
