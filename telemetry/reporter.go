// Package telemetry forwards driver anomalies off the device.
//
// Example usage:
//
//	events := make(chan telemetry.Event, 16)
//	dev := hd44780.New(bus, hd44780.Config{
//	    Observer: telemetry.NewReporter(events, "lcdterm"),
//	})
//	go pub.Run(ctx, events)
package telemetry

import (
	"sync/atomic"
	"time"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Event is the published form of an hd44780.Event.
type Event struct {
	Source   string    `json:"source"`
	Kind     string    `json:"kind"`
	Op       string    `json:"op"`
	Attempts int       `json:"attempts"`
	At       time.Time `json:"at"`
}

// Reporter implements hd44780.Observer by sending events on a channel. It
// never blocks the driver: when the channel is full the event is dropped
// and counted.
type Reporter struct {
	events  chan<- Event
	source  string
	dropped atomic.Uint32
	sent    atomic.Uint32
}

// NewReporter returns a Reporter sending on events. source names the device
// in every event.
func NewReporter(events chan<- Event, source string) *Reporter {
	return &Reporter{events: events, source: source}
}

// Observe implements hd44780.Observer.
func (r *Reporter) Observe(e hd44780.Event) {
	ev := Event{
		Source:   r.source,
		Kind:     e.Kind.String(),
		Op:       e.Op,
		Attempts: e.Attempts,
		At:       e.At,
	}
	select {
	case r.events <- ev:
		r.sent.Add(1)
	default:
		r.dropped.Add(1)
	}
}

// Sent returns the number of events handed to the channel.
func (r *Reporter) Sent() uint32 { return r.sent.Load() }

// Dropped returns the number of events lost to a full channel.
func (r *Reporter) Dropped() uint32 { return r.dropped.Load() }
