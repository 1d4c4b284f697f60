package telemetry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/simbus"
	"github.com/harveysanders/lcdterm/telemetry"
)

func TestReporterDropsWhenFull(t *testing.T) {
	events := make(chan telemetry.Event, 1)
	r := telemetry.NewReporter(events, "bench")

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.Observe(hd44780.Event{Kind: hd44780.EventBusyTimeout, Op: "clear display", Attempts: 254, At: at})
	r.Observe(hd44780.Event{Kind: hd44780.EventBusyTimeout, Op: "return home", Attempts: 254, At: at})

	assert.Equal(t, uint32(1), r.Sent())
	assert.Equal(t, uint32(1), r.Dropped())
	assert.Equal(t, telemetry.Event{
		Source:   "bench",
		Kind:     "busy-timeout",
		Op:       "clear display",
		Attempts: 254,
		At:       at,
	}, <-events)
}

func TestReporterReceivesDeviceTimeouts(t *testing.T) {
	events := make(chan telemetry.Event, 8)
	sim := simbus.New()
	dev := hd44780.New(sim, hd44780.Config{
		MaxPollAttempts: 2,
		Observer:        telemetry.NewReporter(events, "sim"),
		Sleep:           func(time.Duration) {},
	})
	require.NoError(t, dev.Init())
	sim.SetStuckBusy(true)
	require.NoError(t, dev.ReturnHome())

	require.Len(t, events, 1)
	e := <-events
	assert.Equal(t, "return home", e.Op)
	assert.Equal(t, 2, e.Attempts)
}
