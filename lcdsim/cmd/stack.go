package cmd

import (
	"log/slog"
	"time"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/input"
	"github.com/harveysanders/lcdterm/navigator"
	"github.com/harveysanders/lcdterm/simbus"
	"github.com/harveysanders/lcdterm/telemetry"
	"github.com/harveysanders/lcdterm/trace"
)

// stack is the simulated display with the driver layers on top of it.
type stack struct {
	sim      *simbus.Controller
	dev      *hd44780.Device
	nav      *navigator.Navigator
	in       *input.Dispatcher
	reporter *telemetry.Reporter
	events   chan telemetry.Event
	tracer   *trace.SQLiteWriter
	session  string
}

type stackConfig struct {
	busyReads int
	realtime  bool
	trace     bool
	tracePath string
	// events buffers the reporter channel. Zero disables telemetry.
	events int
}

func newStack(cfg stackConfig, logger *slog.Logger) (*stack, error) {
	st := &stack{sim: simbus.New()}
	st.sim.SetBusyReads(cfg.busyReads)

	var bus hd44780.Bus = st.sim
	if cfg.trace {
		w, err := trace.NewSQLiteWriter(cfg.tracePath, trace.DefaultBatchSize)
		if err != nil {
			return nil, err
		}
		tb := trace.NewBus(st.sim, w)
		st.tracer, st.session, bus = w, tb.Session(), tb
		logger.Info("lcdsim:trace", slog.String("path", w.Path()), slog.String("session", st.session))
	}

	devCfg := hd44780.Config{Logger: logger}
	if !cfg.realtime {
		devCfg.Sleep = func(time.Duration) {}
	}
	if cfg.events > 0 {
		st.events = make(chan telemetry.Event, cfg.events)
		st.reporter = telemetry.NewReporter(st.events, "lcdsim")
		devCfg.Observer = st.reporter
	}
	st.dev = hd44780.New(bus, devCfg)
	st.nav = navigator.New(st.dev, logger)
	st.in = input.New(st.nav, st.dev, logger)
	return st, nil
}

// start initialises the controller and turns the display on with a
// blinking cursor.
func (st *stack) start() error {
	if err := st.dev.Init(); err != nil {
		return err
	}
	return st.dev.DisplayControl(hd44780.DisplayOn | hd44780.CursorOn | hd44780.BlinkingOn)
}

func (st *stack) close() error {
	if st.tracer == nil {
		return nil
	}
	return st.tracer.Close()
}
