package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/spf13/cobra"

	"github.com/harveysanders/lcdterm/monitor"
	"github.com/harveysanders/lcdterm/telemetry"
)

var runFlags struct {
	httpAddr  string
	mqttAddr  string
	topic     string
	clientID  string
	username  string
	password  string
	eventsBuf int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive display.",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.httpAddr, "http", "", "serve the display state on this address")
	f.StringVar(&runFlags.mqttAddr, "mqtt", "", "publish driver events to the MQTT broker at host:port")
	f.StringVar(&runFlags.topic, "mqtt-topic", "lcdterm/events", "topic for driver events")
	f.StringVar(&runFlags.clientID, "mqtt-client-id", "lcdsim", "MQTT client ID")
	f.StringVar(&runFlags.username, "mqtt-user", "", "MQTT username")
	f.StringVar(&runFlags.password, "mqtt-password", "", "MQTT password")
	f.IntVar(&runFlags.eventsBuf, "events", 16, "driver event queue length")
	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := newStack(stackConfig{
		busyReads: globals.busyReads,
		realtime:  globals.realtime,
		trace:     globals.traceOn,
		tracePath: globals.tracePath,
		events:    runFlags.eventsBuf,
	}, logger)
	if err != nil {
		return err
	}
	defer st.close()
	if err := st.start(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	keys := make(chan byte, 256)
	if runFlags.httpAddr != "" {
		ln, err := net.Listen("tcp", runFlags.httpAddr)
		if err != nil {
			return err
		}
		defer ln.Close()
		go monitor.New(st.sim, keys, logger).Serve(ln)
	}
	if runFlags.mqttAddr != "" {
		pub, err := dialPublisher(logger)
		if err != nil {
			return err
		}
		defer pub.Close()
		go func() {
			if err := pub.Run(ctx, st.events); err != nil && ctx.Err() == nil {
				logger.Error("mqtt:run", slog.String("err", err.Error()))
			}
		}()
	} else {
		go discardEvents(ctx, st.events)
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()

	editor := gocui.EditorFunc(func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
		for _, b := range keyBytes(key, ch) {
			select {
			case keys <- b:
			default:
				logger.Warn("lcdsim:key-dropped", slog.Int("key", int(b)))
			}
		}
	})
	g.SetManagerFunc(newLayout(editor))
	if err := g.SetKeybinding("", gocui.KeyCtrlQ, gocui.ModNone, quit); err != nil {
		return err
	}

	go drive(ctx, g, st, keys, logger)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// drive owns the device: it feeds keys to the dispatcher and redraws after
// each one.
func drive(ctx context.Context, g *gocui.Gui, st *stack, keys <-chan byte, logger *slog.Logger) {
	var lastErr error
	redraw := func() {
		snap := st.sim.Snapshot()
		var sent, dropped uint32
		if st.reporter != nil {
			sent, dropped = st.reporter.Sent(), st.reporter.Dropped()
		}
		status := statusLine(snap, st.dev.Timeouts(), sent, dropped, lastErr)
		g.Update(func(g *gocui.Gui) error { return render(g, snap, status) })
	}
	redraw()
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-keys:
			lastErr = st.in.Feed(b)
			if lastErr != nil {
				logger.Error("lcdsim:key", slog.Int("key", int(b)), slog.String("err", lastErr.Error()))
			}
			redraw()
		}
	}
}

func dialPublisher(logger *slog.Logger) (*telemetry.Publisher, error) {
	pub := telemetry.NewPublisher(telemetry.PublisherConfig{
		ClientID: runFlags.clientID,
		Topic:    runFlags.topic,
		Username: runFlags.username,
		Password: runFlags.password,
		Logger:   logger,
	})
	conn, err := net.DialTimeout("tcp", runFlags.mqttAddr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial mqtt broker: %w", err)
	}
	if err := pub.Connect(conn); err != nil {
		return nil, err
	}
	return pub, nil
}

func discardEvents[T any](ctx context.Context, ch <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
		}
	}
}
