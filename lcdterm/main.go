//go:build tinygo

// lcdterm turns a Pico into a serial terminal on a 20x4 HD44780: bytes
// arriving on the USB serial port are typed onto the display. When built
// with WiFi credentials and a broker address it also publishes driver
// anomalies over MQTT:
//
//	tinygo flash -target=pico-w -ldflags="-X main.broker=10.0.0.9:1883 \
//	  -X github.com/harveysanders/lcdterm/netstack.ssid=home \
//	  -X github.com/harveysanders/lcdterm/netstack.pass=secret" ./lcdterm
package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/input"
	"github.com/harveysanders/lcdterm/navigator"
	"github.com/harveysanders/lcdterm/telemetry"
)

// broker is the MQTT broker's host:port. Empty disables telemetry.
var broker string

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := hd44780.Config{Logger: logger}
	if broker != "" {
		// Buffer a handful of events; the display never waits on the network.
		events := make(chan telemetry.Event, 8)
		cfg.Observer = telemetry.NewReporter(events, "lcdterm")
		go publishForever(broker, events, logger)
	}

	bus, err := newBus()
	if err != nil {
		printErrForever(logger, "configure bus", slog.String("reason", err.Error()))
	}
	dev := hd44780.New(bus, cfg)
	if err := dev.Init(); err != nil {
		printErrForever(logger, "init display", slog.String("reason", err.Error()))
	}
	if err := dev.DisplayControl(hd44780.DisplayOn | hd44780.CursorOn | hd44780.BlinkingOn); err != nil {
		printErrForever(logger, "display on", slog.String("reason", err.Error()))
	}
	logger.Info("lcdterm:ready")

	led := machine.GP15
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()

	nav := navigator.New(dev, logger)
	keys := input.New(nav, dev, logger)
	for {
		if err := keys.Run(serialReader{led: led}); err != nil {
			logger.Error("lcdterm:key", slog.String("err", err.Error()))
		}
	}
}

// serialReader reads the USB serial port one byte at a time, yielding to
// other goroutines while nothing is buffered. led toggles on every byte.
type serialReader struct {
	led machine.Pin
}

func (r serialReader) ReadByte() (byte, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	r.led.Set(!r.led.Get())
	return machine.Serial.ReadByte()
}

// printErrForever logs msg once a second. It blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
