// lcdpi drives a 20x4 HD44780 wired in 8-bit mode to a Raspberry Pi's GPIO
// header. Keys read from stdin are dispatched to the display; put the
// terminal in raw mode (stty raw -echo) to type interactively.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/harveysanders/lcdterm/gpiobus"
	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/input"
	"github.com/harveysanders/lcdterm/navigator"
)

type pinNames struct {
	rs, rw, e string
	data      []string
}

var (
	names  pinNames
	cursor bool
	blink  bool
	banner string
	debug  bool
)

var rootCmd = &cobra.Command{
	Use:          "lcdpi",
	Short:        "Type onto an HD44780 20x4 display wired to the GPIO header.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&names.rs, "rs", "GPIO25", "register select pin")
	f.StringVar(&names.rw, "rw", "GPIO24", "read/write pin")
	f.StringVar(&names.e, "e", "GPIO23", "enable pin")
	f.StringSliceVar(&names.data, "data",
		[]string{"GPIO5", "GPIO6", "GPIO13", "GPIO19", "GPIO26", "GPIO16", "GPIO20", "GPIO21"},
		"data pins D0 to D7")
	f.BoolVar(&cursor, "cursor", true, "show the underline cursor")
	f.BoolVar(&blink, "blink", true, "blink the cursor cell")
	f.StringVar(&banner, "banner", "", "text written before reading stdin")
	f.BoolVar(&debug, "debug", false, "log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	pins, err := lookupPins(names, gpioreg.ByName)
	if err != nil {
		return err
	}
	bus, err := gpiobus.New(pins)
	if err != nil {
		return err
	}

	dev := hd44780.New(bus, hd44780.Config{Logger: logger})
	if err := dev.Init(); err != nil {
		return err
	}
	if err := dev.DisplayControl(displaySettings(cursor, blink)); err != nil {
		return err
	}
	logger.Info("lcdpi:ready", slog.String("rs", names.rs), slog.String("e", names.e))

	nav := navigator.New(dev, logger)
	if banner != "" {
		if _, err := nav.Write([]byte(banner)); err != nil {
			return err
		}
	}
	err = input.New(nav, dev, logger).Run(bufio.NewReader(cmd.InOrStdin()))
	logger.Info("lcdpi:done", slog.Uint64("busyTimeouts", uint64(dev.Timeouts())))
	return err
}

// lookupPins resolves pin names through byName.
func lookupPins(n pinNames, byName func(string) gpio.PinIO) (gpiobus.Pins, error) {
	var p gpiobus.Pins
	if len(n.data) != len(p.Data) {
		return p, fmt.Errorf("need %d data pins, got %d", len(p.Data), len(n.data))
	}
	pin := func(name string) (gpio.PinIO, error) {
		if found := byName(name); found != nil {
			return found, nil
		}
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	var err error
	if p.RS, err = pin(n.rs); err != nil {
		return p, err
	}
	if p.RW, err = pin(n.rw); err != nil {
		return p, err
	}
	if p.E, err = pin(n.e); err != nil {
		return p, err
	}
	for i, name := range n.data {
		if p.Data[i], err = pin(name); err != nil {
			return p, err
		}
	}
	return p, nil
}

func displaySettings(cursor, blink bool) byte {
	s := hd44780.DisplayOn
	if cursor {
		s |= hd44780.CursorOn
	}
	if blink {
		s |= hd44780.BlinkingOn
	}
	return s
}
