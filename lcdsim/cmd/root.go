// Package cmd provides the command-line interface of lcdsim.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// envPrefix prefixes the environment variables that override flag defaults.
const envPrefix = "LCDSIM_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lcdsim",
	Short: "Drive a simulated 20x4 HD44780 display from the keyboard.",
	Long: `lcdsim runs the 8-bit HD44780 driver, the cursor navigator and the key ` +
		`dispatcher against a pin-level controller simulation. Flags may also be set ` +
		`through LCDSIM_* environment variables or a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

var globals struct {
	logFile   string
	logLevel  string
	busyReads int
	realtime  bool
	tracePath string
	traceOn   bool
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&globals.logFile, "log", "lcdsim.log", "log file, - for stderr")
	f.StringVar(&globals.logLevel, "log-level", "info", "debug, info, warn or error")
	f.IntVar(&globals.busyReads, "busy-reads", 2, "busy flag reads the simulated controller answers set after each operation")
	f.BoolVar(&globals.realtime, "realtime", false, "perform the protocol waits instead of skipping them")
	f.BoolVar(&globals.traceOn, "trace", false, "record every bus cycle into a SQLite database")
	f.StringVar(&globals.tracePath, "trace-file", "", "trace database path, generated when empty")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// loadEnv reads .env when present and applies LCDSIM_* variables to every
// flag not set on the command line.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	var setErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || setErr != nil {
			return
		}
		v, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if err := f.Value.Set(v); err != nil {
			setErr = fmt.Errorf("%s: %w", envName(f.Name), err)
		}
	})
	return setErr
}

func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// newLogger opens the log destination. The returned closer is never nil.
func newLogger() (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(globals.logLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if globals.logFile != "-" {
		f, err := os.Create(globals.logFile)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = f, f.Close
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closeFn, nil
}
