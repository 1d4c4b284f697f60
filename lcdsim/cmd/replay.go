package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harveysanders/lcdterm/simbus"
)

var replayFlags struct {
	asJSON bool
}

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Feed recorded keystrokes to the display and print the result.",
	Long: `replay reads raw key bytes from file, or from stdin when no file is given, ` +
		`dispatches them exactly as the serial terminal would and prints the four ` +
		`display lines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayFlags.asJSON, "json", false, "print the controller state as JSON")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	st, err := newStack(stackConfig{
		busyReads: globals.busyReads,
		realtime:  globals.realtime,
		trace:     globals.traceOn,
		tracePath: globals.tracePath,
	}, logger)
	if err != nil {
		return err
	}
	defer st.close()
	if err := st.start(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	if err := st.in.Run(bufio.NewReader(src)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	snap := st.sim.Snapshot()
	if replayFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	fmt.Fprint(out, frame(snap.Lines))
	if st.tracer != nil {
		fmt.Fprintf(out, "trace %s session %s\n", st.tracer.Path(), st.session)
	}
	return nil
}

// frame draws the display lines inside a border.
func frame(lines [simbus.Rows]string) string {
	var b strings.Builder
	edge := "+" + strings.Repeat("-", simbus.Columns) + "+\n"
	b.WriteString(edge)
	for _, l := range lines {
		b.WriteString("|" + l + "|\n")
	}
	b.WriteString(edge)
	return b.String()
}
