package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harveysanders/lcdterm/trace"
)

var dumpFlags struct {
	session string
	raw     bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump <trace.sqlite3>",
	Short: "Print the bus transfers recorded in a trace database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFlags.session, "session", "", "only this session")
	dumpCmd.Flags().BoolVar(&dumpFlags.raw, "raw", false, "print pin-level cycles instead of transfers")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	r, err := trace.OpenSQLiteReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	sessions := []string{dumpFlags.session}
	if dumpFlags.session == "" {
		if sessions, err = r.ListSessions(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, s := range sessions {
		cycles, err := r.ListCycles(trace.CycleQuery{Session: s})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "session %s: %d cycles\n", s, len(cycles))
		if dumpFlags.raw {
			for _, c := range cycles {
				line := fmt.Sprintf("%6d %-13s 0x%02X", c.Seq, c.Op, c.Value)
				if c.Err != "" {
					line += " err=" + c.Err
				}
				fmt.Fprintln(out, line)
			}
			continue
		}
		for _, t := range trace.Transfers(cycles) {
			fmt.Fprintln(out, t)
		}
	}
	return nil
}
