package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/output"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Turn monitoring off",
	Long: `Turn list harvesting off. A scan in progress aborts on its next tick without
a final flush. The label is kept for the next start.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	state, err := openMonitor(currentConfig())
	if err != nil {
		return err
	}
	if err := state.Stop(); err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), state.Snapshot())
}
