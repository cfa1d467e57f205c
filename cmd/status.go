package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether monitoring is on and the current label",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	state, err := openMonitor(currentConfig())
	if err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), state.Snapshot())
}
