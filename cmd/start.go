package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/output"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Turn monitoring on",
	Long: `Turn list harvesting on and set the label attached to harvested entries.
A running 'listscan watch' starts a scan on the next qualifying tree change.

Examples:
  listscan start
  listscan start --label Unread`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().String("label", "", "Label for harvested entries (default: All)")
}

func runStart(cmd *cobra.Command, args []string) error {
	label, _ := cmd.Flags().GetString("label")

	state, err := openMonitor(currentConfig())
	if err != nil {
		return err
	}
	if err := state.Start(label); err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), state.Snapshot())
}
