package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/monitor"
	"github.com/mj1618/listscan/internal/output"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Harvest the list whenever it changes and stream events as JSONL",
	Long: `Observe the window and start a scan session for every qualifying tree change
while monitoring is on. Each new entry is written to stdout as one JSON line.

Monitoring is controlled by 'listscan start' and 'listscan stop' (or --start);
the state file is followed, so a running watch reacts to them immediately.

Output is always JSONL regardless of the --format flag.

Use Ctrl+C to stop watching.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("start", false, "Turn monitoring on before watching")
	watchCmd.Flags().String("label", "", "Label used with --start (default: All)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetBool("start")
	label, _ := cmd.Flags().GetString("label")

	cfg := currentConfig()
	p, err := openProvider(cfg)
	if err != nil {
		return err
	}
	state, err := openMonitor(cfg)
	if err != nil {
		return err
	}
	if start {
		if err := state.Start(label); err != nil {
			return err
		}
	}
	if !state.Active() {
		cmdLogger().Warn("monitoring is off; run 'listscan start' to begin harvesting")
	}

	h := newHarvester(cfg, p, state, output.NewEventWriter(os.Stdout), harvest.WithStateHook(func(st harvest.Status) {
		if st.State.Terminal() {
			cmdLogger().Info("session ended",
				zap.String("session", st.Session),
				zap.String("state", string(st.State)),
				zap.Int("entries", st.Entries))
		}
	}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.run(ctx) })
	g.Go(func() error { return monitor.Follow(ctx, state, cfg.StateFile) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
