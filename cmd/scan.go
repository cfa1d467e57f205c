package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/monitor"
	"github.com/mj1618/listscan/internal/output"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/server"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Harvest the list once and print every entry found",
	Long: `Run a single scan session against the current window: walk the visible rows,
scroll forward until the list stops advancing and print the harvested entries.

Monitoring is switched on for the duration of the scan only; the persisted
monitoring state is not touched.

Examples:
  listscan scan --scenario inbox.yaml
  listscan scan --scenario inbox.yaml --label Unread --format json
  listscan scan --scenario inbox.yaml --events   # stream AutoScan events as JSONL`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("label", "", "Label to start with (default: All)")
	scanCmd.Flags().Bool("events", false, "Stream AutoScan events to stdout as JSONL instead of printing a summary")
	scanCmd.Flags().Duration("timeout", 5*time.Minute, "Give up when the session has not settled after this long")
}

func runScan(cmd *cobra.Command, args []string) error {
	label, _ := cmd.Flags().GetString("label")
	streamEvents, _ := cmd.Flags().GetBool("events")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := currentConfig()
	p, err := openProvider(cfg)
	if err != nil {
		return err
	}
	if p.Window == nil {
		return fmt.Errorf("provider has no window to scan")
	}

	state, err := monitor.New(nil, cmdLogger())
	if err != nil {
		return err
	}
	if err := state.Start(label); err != nil {
		return err
	}

	var next platform.Channel
	if streamEvents {
		next = output.NewEventWriter(os.Stdout)
	}
	events := server.NewEventLog(0, 0, next)

	finished := make(chan harvest.Status, 1)
	h := newHarvester(cfg, p, state, events, harvest.WithStateHook(func(st harvest.Status) {
		if st.State.Terminal() {
			select {
			case finished <- st:
			default:
			}
		}
	}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.loop.Run(gctx) })

	started := make(chan bool, 1)
	h.loop.Post(func() {
		started <- h.driver.HandleEvent(platform.TreeEvent{
			Package: p.Window.Package(),
			At:      time.Now(),
			Window:  p.Window,
		})
	})

	var final harvest.Status
	var scanErr error
	select {
	case ok := <-started:
		if !ok {
			scanErr = fmt.Errorf("no scan started: %s is not showing a chat list of a target package", p.Window.Package())
			break
		}
		select {
		case final = <-finished:
		case <-ctx.Done():
			scanErr = fmt.Errorf("scan did not settle: %w", ctx.Err())
		}
	case <-ctx.Done():
		scanErr = ctx.Err()
	}

	cancel()
	err = g.Wait()
	h.sink.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if scanErr != nil {
		return scanErr
	}
	if streamEvents {
		return nil
	}

	res := output.ScanResult{
		Package:  p.Window.Package(),
		Session:  final.Session,
		State:    string(final.State),
		Label:    final.Label,
		Ticks:    final.Ticks,
		Attempts: final.Attempts,
		Entries:  []string{},
	}
	seen := make(map[string]bool)
	for _, e := range events.Since(0, 0) {
		if !seen[e.Event.Text] {
			seen[e.Event.Text] = true
			res.Entries = append(res.Entries, e.Event.Text)
		}
	}
	return output.Print(res)
}
