package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/model"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Watch the window's tree and stream diffs as JSONL",
	Long: `Poll the window's accessibility tree and emit changes (added, removed, changed
elements) as JSONL to stdout. Recycled list rows show up as text changes, which
makes this useful to follow what a scan sees while it scrolls.

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop observing.`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
	observeCmd.Flags().Duration("interval", time.Second, "Polling interval")
	observeCmd.Flags().Duration("duration", 0, "Stop after this long (0 = until Ctrl+C)")
	observeCmd.Flags().Bool("ignore-focus", false, "Ignore focus changes")
}

func runObserve(cmd *cobra.Command, args []string) error {
	depth, _ := cmd.Flags().GetInt("depth")
	interval, _ := cmd.Flags().GetDuration("interval")
	duration, _ := cmd.Flags().GetDuration("duration")
	ignoreFocus, _ := cmd.Flags().GetBool("ignore-focus")

	p, err := openProvider(currentConfig())
	if err != nil {
		return err
	}
	if p.Window == nil {
		return fmt.Errorf("provider has no window to observe")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	read := func() ([]model.FlatElement, error) {
		elements, err := readWindow(p.Window, depth)
		if err != nil {
			return nil, err
		}
		return model.FlattenElements(model.PruneHidden(elements)), nil
	}

	start := time.Now()
	prev, err := read()
	if err != nil {
		return fmt.Errorf("initial read failed: %w", err)
	}
	enc.Encode(map[string]interface{}{
		"type":  "snapshot",
		"ts":    time.Now().UnixMilli(),
		"count": len(prev),
	})

	var deadline <-chan time.Time
	if duration > 0 {
		t := time.NewTimer(duration)
		defer t.Stop()
		deadline = t.C
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventCount := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
		}

		curr, err := read()
		if err != nil {
			enc.Encode(map[string]interface{}{
				"type":  "error",
				"ts":    time.Now().UnixMilli(),
				"error": err.Error(),
			})
			continue
		}
		eventCount += emitChanges(enc, model.DiffElements(prev, curr), ignoreFocus)
		prev = curr
	}

	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      time.Now().UnixMilli(),
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  eventCount,
	})
	return nil
}

func emitChanges(enc *json.Encoder, changes []model.TreeChange, ignoreFocus bool) int {
	n := 0
	for _, change := range changes {
		if change.Type == model.ChangeChanged && ignoreFocus {
			delete(change.Changes, "f")
			if len(change.Changes) == 0 {
				continue
			}
		}
		enc.Encode(change)
		n++
	}
	return n
}
