package sim

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mj1618/listscan/internal/platform"
)

// Observer reports the list as changed once on start, whenever the scenario
// file is rewritten, and every Interval when Interval is non-zero.
type Observer struct {
	List     *List
	Path     string
	Interval time.Duration
	Log      *zap.Logger

	now func() time.Time
}

// Observe implements platform.Observer.
func (o *Observer) Observe(ctx context.Context, events chan<- platform.TreeEvent) error {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if o.Path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Close()
		// Watch the directory so editors that replace the file are seen.
		if err := w.Add(filepath.Dir(o.Path)); err != nil {
			return fmt.Errorf("watch %s: %w", o.Path, err)
		}
		fsEvents, fsErrors = w.Events, w.Errors
	}

	var tick <-chan time.Time
	if o.Interval > 0 {
		t := time.NewTicker(o.Interval)
		defer t.Stop()
		tick = t.C
	}

	if !o.send(ctx, events) {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsEvents:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(o.Path) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			sc, err := LoadScenario(o.Path)
			if err != nil {
				log.Warn("scenario reload failed", zap.String("path", o.Path), zap.Error(err))
				continue
			}
			o.List.Replace(sc)
			log.Debug("scenario reloaded", zap.String("path", o.Path), zap.Int("rows", len(sc.Rows)))
			if !o.send(ctx, events) {
				return nil
			}
		case err, ok := <-fsErrors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-tick:
			if !o.send(ctx, events) {
				return nil
			}
		}
	}
}

func (o *Observer) send(ctx context.Context, events chan<- platform.TreeEvent) bool {
	now := time.Now
	if o.now != nil {
		now = o.now
	}
	ev := platform.TreeEvent{Package: o.List.Package(), At: now(), Window: o.List}
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
