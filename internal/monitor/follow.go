package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reload replaces the in-memory state with what the store holds. It is how
// a long-running process picks up Start and Stop issued by another one.
func (s *State) Reload() (Snapshot, error) {
	snap, err := s.store.Load()
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	changed := s.active != snap.Monitoring || (snap.Label != "" && s.label != snap.Label)
	s.active = snap.Monitoring
	if snap.Label != "" {
		s.label = snap.Label
	}
	cur := Snapshot{Monitoring: s.active, Label: s.label}
	s.mu.Unlock()

	if changed {
		s.log.Info("monitoring state reloaded",
			zap.Bool("monitoring", cur.Monitoring),
			zap.String("label", cur.Label))
	}
	return cur, nil
}

// Follow reloads s whenever the state file at path is rewritten, until ctx
// is done.
func Follow(ctx context.Context, s *State, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// FileStore.Save renames over the file, so the directory is watched.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := s.Reload(); err != nil {
				s.log.Warn("state reload failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("state watcher error", zap.Error(err))
		}
	}
}
