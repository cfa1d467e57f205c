// Package monitor holds the process-wide monitoring flag and the label of
// the list view being harvested.
package monitor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mj1618/listscan/internal/model"
)

// Snapshot is a consistent copy of the monitoring state.
type Snapshot struct {
	Monitoring bool   `yaml:"is_monitoring" json:"is_monitoring"`
	Label      string `yaml:"current_label" json:"current_label"`
}

// State is safe for concurrent readers. Only Start, Stop and Reload write it.
type State struct {
	store Store
	log   *zap.Logger

	mu     sync.RWMutex
	active bool
	label  string
}

// New restores the state from store. A nil store keeps state in memory.
func New(store Store, log *zap.Logger) (*State, error) {
	if store == nil {
		store = &MemoryStore{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{store: store, log: log, label: model.LabelAll}

	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	s.active = snap.Monitoring
	if snap.Label != "" {
		s.label = snap.Label
	}
	return s, nil
}

// Start turns monitoring on for label. An empty label means LabelAll.
func (s *State) Start(label string) error {
	if label == "" {
		label = model.LabelAll
	}
	s.mu.Lock()
	s.active = true
	s.label = label
	snap := Snapshot{Monitoring: true, Label: label}
	s.mu.Unlock()

	s.log.Info("monitoring started", zap.String("label", label))
	return s.store.Save(snap)
}

// Stop turns monitoring off. The label is kept for the next start.
func (s *State) Stop() error {
	s.mu.Lock()
	s.active = false
	snap := Snapshot{Monitoring: false, Label: s.label}
	s.mu.Unlock()

	s.log.Info("monitoring stopped", zap.String("label", snap.Label))
	return s.store.Save(snap)
}

func (s *State) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *State) Label() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label
}

// Snapshot returns flag and label read together.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Monitoring: s.active, Label: s.label}
}
