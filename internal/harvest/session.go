package harvest

import (
	"github.com/google/uuid"

	"github.com/mj1618/listscan/internal/platform"
)

// State is the lifecycle position of a scan session.
type State string

const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StatePaginating State = "paginating"
	StateSettled    State = "settled"
	StateAborted    State = "aborted"
)

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateSettled || s == StateAborted
}

// Session is one bounded run of initial scan plus pagination.
type Session struct {
	ID        string
	Namespace string
	Label     string
	State     State

	// Ticks counts pagination ticks run; Attempts counts productive ones.
	Ticks            int
	Attempts         int
	ConsecutiveFails int

	root      platform.Node
	collected []string
}

func newSession(root platform.Node, ns, label string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Namespace: ns,
		Label:     label,
		State:     StateIdle,
		root:      root,
	}
}

// Collected returns every entry reported in the session, in discovery order.
func (s *Session) Collected() []string {
	return append([]string(nil), s.collected...)
}

// Status is a point-in-time copy of a session for observers.
type Status struct {
	Session          string `yaml:"session,omitempty"  json:"session,omitempty"`
	State            State  `yaml:"state"              json:"state"`
	Label            string `yaml:"label,omitempty"    json:"label,omitempty"`
	Ticks            int    `yaml:"ticks"              json:"ticks"`
	Attempts         int    `yaml:"attempts"           json:"attempts"`
	ConsecutiveFails int    `yaml:"fails"              json:"fails"`
	Entries          int    `yaml:"entries"            json:"entries"`
}

func (s *Session) status() Status {
	return Status{
		Session:          s.ID,
		State:            s.State,
		Label:            s.Label,
		Ticks:            s.Ticks,
		Attempts:         s.Attempts,
		ConsecutiveFails: s.ConsecutiveFails,
		Entries:          len(s.collected),
	}
}
