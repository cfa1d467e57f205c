package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
)

// LoggedEvent is an event as retained by the EventLog.
type LoggedEvent struct {
	Seq      int         `yaml:"seq"      json:"seq"`
	Method   string      `yaml:"method"   json:"method"`
	Received time.Time   `yaml:"received" json:"received"`
	Event    model.Event `yaml:"event"    json:"event"`
}

// EventLog is a platform.Channel that retains delivered events so MCP
// clients can poll them. Events older than ttl or beyond max are dropped.
// Deliveries are forwarded to next when set.
type EventLog struct {
	mu      sync.Mutex
	entries []LoggedEvent
	seq     int
	max     int
	ttl     time.Duration
	next    platform.Channel
	now     func() time.Time
}

// NewEventLog creates a log keeping at most max events (0 = unlimited) for
// at most ttl (0 = forever).
func NewEventLog(max int, ttl time.Duration, next platform.Channel) *EventLog {
	return &EventLog{max: max, ttl: ttl, next: next, now: time.Now}
}

// InvokeMethod implements platform.Channel.
func (l *EventLog) InvokeMethod(method, payload string) error {
	var ev model.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("decode %s payload: %w", method, err)
	}

	l.mu.Lock()
	l.seq++
	l.entries = append(l.entries, LoggedEvent{Seq: l.seq, Method: method, Received: l.now(), Event: ev})
	l.evict()
	l.mu.Unlock()

	if l.next != nil {
		return l.next.InvokeMethod(method, payload)
	}
	return nil
}

// Since returns up to limit events with a sequence number above seq, oldest
// first. A limit of 0 returns all of them.
func (l *EventLog) Since(seq, limit int) []LoggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict()

	var out []LoggedEvent
	for _, e := range l.entries {
		if e.Seq <= seq {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Labels returns the distinct entries retained per label.
func (l *EventLog) Labels() map[string][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict()

	out := make(map[string][]string)
	seen := make(map[string]bool)
	for _, e := range l.entries {
		key := e.Event.Label + "\x00" + e.Event.Text
		if seen[key] {
			continue
		}
		seen[key] = true
		out[e.Event.Label] = append(out[e.Event.Label], e.Event.Text)
	}
	return out
}

// Clear drops every retained event. Sequence numbers keep increasing.
func (l *EventLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// evict must be called with mu held.
func (l *EventLog) evict() {
	drop := 0
	if l.ttl > 0 {
		cutoff := l.now().Add(-l.ttl)
		for drop < len(l.entries) && l.entries[drop].Received.Before(cutoff) {
			drop++
		}
	}
	if l.max > 0 && len(l.entries)-drop > l.max {
		drop = len(l.entries) - l.max
	}
	if drop > 0 {
		l.entries = append([]LoggedEvent(nil), l.entries[drop:]...)
	}
}
