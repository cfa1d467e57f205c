// Package sink de-duplicates harvested entries and delivers them to the host
// channel in order, one event per entry.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
)

// DefaultMethod is the channel method every event is published on.
const DefaultMethod = "onUIEvent"

// ErrNoChannel is reported for events delivered while no channel is attached.
var ErrNoChannel = errors.New("no channel attached")

// Stats counts events by delivery outcome.
type Stats struct {
	Queued    int `yaml:"queued"    json:"queued"`
	Delivered int `yaml:"delivered" json:"delivered"`
	Failed    int `yaml:"failed"    json:"failed"`
}

// Sink tracks which entries a session already reported and dispatches
// events on a single goroutine.
type Sink struct {
	ch       platform.Channel
	method   string
	log      *zap.Logger
	now      func() time.Time
	attempts uint
	delay    time.Duration

	mu      sync.Mutex
	seen    map[string]bool
	queue   []model.Event
	stats   Stats
	closing bool
	wake    chan struct{}
	done    chan struct{}
}

// Option configures a Sink.
type Option func(*Sink)

// WithMethod overrides DefaultMethod.
func WithMethod(method string) Option {
	return func(s *Sink) {
		if method != "" {
			s.method = method
		}
	}
}

// WithLogger sets the sink's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Sink) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// WithRetry sets how often and how far apart a failed delivery is retried.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Sink) {
		if attempts > 0 {
			s.attempts = attempts
		}
		s.delay = delay
	}
}

// New returns a sink publishing to ch and starts its dispatch goroutine.
// Close must be called to stop it.
func New(ch platform.Channel, opts ...Option) *Sink {
	s := &Sink{
		ch:       ch,
		method:   DefaultMethod,
		log:      zap.NewNop(),
		now:      time.Now,
		attempts: 3,
		delay:    100 * time.Millisecond,
		seen:     make(map[string]bool),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.dispatch()
	return s
}

// Reset forgets every entry seen so far.
func (s *Sink) Reset() {
	s.mu.Lock()
	s.seen = make(map[string]bool)
	s.mu.Unlock()
}

// Emit queues an event for each entry not yet seen since the last Reset and
// returns those entries.
func (s *Sink) Emit(label string, entries []string) []string {
	at := s.now()
	s.mu.Lock()
	var fresh []string
	for _, e := range entries {
		if s.seen[e] {
			continue
		}
		s.seen[e] = true
		fresh = append(fresh, e)
		s.queue = append(s.queue, model.NewEvent(e, label, at))
	}
	s.stats.Queued += len(fresh)
	s.mu.Unlock()

	if len(fresh) > 0 {
		s.notify()
	}
	return fresh
}

// Flush queues the complete set again so the host ends up with every entry
// even if an earlier delivery was lost.
func (s *Sink) Flush(label string, entries []string) {
	at := s.now()
	s.mu.Lock()
	seen := make(map[string]bool, len(entries))
	n := 0
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		s.queue = append(s.queue, model.NewEvent(e, label, at))
		n++
	}
	s.stats.Queued += n
	s.mu.Unlock()

	s.log.Info("final flush", zap.String("label", label), zap.Int("entries", n))
	s.notify()
}

// Stats returns delivery counters.
func (s *Sink) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close delivers everything already queued and stops the dispatcher.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closing = true
	s.mu.Unlock()
	s.notify()
	<-s.done
}

func (s *Sink) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sink) dispatch() {
	defer close(s.done)
	for {
		ev, ok, closing := s.next()
		if ok {
			s.deliver(ev)
			continue
		}
		if closing {
			return
		}
		<-s.wake
	}
}

func (s *Sink) next() (model.Event, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return model.Event{}, false, s.closing
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true, s.closing
}

func (s *Sink) deliver(ev model.Event) {
	err := s.send(ev)

	s.mu.Lock()
	if err != nil {
		s.stats.Failed++
	} else {
		s.stats.Delivered++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("event delivery failed",
			zap.String("text", ev.Text),
			zap.String("label", ev.Label),
			zap.Error(err))
		return
	}
	s.log.Debug("event delivered", zap.String("text", ev.Text), zap.String("label", ev.Label))
}

func (s *Sink) send(ev model.Event) error {
	if s.ch == nil {
		return ErrNoChannel
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return retry.Do(
		func() error {
			return s.ch.InvokeMethod(s.method, string(payload))
		},
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
	)
}
