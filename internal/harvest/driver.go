package harvest

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/listscan/internal/platform"
)

// Monitor is the read side of the process-wide monitoring state.
type Monitor interface {
	Active() bool
	Label() string
}

// Sink receives harvested entries. Emit returns the entries that had not
// been reported before in the current session.
type Sink interface {
	Reset()
	Emit(label string, entries []string) []string
	Flush(label string, entries []string)
}

// Config tunes pacing and termination of the Driver.
type Config struct {
	// Targets are the package ids whose tree events may start a session.
	Targets []string
	// Cooldown is the minimum time between the starts of two sessions.
	Cooldown time.Duration
	// InitialDelay separates the initial walk from the first pagination tick.
	InitialDelay time.Duration
	// AdvanceDelay follows a productive tick, RetryDelay a failed one.
	AdvanceDelay time.Duration
	RetryDelay   time.Duration
	// MaxAttempts bounds productive ticks per session.
	MaxAttempts int
	// MaxConsecutiveFails ends a session whose list stopped scrolling.
	MaxConsecutiveFails int
}

// DefaultConfig returns the pacing used against the stock WhatsApp clients.
func DefaultConfig() Config {
	return Config{
		Targets:             []string{"com.whatsapp", "com.whatsapp.w4b"},
		Cooldown:            5 * time.Second,
		InitialDelay:        time.Second,
		AdvanceDelay:        750 * time.Millisecond,
		RetryDelay:          time.Second,
		MaxAttempts:         100,
		MaxConsecutiveFails: 10,
	}
}

// Driver turns tree events into scan sessions and paginates each session
// until the list is exhausted. All methods except Submit, Interrupt,
// Reconfigure and Status must run on the driver's scheduler.
type Driver struct {
	cfg     Config
	monitor Monitor
	sink    Sink
	sched   Scheduler
	log     *zap.Logger
	now     func() time.Time
	onState func(Status)

	session  *Session
	lastScan time.Time

	mu   sync.Mutex
	last Status
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithClock replaces time.Now for event timestamps without one.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithStateHook registers fn to observe every session transition.
// fn runs on the scheduler.
func WithStateHook(fn func(Status)) Option {
	return func(d *Driver) { d.onState = fn }
}

// NewDriver returns an idle driver.
func NewDriver(cfg Config, monitor Monitor, sink Sink, sched Scheduler, opts ...Option) *Driver {
	d := &Driver{
		cfg:     cfg,
		monitor: monitor,
		sink:    sink,
		sched:   sched,
		log:     zap.NewNop(),
		now:     time.Now,
		last:    Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit hands ev to the driver on its scheduler.
func (d *Driver) Submit(ev platform.TreeEvent) {
	d.sched.Post(func() { d.HandleEvent(ev) })
}

// Interrupt aborts the active session, if any.
func (d *Driver) Interrupt() {
	d.sched.Post(func() {
		if d.session != nil {
			d.log.Info("scan interrupted", zap.String("session", d.session.ID))
			d.finish(d.session, StateAborted)
		}
	})
}

// Reconfigure replaces the pacing and gate settings. A running session
// picks them up on its next tick.
func (d *Driver) Reconfigure(cfg Config) {
	d.sched.Post(func() {
		d.cfg = cfg
		d.log.Info("driver reconfigured",
			zap.Strings("targets", cfg.Targets),
			zap.Duration("cooldown", cfg.Cooldown),
			zap.Int("max_attempts", cfg.MaxAttempts))
	})
}

// Status returns the state of the active or most recent session.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Scanning reports whether a session is active. Scheduler only.
func (d *Driver) Scanning() bool {
	return d.session != nil
}

// HandleEvent starts a session for ev when the gate admits it, performs the
// initial walk and schedules pagination. It reports whether a session
// started.
func (d *Driver) HandleEvent(ev platform.TreeEvent) bool {
	at := ev.At
	if at.IsZero() {
		at = d.now()
	}
	if !d.admits(ev, at) {
		return false
	}

	root := ev.Window.Root()
	if root == nil {
		d.log.Debug("no root in active window", zap.String("package", ev.Package))
		return false
	}
	ns := ev.Window.Package()
	if ns == "" {
		ns = ev.Package
	}

	var listView bool
	if err := protect(func() { listView = IsListView(root, ns) }); err != nil {
		d.log.Error("list view check failed", zap.Error(err))
	}
	if !listView {
		root.Release()
		return false
	}

	s := newSession(root, ns, d.monitor.Label())
	d.session = s
	d.lastScan = at
	d.sink.Reset()
	d.log.Info("list view detected, starting scan",
		zap.String("session", s.ID),
		zap.String("package", ev.Package),
		zap.String("label", s.Label))

	d.transition(s, StateScanning)
	if err := protect(func() { d.initialScan(s) }); err != nil {
		d.log.Error("initial scan failed", zap.String("session", s.ID), zap.Error(err))
	}
	d.transition(s, StatePaginating)
	d.schedule(s, d.cfg.InitialDelay)
	return true
}

func (d *Driver) admits(ev platform.TreeEvent, at time.Time) bool {
	switch {
	case ev.Window == nil:
		return false
	case !slices.Contains(d.cfg.Targets, ev.Package):
		return false
	case !d.monitor.Active():
		return false
	case d.session != nil:
		return false
	case !d.lastScan.IsZero() && at.Sub(d.lastScan) < d.cfg.Cooldown:
		return false
	}
	return true
}

func (d *Driver) initialScan(s *Session) {
	res := Walk(s.root)
	s.Label = InferLabel(res.AllText, s.Label)
	d.emit(s, res.Entries)
}

func (d *Driver) emit(s *Session, entries []string) {
	fresh := d.sink.Emit(s.Label, entries)
	s.collected = append(s.collected, fresh...)
	if len(fresh) > 0 {
		d.log.Debug("new entries",
			zap.String("session", s.ID),
			zap.String("label", s.Label),
			zap.Strings("entries", fresh))
	}
}

func (d *Driver) schedule(s *Session, delay time.Duration) {
	d.sched.PostDelayed(func() { d.tick(s) }, delay)
}

type outcome int

const (
	outcomeAdvanced outcome = iota
	outcomeStalled
	outcomeExhausted
	outcomeAborted
)

func (d *Driver) tick(s *Session) {
	if d.session != s || s.State.Terminal() {
		return
	}
	first := s.Ticks == 0
	s.Ticks++

	var out outcome
	if err := protect(func() { out = d.step(s, first) }); err != nil {
		d.log.Error("pagination tick failed", zap.String("session", s.ID), zap.Error(err))
		out = outcomeStalled
	}

	switch out {
	case outcomeAborted:
		d.log.Info("monitoring stopped during scan", zap.String("session", s.ID))
		d.finish(s, StateAborted)
	case outcomeExhausted:
		d.log.Info("no scrollable list found", zap.String("session", s.ID))
		d.finish(s, StateSettled)
	case outcomeAdvanced:
		s.ConsecutiveFails = 0
		s.Attempts++
		if s.Attempts >= d.cfg.MaxAttempts {
			d.log.Info("max scroll attempts reached",
				zap.String("session", s.ID), zap.Int("attempts", s.Attempts))
			d.finish(s, StateSettled)
			return
		}
		d.publish(s)
		d.schedule(s, d.cfg.AdvanceDelay)
	case outcomeStalled:
		s.ConsecutiveFails++
		if s.ConsecutiveFails >= d.cfg.MaxConsecutiveFails {
			d.log.Info("reached end of list",
				zap.String("session", s.ID),
				zap.Int("attempts", s.Attempts),
				zap.Int("fails", s.ConsecutiveFails))
			d.finish(s, StateSettled)
			return
		}
		d.publish(s)
		d.schedule(s, d.cfg.RetryDelay)
	}
}

// step performs one pagination tick against the session's root.
func (d *Driver) step(s *Session, first bool) outcome {
	if !d.monitor.Active() {
		return outcomeAborted
	}

	container := d.locate(s, first)
	if container == nil {
		if first {
			return outcomeExhausted
		}
		return outcomeStalled
	}
	if container != s.root {
		defer container.Release()
	}

	container.Refresh()
	if !container.Focused() {
		container.RequestFocus()
	}
	advanced := container.ScrollForward()
	d.log.Debug("scroll attempt",
		zap.String("session", s.ID),
		zap.Bool("advanced", advanced),
		zap.Int("attempts", s.Attempts))

	if !advanced && !first {
		return outcomeStalled
	}
	s.ConsecutiveFails = 0
	res := Walk(s.root)
	if first {
		s.Label = InferLabel(res.AllText, s.Label)
	}
	d.emit(s, res.Entries)
	return outcomeAdvanced
}

func (d *Driver) locate(s *Session, first bool) platform.Node {
	n := LocateScrollable(s.root, s.Namespace, Strict)
	if n == nil && first {
		d.log.Debug("no list container on first attempt, retrying with broader search",
			zap.String("session", s.ID))
		n = LocateScrollable(s.root, s.Namespace, Permissive)
	}
	return n
}

func (d *Driver) finish(s *Session, state State) {
	if state == StateSettled {
		if err := protect(func() { d.sink.Flush(s.Label, s.Collected()) }); err != nil {
			d.log.Error("final flush failed", zap.String("session", s.ID), zap.Error(err))
		}
	}
	s.root.Release()
	if d.session == s {
		d.session = nil
	}
	d.transition(s, state)
	d.log.Info("scan finished",
		zap.String("session", s.ID),
		zap.String("state", string(state)),
		zap.String("label", s.Label),
		zap.Int("entries", len(s.collected)))
}

func (d *Driver) transition(s *Session, state State) {
	s.State = state
	d.publish(s)
}

func (d *Driver) publish(s *Session) {
	st := s.status()
	d.mu.Lock()
	d.last = st
	d.mu.Unlock()
	if d.onState != nil {
		d.onState(st)
	}
}

// protect runs fn and converts a panic into an error.
func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	fn()
	return nil
}
