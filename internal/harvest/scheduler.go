package harvest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs tasks one at a time, in posting order, optionally after a
// delay. Everything the Driver does happens on its scheduler.
type Scheduler interface {
	Post(task func())
	PostDelayed(task func(), delay time.Duration)
}

// Loop is a Scheduler backed by a single goroutine.
type Loop struct {
	log *zap.Logger

	mu      sync.Mutex
	queue   []func()
	timers  map[*time.Timer]struct{}
	stopped bool
	wake    chan struct{}
}

// NewLoop returns a loop. Tasks are only run once Run is called.
func NewLoop(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		log:    log,
		timers: make(map[*time.Timer]struct{}),
		wake:   make(chan struct{}, 1),
	}
}

// Post queues task to run after every task queued before it.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// PostDelayed queues task once delay has elapsed.
func (l *Loop) PostDelayed(task func(), delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()
		l.Post(task)
	})
	l.timers[t] = struct{}{}
}

// Run executes queued tasks until ctx is done. Pending timers are stopped
// and queued tasks are dropped on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			l.run(task)
			if ctx.Err() != nil {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("scheduled task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	for t := range l.timers {
		t.Stop()
	}
	l.timers = nil
	l.queue = nil
}
