package harvest

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mj1618/listscan/internal/platform"
)

func runLoop(t *testing.T) (*Loop, context.CancelFunc, <-chan error) {
	t.Helper()
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return l, cancel, done
}

func TestLoop_RunsTasksInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, cancel, done := runLoop(t)

	var (
		mu  sync.Mutex
		got []int
	)
	finished := make(chan struct{})
	for i := range 5 {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 4 {
				close(finished)
			}
		})
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v, want ascending", got)
		}
	}
}

func TestLoop_DelayedTaskRunsAfterImmediate(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, cancel, done := runLoop(t)
	defer func() {
		cancel()
		<-done
	}()

	order := make(chan string, 2)
	l.PostDelayed(func() { order <- "delayed" }, 20*time.Millisecond)
	l.Post(func() { order <- "now" })

	for _, want := range []string{"now", "delayed"} {
		select {
		case got := <-order:
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, cancel, done := runLoop(t)
	defer func() {
		cancel()
		<-done
	}()

	ran := make(chan struct{})
	l.Post(func() { panic("boom") })
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after a panicking task")
	}
}

func TestLoop_StopDropsPendingTimers(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, cancel, done := runLoop(t)

	fired := make(chan struct{}, 1)
	l.PostDelayed(func() { fired <- struct{}{} }, time.Hour)
	cancel()
	<-done

	l.Post(func() { fired <- struct{}{} })
	select {
	case <-fired:
		t.Error("task ran after the loop stopped")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoop_DrivesSession(t *testing.T) {
	defer goleak.VerifyNone(t)
	l, cancel, done := runLoop(t)
	defer func() {
		cancel()
		<-done
	}()

	cfg := DefaultConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.AdvanceDelay = time.Millisecond
	cfg.RetryDelay = time.Millisecond

	settled := make(chan Status, 1)
	d := NewDriver(cfg, &fakeMonitor{active: true, label: "All"}, newRecordingSink(), l,
		WithStateHook(func(st Status) {
			if st.State.Terminal() {
				settled <- st
			}
		}))

	list := newChatList("Alice", "Bob", "Carol", "Dave", "Erin")
	d.Submit(platform.TreeEvent{Package: testNS, Window: windowFor(list)})

	select {
	case st := <-settled:
		if st.State != StateSettled || st.Entries != 5 {
			t.Errorf("final status = %+v, want settled with 5 entries", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not settle")
	}
}
