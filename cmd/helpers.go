package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/listscan/internal/config"
	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/monitor"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/sink"
)

// currentConfig returns the loaded config, or defaults when the root
// pre-run did not execute (tests).
func currentConfig() config.Config {
	if conf == nil {
		return config.Default()
	}
	return conf.Get()
}

func cmdLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// openProvider attaches to the window named by --scenario or the config.
func openProvider(cfg config.Config) (*platform.Provider, error) {
	path := scenario
	if path == "" {
		path = cfg.Scenario
	}
	p, err := platform.NewProvider(platform.Options{
		Scenario: path,
		Interval: cfg.ObserveInterval,
		Logger:   cmdLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("open provider: %w", err)
	}
	return p, nil
}

// openMonitor restores the persisted monitoring state.
func openMonitor(cfg config.Config) (*monitor.State, error) {
	state, err := monitor.New(monitor.FileStore{Path: cfg.StateFile}, cmdLogger())
	if err != nil {
		return nil, fmt.Errorf("load monitoring state: %w", err)
	}
	return state, nil
}

// harvester is one driver with its scheduler, sink and event source.
type harvester struct {
	provider *platform.Provider
	monitor  *monitor.State
	sink     *sink.Sink
	loop     *harvest.Loop
	driver   *harvest.Driver
}

func newHarvester(cfg config.Config, p *platform.Provider, state *monitor.State, ch platform.Channel, opts ...harvest.Option) *harvester {
	l := cmdLogger()
	s := sink.New(ch,
		sink.WithMethod(cfg.EventMethod),
		sink.WithLogger(l.Named("sink")),
		sink.WithRetry(cfg.SendAttempts, cfg.SendDelay))
	loop := harvest.NewLoop(l.Named("loop"))
	opts = append([]harvest.Option{harvest.WithLogger(l.Named("driver"))}, opts...)
	return &harvester{
		provider: p,
		monitor:  state,
		sink:     s,
		loop:     loop,
		driver:   harvest.NewDriver(cfg.Harvest(), state, s, loop, opts...),
	}
}

// run feeds observer events to the driver until ctx is done or a component
// fails. The sink is drained before run returns.
func (h *harvester) run(ctx context.Context) error {
	defer h.sink.Close()

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan platform.TreeEvent)

	g.Go(func() error {
		return h.loop.Run(ctx)
	})
	if h.provider.Observer != nil {
		g.Go(func() error {
			if err := h.provider.Observer.Observe(ctx, events); err != nil {
				return fmt.Errorf("observe: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				h.driver.Submit(ev)
			}
		}
	})
	return g.Wait()
}
