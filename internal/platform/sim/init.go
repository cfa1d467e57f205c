package sim

import (
	"github.com/mj1618/listscan/internal/platform"
)

func init() {
	platform.NewProviderFunc = NewProvider
}

// NewProvider loads the scenario named in opts and serves it as the active
// window.
func NewProvider(opts platform.Options) (*platform.Provider, error) {
	if opts.Scenario == "" {
		return nil, platform.ErrNoScenario
	}
	sc, err := LoadScenario(opts.Scenario)
	if err != nil {
		return nil, err
	}
	list := NewList(sc)
	return &platform.Provider{
		Observer: &Observer{List: list, Path: opts.Scenario, Interval: opts.Interval, Log: opts.Logger},
		Window:   list,
	}, nil
}
