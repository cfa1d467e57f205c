package platform

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Provider bundles the platform backends the harvester consumes.
type Provider struct {
	Observer Observer
	Window   Window
}

// Options selects what the provider should attach to.
type Options struct {
	// Scenario is the path of a recorded or simulated list description.
	Scenario string
	// Interval, when non-zero, makes the observer re-deliver tree events
	// periodically in addition to change notifications.
	Interval time.Duration
	Logger   *zap.Logger
}

// ErrUnsupported is returned when no platform backend is registered.
var ErrUnsupported = errors.New("no accessibility backend registered for this build")

// ErrNoScenario is returned when a backend needs a scenario path and none was given.
var ErrNoScenario = errors.New("a scenario file is required (use --scenario)")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/sim/init.go for the simulator registration.
var NewProviderFunc func(opts Options) (*Provider, error)

// NewProvider returns a Provider from the registered backend.
func NewProvider(opts Options) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
