// Package config loads listscan settings from defaults, an optional YAML
// file and LISTSCAN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/sink"
)

// Config is the full set of tunables.
type Config struct {
	Targets             []string      `mapstructure:"targets"`
	Cooldown            time.Duration `mapstructure:"cooldown"`
	InitialDelay        time.Duration `mapstructure:"initial_delay"`
	AdvanceDelay        time.Duration `mapstructure:"advance_delay"`
	RetryDelay          time.Duration `mapstructure:"retry_delay"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	MaxConsecutiveFails int           `mapstructure:"max_consecutive_fails"`

	StateFile       string        `mapstructure:"state_file"`
	EventMethod     string        `mapstructure:"event_method"`
	SendAttempts    uint          `mapstructure:"send_attempts"`
	SendDelay       time.Duration `mapstructure:"send_delay"`
	Scenario        string        `mapstructure:"scenario"`
	ObserveInterval time.Duration `mapstructure:"observe_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	h := harvest.DefaultConfig()
	return Config{
		Targets:             h.Targets,
		Cooldown:            h.Cooldown,
		InitialDelay:        h.InitialDelay,
		AdvanceDelay:        h.AdvanceDelay,
		RetryDelay:          h.RetryDelay,
		MaxAttempts:         h.MaxAttempts,
		MaxConsecutiveFails: h.MaxConsecutiveFails,
		StateFile:           defaultStateFile(),
		EventMethod:         sink.DefaultMethod,
		SendAttempts:        3,
		SendDelay:           100 * time.Millisecond,
	}
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".listscan", "state.yaml")
	}
	return filepath.Join(home, ".listscan", "state.yaml")
}

// Harvest returns the driver settings.
func (c Config) Harvest() harvest.Config {
	return harvest.Config{
		Targets:             c.Targets,
		Cooldown:            c.Cooldown,
		InitialDelay:        c.InitialDelay,
		AdvanceDelay:        c.AdvanceDelay,
		RetryDelay:          c.RetryDelay,
		MaxAttempts:         c.MaxAttempts,
		MaxConsecutiveFails: c.MaxConsecutiveFails,
	}
}

// Validate rejects settings the driver cannot run with.
func (c Config) Validate() error {
	switch {
	case len(c.Targets) == 0:
		return errors.New("targets: at least one package is required")
	case c.MaxAttempts < 1:
		return fmt.Errorf("max_attempts: must be positive, got %d", c.MaxAttempts)
	case c.MaxConsecutiveFails < 1:
		return fmt.Errorf("max_consecutive_fails: must be positive, got %d", c.MaxConsecutiveFails)
	case c.Cooldown < 0 || c.InitialDelay < 0 || c.AdvanceDelay < 0 || c.RetryDelay < 0:
		return errors.New("delays must not be negative")
	}
	return nil
}

// Manager loads configuration and optionally reloads it when the file changes.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    Config
	callbacks []func(Config)
}

// Load reads cfgFile, or listscan.yaml from . or $HOME/.listscan when
// cfgFile is empty. A missing default file is not an error.
func Load(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.init(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) init(cfgFile string) error {
	d := Default()
	v := m.v
	v.SetDefault("targets", d.Targets)
	v.SetDefault("cooldown", d.Cooldown)
	v.SetDefault("initial_delay", d.InitialDelay)
	v.SetDefault("advance_delay", d.AdvanceDelay)
	v.SetDefault("retry_delay", d.RetryDelay)
	v.SetDefault("max_attempts", d.MaxAttempts)
	v.SetDefault("max_consecutive_fails", d.MaxConsecutiveFails)
	v.SetDefault("state_file", d.StateFile)
	v.SetDefault("event_method", d.EventMethod)
	v.SetDefault("send_attempts", d.SendAttempts)
	v.SetDefault("send_delay", d.SendDelay)
	v.SetDefault("scenario", d.Scenario)
	v.SetDefault("observe_interval", d.ObserveInterval)

	v.SetEnvPrefix("LISTSCAN")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("listscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.listscan")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() (Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Get returns the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// File reports the config file in use, if any.
func (m *Manager) File() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers fn to receive every successfully reloaded config.
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Watch reloads the configuration whenever the config file changes. Invalid
// edits are reported to onError and the previous config stays in effect.
func (m *Manager) Watch(onError func(error)) {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := m.load()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		m.mu.Lock()
		m.config = cfg
		callbacks := make([]func(Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	m.v.WatchConfig()
}
