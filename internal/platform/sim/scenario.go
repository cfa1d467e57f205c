// Package sim emulates a messaging app's virtualized chat list. The list is
// described by a YAML scenario and only the rows inside the viewport are
// present in the tree at any time.
package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Row is one chat in the list.
type Row struct {
	Name    string `yaml:"name"`
	Time    string `yaml:"time,omitempty"`
	Preview string `yaml:"preview,omitempty"`
	Unread  int    `yaml:"unread,omitempty"`
	Hidden  bool   `yaml:"hidden,omitempty"`
}

// Scenario describes the emulated screen.
type Scenario struct {
	Package string `yaml:"package"`
	// Title, when set, is shown in a toolbar above the list.
	Title string `yaml:"title,omitempty"`
	// Category, when set, replaces the toolbar with a "<category> / <n> items"
	// header as shown for a single list view.
	Category string   `yaml:"category,omitempty"`
	Filters  []string `yaml:"filters,omitempty"`
	Tabs     []string `yaml:"tabs,omitempty"`
	Rows     []Row    `yaml:"rows"`
	// Viewport is how many rows are materialized at once.
	Viewport int `yaml:"viewport,omitempty"`
	// Step is how many rows one forward scroll advances.
	Step int `yaml:"step,omitempty"`
	// MaxHandles bounds live node handles. Zero is unbounded.
	MaxHandles int `yaml:"max_handles,omitempty"`
	// ListClass and ListID override the list container's identity.
	ListClass string `yaml:"list_class,omitempty"`
	ListID    string `yaml:"list_id,omitempty"`
}

const (
	defaultPackage   = "com.whatsapp"
	defaultViewport  = 8
	defaultListClass = "androidx.recyclerview.widget.RecyclerView"
)

// LoadScenario reads a scenario from path and fills in defaults.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML and fills in defaults.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	sc.withDefaults()
	if sc.Viewport < 1 || sc.Step < 1 {
		return Scenario{}, fmt.Errorf("scenario: viewport and step must be positive")
	}
	return sc, nil
}

func (sc *Scenario) withDefaults() {
	if sc.Package == "" {
		sc.Package = defaultPackage
	}
	if sc.Viewport == 0 {
		sc.Viewport = defaultViewport
	}
	if sc.Step == 0 {
		sc.Step = sc.Viewport
	}
	if sc.ListClass == "" {
		sc.ListClass = defaultListClass
	}
	if sc.ListID == "" {
		sc.ListID = "chat_list"
	}
}
