package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/listscan/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ReadResult is the top-level output of the `read` command.
type ReadResult struct {
	Package  string          `yaml:"package,omitempty" json:"package,omitempty"`
	TS       int64           `yaml:"ts"                json:"ts"`
	Elements []model.Element `yaml:"elements"          json:"elements"`
}

// ReadFlatResult is the top-level output when --flat is used.
type ReadFlatResult struct {
	Package  string              `yaml:"package,omitempty" json:"package,omitempty"`
	TS       int64               `yaml:"ts"                json:"ts"`
	Elements []model.FlatElement `yaml:"elements"          json:"elements"`
}

// ScanResult summarizes one finished harvest.
type ScanResult struct {
	Package  string   `yaml:"package"  json:"package"`
	Session  string   `yaml:"session"  json:"session"`
	State    string   `yaml:"state"    json:"state"`
	Label    string   `yaml:"label"    json:"label"`
	Ticks    int      `yaml:"ticks"    json:"ticks"`
	Attempts int      `yaml:"attempts" json:"attempts"`
	Entries  []string `yaml:"entries"  json:"entries"`
}

// ClassifyResult is one line of `classify` output.
type ClassifyResult struct {
	Text   string `yaml:"text"   json:"text"`
	Accept bool   `yaml:"accept" json:"accept"`
	Reason string `yaml:"reason" json:"reason"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return writeJSON(w, v, PrettyOutput)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	return writeJSON(os.Stdout, v, false)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	return writeJSON(os.Stdout, v, true)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	return writeYAML(os.Stdout, v)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
