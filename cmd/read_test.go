package cmd

import (
	"testing"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform/sim"
)

func TestReadCommand_Flags(t *testing.T) {
	flags := readCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"depth", "int"},
		{"text", "string"},
		{"visible-only", "bool"},
		{"prune", "bool"},
		{"flat", "bool"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestReadWindow(t *testing.T) {
	sc, err := sim.ParseScenario([]byte("viewport: 2\nrows: [{name: Alice}, {name: Bob, hidden: true}, {name: Carol}]"))
	if err != nil {
		t.Fatal(err)
	}
	list := sim.NewList(sc)

	elements, err := readWindow(list, 0)
	if err != nil {
		t.Fatal(err)
	}
	if live := list.Pool().Live(); live != 0 {
		t.Errorf("read leaked %d handles", live)
	}

	visible := refineElements(elements, "", true, false)
	flat := model.FlattenElements(visible)
	for _, el := range flat {
		if el.Text == "Bob" {
			t.Error("hidden row should be pruned")
		}
	}

	matched := refineElements(elements, "alice", false, false)
	if len(matched) != 1 || len(model.FlattenElements(matched)) != 4 {
		t.Errorf("text filter should keep Alice with its ancestors, got %+v", model.FlattenElements(matched))
	}

	if got := refineElements(elements, "nobody", true, true); got == nil || len(got) != 0 {
		t.Errorf("no match should yield an empty list, got %v", got)
	}
}
