package model

import (
	"strconv"
	"time"
)

// ChangeType represents the kind of tree change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// TreeChange is a single difference between two reads of a window.
type TreeChange struct {
	Type    ChangeType           `json:"type"`
	TS      int64                `json:"ts"`
	Element *FlatElement         `json:"el,omitempty"`      // added: the full element
	Index   int                  `json:"i,omitempty"`       // removed/changed: document-order index
	Class   string               `json:"c,omitempty"`       // removed: class code
	Text    string               `json:"t,omitempty"`       // removed: text
	Changes map[string][2]string `json:"changes,omitempty"` // changed: field diffs
}

// DiffElements compares two flat element lists and returns the changes.
// Elements are matched by their document-order index, so a scrolled list
// shows up as text changes on the recycled rows.
func DiffElements(prev, curr []FlatElement) []TreeChange {
	prevMap := make(map[int]FlatElement, len(prev))
	for _, el := range prev {
		prevMap[el.Index] = el
	}
	currMap := make(map[int]FlatElement, len(curr))
	for _, el := range curr {
		currMap[el.Index] = el
	}

	var changes []TreeChange
	now := time.Now().UnixMilli()

	for _, el := range curr {
		prevEl, existed := prevMap[el.Index]
		if !existed {
			elCopy := el
			changes = append(changes, TreeChange{
				Type:    ChangeAdded,
				TS:      now,
				Element: &elCopy,
			})
			continue
		}
		if diffs := diffProperties(prevEl, el); len(diffs) > 0 {
			changes = append(changes, TreeChange{
				Type:    ChangeChanged,
				TS:      now,
				Index:   el.Index,
				Changes: diffs,
			})
		}
	}

	for _, el := range prev {
		if _, exists := currMap[el.Index]; !exists {
			changes = append(changes, TreeChange{
				Type:  ChangeRemoved,
				TS:    now,
				Index: el.Index,
				Class: el.Class,
				Text:  el.Text,
			})
		}
	}

	return changes
}

// diffProperties compares two elements and returns changed fields keyed by
// their compact output names.
func diffProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Class != curr.Class {
		diffs["c"] = [2]string{prev.Class, curr.Class}
	}
	if prev.Text != curr.Text {
		diffs["t"] = [2]string{prev.Text, curr.Text}
	}
	if prev.ViewID != curr.ViewID {
		diffs["id"] = [2]string{prev.ViewID, curr.ViewID}
	}
	if prev.Path != curr.Path {
		diffs["p"] = [2]string{prev.Path, curr.Path}
	}
	if prev.Hidden != curr.Hidden {
		diffs["hidden"] = boolDiff(prev.Hidden, curr.Hidden)
	}
	if prev.Scrollable != curr.Scrollable {
		diffs["scroll"] = boolDiff(prev.Scrollable, curr.Scrollable)
	}
	if prev.Focused != curr.Focused {
		diffs["f"] = boolDiff(prev.Focused, curr.Focused)
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func boolDiff(a, b bool) [2]string {
	return [2]string{strconv.FormatBool(a), strconv.FormatBool(b)}
}
