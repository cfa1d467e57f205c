package platform

import (
	"context"
	"time"
)

// Node is a handle to one element of a foreign app's accessibility tree.
// Handles come from a finite platform-side pool: every handle obtained from
// Window.Root or Node.Child must be released exactly once.
type Node interface {
	Text() string
	ViewID() string
	Class() string
	Visible() bool
	Scrollable() bool
	Focused() bool
	ChildCount() int

	// Child returns the i-th child or nil when it is no longer available.
	Child(i int) Node

	// Refresh re-reads the node's attributes from the live tree.
	Refresh() bool

	// ScrollForward asks the node to reveal its next page of content and
	// reports whether the platform accepted the action.
	ScrollForward() bool

	RequestFocus() bool
	Release()
}

// Window is the foreign app window an event refers to.
type Window interface {
	// Root returns the root of the current tree, or nil when unavailable.
	Root() Node
	// Package is the foreign app's package id; view ids are namespaced by it.
	Package() string
}

// TreeEvent is delivered whenever a foreign app's tree changes.
type TreeEvent struct {
	Package string
	At      time.Time
	Window  Window
}

// Observer delivers tree-changed notifications until ctx is done.
type Observer interface {
	Observe(ctx context.Context, events chan<- TreeEvent) error
}

// Channel publishes results to the host process by method name.
type Channel interface {
	InvokeMethod(method string, payload string) error
}
