// Package memtree serves platform.Node handles over an in-memory element
// tree. Every handle addresses its element by child path and re-resolves
// children against the live rendering, so a root obtained before a scroll
// still reaches the rows revealed after it.
package memtree

import (
	"slices"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
)

// Renderer produces the current tree and applies actions to it.
type Renderer interface {
	Render() model.Element
	// Scroll performs a forward scroll on the element at path.
	Scroll(path []int) bool
	// Focus moves input focus to the element at path.
	Focus(path []int) bool
}

// Tree hands out node handles for a renderer.
type Tree struct {
	r    Renderer
	pool *Pool
}

// New returns a tree over r. A nil pool is unbounded.
func New(r Renderer, pool *Pool) *Tree {
	if pool == nil {
		pool = NewPool(0)
	}
	return &Tree{r: r, pool: pool}
}

// Pool returns the handle pool backing the tree.
func (t *Tree) Pool() *Pool {
	return t.pool
}

// Root returns a handle to the root element, or nil if the pool is exhausted.
func (t *Tree) Root() platform.Node {
	n := t.acquire(nil, t.r.Render())
	if n == nil {
		return nil
	}
	return n
}

func (t *Tree) acquire(path []int, el model.Element) *node {
	if !t.pool.acquire() {
		return nil
	}
	return &node{tree: t, path: path, el: el}
}

type node struct {
	tree     *Tree
	path     []int
	el       model.Element
	released bool
}

func (n *node) Text() string { return n.el.Text }
func (n *node) ViewID() string { return n.el.ViewID }
func (n *node) Class() string { return n.el.Class }
func (n *node) Visible() bool { return n.el.Visible() }
func (n *node) Scrollable() bool { return n.el.Scrollable }
func (n *node) Focused() bool { return n.el.Focused }
func (n *node) ChildCount() int { return len(n.el.Children) }

func (n *node) Child(i int) platform.Node {
	if n.released {
		return nil
	}
	path := append(slices.Clone(n.path), i)
	el, ok := n.tree.r.Render().At(path)
	if !ok {
		return nil
	}
	c := n.tree.acquire(path, el)
	if c == nil {
		return nil
	}
	return c
}

func (n *node) Refresh() bool {
	el, ok := n.tree.r.Render().At(n.path)
	if !ok {
		return false
	}
	n.el = el
	return true
}

func (n *node) ScrollForward() bool {
	if n.released || !n.el.Scrollable {
		return false
	}
	return n.tree.r.Scroll(n.path)
}

func (n *node) RequestFocus() bool {
	if n.released {
		return false
	}
	if !n.tree.r.Focus(n.path) {
		return false
	}
	n.el.Focused = true
	return true
}

func (n *node) Release() {
	if n.released {
		return
	}
	n.released = true
	n.tree.pool.release()
}

// Static renders a fixed tree. Scrolling always fails; focus is accepted.
type Static struct {
	Root model.Element
}

func (s Static) Render() model.Element { return s.Root }

func (s Static) Scroll(path []int) bool { return false }

func (s Static) Focus(path []int) bool {
	_, ok := s.Root.At(path)
	return ok
}
