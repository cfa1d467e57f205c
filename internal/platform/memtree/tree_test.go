package memtree

import (
	"testing"

	"github.com/mj1618/listscan/internal/model"
)

// pager renders a list whose rows shift by one on every scroll.
type pager struct {
	rows   []string
	offset int
	window int
}

func (p *pager) Render() model.Element {
	list := model.Element{Class: "androidx.recyclerview.widget.RecyclerView", Scrollable: true}
	for i := p.offset; i < len(p.rows) && i < p.offset+p.window; i++ {
		list.Children = append(list.Children, model.Element{Class: "android.widget.TextView", Text: p.rows[i]})
	}
	return model.Element{Class: "android.widget.FrameLayout", Children: []model.Element{list}}
}

func (p *pager) Scroll(path []int) bool {
	if len(path) != 1 || p.offset+p.window >= len(p.rows) {
		return false
	}
	p.offset++
	return true
}

func (p *pager) Focus(path []int) bool { return true }

func TestTree_ChildrenReflectLiveContent(t *testing.T) {
	p := &pager{rows: []string{"Alice", "Bob", "Carol"}, window: 2}
	tree := New(p, nil)
	root := tree.Root()
	defer root.Release()

	list := root.Child(0)
	if list == nil {
		t.Fatal("expected list child")
	}
	if !list.ScrollForward() {
		t.Fatal("first scroll should succeed")
	}
	list.Release()

	// The root handle predates the scroll but still reaches the new rows.
	list = root.Child(0)
	defer list.Release()
	first := list.Child(0)
	defer first.Release()
	if first.Text() != "Bob" {
		t.Errorf("after scroll first row = %q, want Bob", first.Text())
	}
	if list.ScrollForward() {
		t.Error("scroll at end of list should fail")
	}
}

func TestTree_ReleaseBalancesPool(t *testing.T) {
	tree := New(Static{Root: model.Element{Children: []model.Element{{Text: "a"}, {Text: "b"}}}}, nil)
	root := tree.Root()
	for i := 0; i < root.ChildCount(); i++ {
		c := root.Child(i)
		c.Release()
		c.Release() // second release is a no-op
	}
	root.Release()
	if live := tree.Pool().Live(); live != 0 {
		t.Errorf("expected 0 live handles, got %d", live)
	}
	if got := tree.Pool().Acquired(); got != 3 {
		t.Errorf("expected 3 acquired handles, got %d", got)
	}
}

func TestTree_BoundedPool(t *testing.T) {
	tree := New(Static{Root: model.Element{Children: []model.Element{{Text: "a"}, {Text: "b"}}}}, NewPool(2))
	root := tree.Root()
	a := root.Child(0)
	if a == nil {
		t.Fatal("second handle should fit in pool")
	}
	if b := root.Child(1); b != nil {
		t.Error("pool of 2 should refuse a third handle")
	}
	a.Release()
	b := root.Child(1)
	if b == nil {
		t.Fatal("released slot should be reusable")
	}
	b.Release()
	root.Release()
}

func TestTree_MissingChild(t *testing.T) {
	tree := New(Static{Root: model.Element{}}, nil)
	root := tree.Root()
	defer root.Release()
	if c := root.Child(3); c != nil {
		t.Error("out of range child should be nil")
	}
	if tree.Pool().Live() != 1 {
		t.Error("failed child lookup must not leak a handle")
	}
}

func TestTree_FocusAndRefresh(t *testing.T) {
	tree := New(Static{Root: model.Element{Children: []model.Element{{Text: "a"}}}}, nil)
	root := tree.Root()
	defer root.Release()
	c := root.Child(0)
	defer c.Release()
	if c.Focused() {
		t.Fatal("node should start unfocused")
	}
	if !c.RequestFocus() || !c.Focused() {
		t.Error("focus request should be reflected on the handle")
	}
	if !c.Refresh() {
		t.Error("refresh of existing node should succeed")
	}
	if c.ScrollForward() {
		t.Error("non-scrollable node should not scroll")
	}
}
