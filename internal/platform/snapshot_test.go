package platform_test

import (
	"testing"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/platform/memtree"
)

func TestCapture(t *testing.T) {
	src := model.Element{
		Class: "android.widget.FrameLayout",
		Children: []model.Element{
			{Class: "androidx.recyclerview.widget.RecyclerView", ViewID: "com.whatsapp:id/chat_list", Scrollable: true,
				Children: []model.Element{
					{Class: "android.widget.TextView", Text: "Alice"},
					{Class: "android.widget.TextView", Text: "Bob", Hidden: true},
				}},
		},
	}
	tree := memtree.New(memtree.Static{Root: src}, nil)
	root := tree.Root()

	got := platform.Capture(root, 0)
	if got.Count() != src.Count() {
		t.Errorf("captured %d elements, want %d", got.Count(), src.Count())
	}
	list := got.Children[0]
	if !list.Scrollable || list.ViewID != "com.whatsapp:id/chat_list" {
		t.Errorf("list attributes lost: %+v", list)
	}
	if !list.Children[1].Hidden {
		t.Error("hidden flag lost")
	}

	shallow := platform.Capture(root, 2)
	if len(shallow.Children) != 1 || len(shallow.Children[0].Children) != 0 {
		t.Errorf("depth 2 should stop below the list: %+v", shallow)
	}

	root.Release()
	if live := tree.Pool().Live(); live != 0 {
		t.Errorf("capture leaked %d handles", live)
	}
}

// failingRenderer panics on the n-th render.
type failingRenderer struct {
	memtree.Static
	renders int
	failAt  int
}

func (f *failingRenderer) Render() model.Element {
	f.renders++
	if f.renders == f.failAt {
		panic("render failed")
	}
	return f.Static.Render()
}

func TestCapture_ReleasesHandlesWhenTreeFails(t *testing.T) {
	r := &failingRenderer{Static: memtree.Static{Root: model.Element{Children: []model.Element{
		{Children: []model.Element{{Text: "Alice"}, {Text: "Bob"}}},
	}}}}
	tree := memtree.New(r, nil)
	root := tree.Root()
	r.failAt = r.renders + 3 // list, Alice, then Bob

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the render failure to propagate")
			}
		}()
		platform.Capture(root, 0)
	}()
	root.Release()

	if live := tree.Pool().Live(); live != 0 {
		t.Errorf("failed capture leaked %d handles", live)
	}
}
