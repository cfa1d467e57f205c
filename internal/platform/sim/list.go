package sim

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/platform/memtree"
)

// List renders a scenario as an accessibility tree and applies scroll and
// focus actions to it. It implements platform.Window.
type List struct {
	tree *memtree.Tree

	mu       sync.Mutex
	sc       Scenario
	offset   int
	focused  bool
	scrolls  int
	listPath []int
}

// NewList returns a list showing the top of sc.
func NewList(sc Scenario) *List {
	l := &List{sc: sc}
	l.tree = memtree.New(l, memtree.NewPool(sc.MaxHandles))
	return l
}

// Root implements platform.Window.
func (l *List) Root() platform.Node {
	return l.tree.Root()
}

// Package implements platform.Window.
func (l *List) Package() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sc.Package
}

// Pool exposes handle accounting.
func (l *List) Pool() *memtree.Pool {
	return l.tree.Pool()
}

// Replace swaps in a new scenario and scrolls back to the top.
func (l *List) Replace(sc Scenario) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sc = sc
	l.offset = 0
	l.focused = false
}

// Offset returns the index of the first materialized row.
func (l *List) Offset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offset
}

// Scrolls returns how many scroll actions were requested.
func (l *List) Scrolls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrolls
}

func (l *List) id(name string) string {
	return l.sc.Package + ":id/" + name
}

// Render implements memtree.Renderer.
func (l *List) Render() model.Element {
	l.mu.Lock()
	defer l.mu.Unlock()

	root := model.Element{Class: "android.widget.FrameLayout", ViewID: l.id("root")}
	if l.sc.Category != "" {
		root.Children = append(root.Children, model.Element{
			Class: "android.widget.LinearLayout",
			Children: []model.Element{
				text(l.sc.Category, ""),
				text(fmt.Sprintf("%d items", len(l.sc.Rows)), ""),
			},
		})
	} else {
		if l.sc.Title != "" {
			root.Children = append(root.Children, model.Element{
				Class:    "android.view.ViewGroup",
				ViewID:   l.id("toolbar"),
				Children: []model.Element{text(l.sc.Title, l.id("toolbar_title"))},
			})
		}
		if len(l.sc.Filters) > 0 {
			chips := model.Element{Class: "android.widget.HorizontalScrollView", ViewID: l.id("filter_chips")}
			for _, f := range l.sc.Filters {
				chips.Children = append(chips.Children, model.Element{Class: "android.widget.Button", Text: f})
			}
			root.Children = append(root.Children, chips)
		}
	}

	l.listPath = []int{len(root.Children)}
	root.Children = append(root.Children, l.renderList())

	if l.sc.Category == "" && len(l.sc.Tabs) > 0 {
		tabs := model.Element{Class: "android.widget.TabWidget", ViewID: l.id("bottom_nav")}
		for _, t := range l.sc.Tabs {
			tabs.Children = append(tabs.Children, text(t, ""))
		}
		root.Children = append(root.Children, tabs)
	}
	return root
}

func (l *List) renderList() model.Element {
	list := model.Element{
		Class:      l.sc.ListClass,
		ViewID:     l.id(l.sc.ListID),
		Scrollable: true,
		Focused:    l.focused,
	}
	end := min(l.offset+l.sc.Viewport, len(l.sc.Rows))
	for _, r := range l.sc.Rows[l.offset:end] {
		row := model.Element{
			Class:    "android.widget.LinearLayout",
			ViewID:   l.id("contact_row_container"),
			Hidden:   r.Hidden,
			Children: []model.Element{text(r.Name, l.id("conversations_row_contact_name"))},
		}
		if r.Time != "" {
			row.Children = append(row.Children, text(r.Time, l.id("conversations_row_date")))
		}
		if r.Preview != "" {
			row.Children = append(row.Children, text(r.Preview, l.id("single_msg_tv")))
		}
		if r.Unread > 0 {
			row.Children = append(row.Children, text(strconv.Itoa(r.Unread), l.id("conversations_row_message_count")))
		}
		if r.Hidden {
			for i := range row.Children {
				row.Children[i].Hidden = true
			}
		}
		list.Children = append(list.Children, row)
	}
	return list
}

func text(s, id string) model.Element {
	return model.Element{Class: "android.widget.TextView", Text: s, ViewID: id}
}

// Scroll implements memtree.Renderer. Only the list scrolls, and it refuses
// once the last row is materialized.
func (l *List) Scroll(path []int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scrolls++
	if !slices.Equal(path, l.listPath) {
		return false
	}
	if l.offset+l.sc.Viewport >= len(l.sc.Rows) {
		return false
	}
	l.offset = min(l.offset+l.sc.Step, len(l.sc.Rows)-l.sc.Viewport)
	return true
}

// Focus implements memtree.Renderer.
func (l *List) Focus(path []int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Equal(path, l.listPath) {
		return false
	}
	l.focused = true
	return true
}
