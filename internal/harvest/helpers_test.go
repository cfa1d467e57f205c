package harvest

import (
	"fmt"
	"sort"
	"time"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/platform/memtree"
)

const testNS = "com.whatsapp"

// manualScheduler runs posted tasks in virtual time.
type manualScheduler struct {
	now   time.Time
	seq   int
	tasks []scheduledTask
}

type scheduledTask struct {
	at  time.Time
	seq int
	fn  func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *manualScheduler) Post(fn func()) { m.PostDelayed(fn, 0) }

func (m *manualScheduler) PostDelayed(fn func(), d time.Duration) {
	m.tasks = append(m.tasks, scheduledTask{at: m.now.Add(d), seq: m.seq, fn: fn})
	m.seq++
}

func (m *manualScheduler) Now() time.Time { return m.now }

func (m *manualScheduler) Advance(d time.Duration) { m.now = m.now.Add(d) }

// step runs the earliest task, moving the clock to its due time.
func (m *manualScheduler) step() bool {
	if len(m.tasks) == 0 {
		return false
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if !m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].at.Before(m.tasks[j].at)
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	t := m.tasks[0]
	m.tasks = m.tasks[1:]
	if t.at.After(m.now) {
		m.now = t.at
	}
	t.fn()
	return true
}

// drain runs tasks until none remain or limit is hit, returning the count.
func (m *manualScheduler) drain(limit int) int {
	n := 0
	for n < limit && m.step() {
		n++
	}
	return n
}

type recordingSink struct {
	seen    map[string]bool
	emitted []string
	labels  []string
	flushes [][]string
	resets  int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{seen: make(map[string]bool)}
}

func (r *recordingSink) Reset() {
	r.resets++
	r.seen = make(map[string]bool)
}

func (r *recordingSink) Emit(label string, entries []string) []string {
	var fresh []string
	for _, e := range entries {
		if r.seen[e] {
			continue
		}
		r.seen[e] = true
		fresh = append(fresh, e)
		r.emitted = append(r.emitted, e)
		r.labels = append(r.labels, label)
	}
	return fresh
}

func (r *recordingSink) Flush(label string, entries []string) {
	r.flushes = append(r.flushes, entries)
}

type fakeMonitor struct {
	active bool
	label  string
}

func (f *fakeMonitor) Active() bool  { return f.active }
func (f *fakeMonitor) Label() string { return f.label }

// chatList renders a WhatsApp-like screen whose list shows window rows
// starting at offset.
type chatList struct {
	header   []string
	rows     []string
	window   int
	offset   int
	scrolls  int
	endless  bool // every scroll succeeds and reveals generated rows
	stuck    bool // every scroll fails
	listID   string
	class    string
	panicOn  int // panic on the n-th render when > 0
	renders  int
}

func newChatList(rows ...string) *chatList {
	return &chatList{
		rows:   rows,
		window: 3,
		listID: testNS + ":id/chat_list",
		class:  "androidx.recyclerview.widget.RecyclerView",
	}
}

func (c *chatList) row(i int) string {
	if c.endless {
		return fmt.Sprintf("Contact %d", i)
	}
	return c.rows[i]
}

func (c *chatList) size() int {
	if c.endless {
		return c.offset + c.window
	}
	return len(c.rows)
}

func (c *chatList) Render() model.Element {
	c.renders++
	if c.panicOn > 0 && c.renders == c.panicOn {
		panic("render failed")
	}
	root := model.Element{Class: "android.widget.FrameLayout", ViewID: testNS + ":id/root"}
	for _, h := range c.header {
		root.Children = append(root.Children, model.Element{Class: "android.widget.TextView", Text: h})
	}
	list := model.Element{Class: c.class, ViewID: c.listID, Scrollable: true}
	for i := c.offset; i < c.size() && i < c.offset+c.window; i++ {
		list.Children = append(list.Children, model.Element{
			Class:  "android.widget.LinearLayout",
			ViewID: testNS + ":id/contact_row_container",
			Children: []model.Element{
				{Class: "android.widget.TextView", Text: c.row(i)},
			},
		})
	}
	root.Children = append(root.Children, list)
	root.Children = append(root.Children, model.Element{Class: "android.widget.TextView", Text: "Chats"})
	return root
}

func (c *chatList) Scroll(path []int) bool {
	c.scrolls++
	if c.stuck {
		return false
	}
	if !c.endless && c.offset+c.window >= len(c.rows) {
		return false
	}
	c.offset += c.window
	return true
}

func (c *chatList) Focus(path []int) bool { return true }

type testWindow struct {
	tree   *memtree.Tree
	pkg    string
	noRoot bool
}

func (w *testWindow) Root() platform.Node {
	if w.noRoot {
		return nil
	}
	return w.tree.Root()
}

func (w *testWindow) Package() string { return w.pkg }

func windowFor(r memtree.Renderer) *testWindow {
	return &testWindow{tree: memtree.New(r, nil), pkg: testNS}
}

func elementTree(el model.Element) (*memtree.Tree, platform.Node) {
	tree := memtree.New(memtree.Static{Root: el}, nil)
	return tree, tree.Root()
}

func txt(text string) model.Element {
	return model.Element{Class: "android.widget.TextView", Text: text}
}
