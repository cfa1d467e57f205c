package model

// Element is one node of a rendered accessibility tree as the foreign app
// exposes it. Hidden is used instead of a visible flag so the zero value
// describes an on-screen node.
type Element struct {
	Text       string    `yaml:"text,omitempty"       json:"text,omitempty"`
	ViewID     string    `yaml:"id,omitempty"         json:"id,omitempty"`
	Class      string    `yaml:"class,omitempty"      json:"class,omitempty"`
	Hidden     bool      `yaml:"hidden,omitempty"     json:"hidden,omitempty"`
	Scrollable bool      `yaml:"scrollable,omitempty" json:"scrollable,omitempty"`
	Focused    bool      `yaml:"focused,omitempty"    json:"focused,omitempty"`
	Children   []Element `yaml:"children,omitempty"   json:"children,omitempty"`
}

// Visible reports whether the element is shown to the user.
func (e Element) Visible() bool {
	return !e.Hidden
}

// At resolves a child path (indexes from this element downwards).
// The second result is false when the path no longer exists.
func (e Element) At(path []int) (Element, bool) {
	cur := e
	for _, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return Element{}, false
		}
		cur = cur.Children[i]
	}
	return cur, true
}

// Count returns the number of elements in the subtree, including e.
func (e Element) Count() int {
	n := 1
	for _, c := range e.Children {
		n += c.Count()
	}
	return n
}
