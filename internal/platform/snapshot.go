package platform

import "github.com/mj1618/listscan/internal/model"

// Capture copies the tree under n into plain elements, descending at most
// maxDepth levels (0 = unlimited). Child handles are released as they are
// copied; n stays owned by the caller.
func Capture(n Node, maxDepth int) model.Element {
	return capture(n, maxDepth, 1)
}

func capture(n Node, maxDepth, depth int) model.Element {
	el := model.Element{
		Text:       n.Text(),
		ViewID:     n.ViewID(),
		Class:      n.Class(),
		Hidden:     !n.Visible(),
		Scrollable: n.Scrollable(),
		Focused:    n.Focused(),
	}
	if maxDepth > 0 && depth >= maxDepth {
		return el
	}
	for i := 0; i < n.ChildCount(); i++ {
		if c, ok := captureChild(n, i, maxDepth, depth+1); ok {
			el.Children = append(el.Children, c)
		}
	}
	return el
}

func captureChild(n Node, i, maxDepth, depth int) (model.Element, bool) {
	child := n.Child(i)
	if child == nil {
		return model.Element{}, false
	}
	defer child.Release()
	return capture(child, maxDepth, depth), true
}
