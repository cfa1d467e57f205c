package harvest

import (
	"iter"
	"strings"

	"github.com/mj1618/listscan/internal/platform"
)

// WalkResult is what one pass over a snapshot produced.
type WalkResult struct {
	// Entries are accepted, visible texts in document order without repeats.
	Entries []string
	// AllText is every usable text value in document order.
	AllText []string
}

// Walk visits every node under node in pre-order, collecting all text and
// the texts the classifier accepts. Child handles are released as the walk
// leaves them; node itself stays owned by the caller.
func Walk(node platform.Node) WalkResult {
	var res WalkResult
	seen := make(map[string]bool)
	visit(node, func(text string, visible bool) bool {
		res.AllText = append(res.AllText, text)
		if visible && Classify(text).Accept && !seen[text] {
			seen[text] = true
			res.Entries = append(res.Entries, text)
		}
		return true
	})
	return res
}

// Entries returns the accepted entries under node as a one-shot sequence.
// The tree is read lazily while the sequence is consumed; stopping early
// releases every handle acquired so far.
func Entries(node platform.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]bool)
		visit(node, func(text string, visible bool) bool {
			if !visible || seen[text] || !Classify(text).Accept {
				return true
			}
			seen[text] = true
			return yield(text)
		})
	}
}

// usableText trims text and drops values that can never be a row label.
func usableText(text string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "\n") || len([]rune(text)) <= 1 {
		return ""
	}
	return text
}

// visit calls fn for each node with usable text in pre-order until fn
// returns false.
func visit(node platform.Node, fn func(text string, visible bool) bool) bool {
	if text := usableText(node.Text()); text != "" {
		if !fn(text, node.Visible()) {
			return false
		}
	}
	for i := 0; i < node.ChildCount(); i++ {
		if !visitChild(node, i, fn) {
			return false
		}
	}
	return true
}

func visitChild(node platform.Node, i int, fn func(text string, visible bool) bool) bool {
	child := node.Child(i)
	if child == nil {
		return true
	}
	defer child.Release()
	return visit(child, fn)
}
