package harvest

import (
	"strings"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/platform"
)

// Strategy selects how strictly LocateScrollable matches the list container.
type Strategy int

const (
	// Strict accepts scrollable virtualized lists or the well-known list ids.
	Strict Strategy = iota
	// Permissive accepts the first scrollable node of any type.
	Permissive
)

func (s Strategy) String() string {
	if s == Permissive {
		return "permissive"
	}
	return "strict"
}

// ListIDSuffixes are the view ids, relative to the app namespace, under
// which the foreign app exposes its main list.
var ListIDSuffixes = []string{"chat_list", "conversations"}

// ViewID returns the fully qualified view id for name in namespace ns.
func ViewID(ns, name string) string {
	return ns + ":id/" + name
}

// LocateScrollable searches the tree under root for the list container.
// It returns nil when nothing matches. The returned node may be root itself;
// any other returned node is owned by the caller and must be released.
func LocateScrollable(root platform.Node, ns string, strategy Strategy) platform.Node {
	if root == nil {
		return nil
	}
	if strategy == Permissive {
		return findFirst(root, func(n platform.Node) bool {
			return n.Scrollable()
		})
	}

	if isListContainer(root) {
		return root
	}
	ids := make(map[string]bool, len(ListIDSuffixes))
	for _, s := range ListIDSuffixes {
		ids[ViewID(ns, s)] = true
	}
	if n := findFirst(root, func(n platform.Node) bool {
		return ids[n.ViewID()] && n.Scrollable()
	}); n != nil {
		return n
	}
	return findFirst(root, isListContainer)
}

func isListContainer(n platform.Node) bool {
	return n.Scrollable() && model.IsVirtualizedList(n.Class())
}

// findFirst returns the first node in pre-order satisfying match. Every
// visited handle other than root and the match is released before return.
func findFirst(root platform.Node, match func(platform.Node) bool) platform.Node {
	if match(root) {
		return root
	}
	return findInChildren(root, match)
}

func findInChildren(node platform.Node, match func(platform.Node) bool) platform.Node {
	for i := 0; i < node.ChildCount(); i++ {
		if found := searchChild(node, i, match); found != nil {
			return found
		}
	}
	return nil
}

// searchChild returns the match under the i-th child of node. The child's
// handle is released on every path unless it is the match itself.
func searchChild(node platform.Node, i int, match func(platform.Node) bool) (found platform.Node) {
	child := node.Child(i)
	if child == nil {
		return nil
	}
	defer func() {
		if found != child {
			child.Release()
		}
	}()
	if match(child) {
		return child
	}
	return findInChildren(child, match)
}

// IsListView reports whether the tree looks like the foreign app's list
// screen, independently of whether a scrollable container can be found.
func IsListView(root platform.Node, ns string) bool {
	ids := map[string]bool{
		ViewID(ns, "contact_row_container"): true,
		ViewID(ns, "chat_list"):             true,
		ViewID(ns, "conversations"):         true,
	}
	found := findFirst(root, func(n platform.Node) bool {
		return ids[n.ViewID()] || containsFold(n.Text(), "Chats")
	})
	if found == nil {
		return false
	}
	if found != root {
		found.Release()
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
