package harvest

import (
	"regexp"
	"slices"

	"github.com/mj1618/listscan/internal/model"
)

// KnownLabels are the named list views the foreign app offers.
var KnownLabels = []string{"All", "Unread", "Favourites", "Chats", "Groups"}

// labelWindow is how many leading text nodes are inspected.
const labelWindow = 3

var itemCountPattern = regexp.MustCompile(`^\d+\s+items$`)

// InferLabel guesses which list view is showing from the first text nodes of
// a fresh walk. A category header followed by "<n> items" wins, then the
// first known label; otherwise an unset or generic "Chats" label becomes
// "All" and any other current label is kept.
func InferLabel(allText []string, current string) string {
	if len(allText) == 0 {
		return current
	}
	head := allText[:min(len(allText), labelWindow)]

	if len(head) >= 2 && itemCountPattern.MatchString(head[1]) {
		return head[0]
	}
	for _, text := range head {
		if slices.Contains(KnownLabels, text) {
			return text
		}
	}
	if current == "" || current == "Chats" {
		return model.LabelAll
	}
	return current
}
