package model

import "strings"

// FilterByText filters elements to those whose text or view id contains the
// given text (case-insensitive). Parent elements are kept if any descendant
// matches, so the result is still a tree.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []Element
	for _, el := range elements {
		matched := textMatchesElement(el, textLower)
		childMatches := FilterByText(el.Children, text)

		if matched || len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

func textMatchesElement(el Element, textLower string) bool {
	return strings.Contains(strings.ToLower(el.Text), textLower) ||
		strings.Contains(strings.ToLower(el.ViewID), textLower)
}

// PruneHidden removes elements that are not visible to the user together
// with their subtrees.
func PruneHidden(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		if el.Hidden {
			continue
		}
		pruned := el
		pruned.Children = PruneHidden(el.Children)
		result = append(result, pruned)
	}
	return result
}

// isEmptyGroup returns true if the element is a container that carries no
// text and no view id.
func isEmptyGroup(el Element) bool {
	class := MapClass(el.Class)
	return (class == "group" || class == "other") && el.Text == "" && el.ViewID == ""
}

// PruneEmptyGroups removes anonymous container nodes and promotes their
// children to the parent. Layout-heavy trees shrink considerably.
func PruneEmptyGroups(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		prunedChildren := PruneEmptyGroups(el.Children)

		if isEmptyGroup(el) && !el.Scrollable {
			result = append(result, prunedChildren...)
		} else {
			pruned := el
			pruned.Children = prunedChildren
			result = append(result, pruned)
		}
	}
	return result
}
