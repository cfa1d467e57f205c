package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	Index      int    `yaml:"i"                    json:"i"`
	Class      string `yaml:"c"                    json:"c"`
	Text       string `yaml:"t,omitempty"          json:"t,omitempty"`
	ViewID     string `yaml:"id,omitempty"         json:"id,omitempty"`
	Hidden     bool   `yaml:"hidden,omitempty"     json:"hidden,omitempty"`
	Scrollable bool   `yaml:"scroll,omitempty"     json:"scroll,omitempty"`
	Focused    bool   `yaml:"f,omitempty"          json:"f,omitempty"`
	Path       string `yaml:"p,omitempty"          json:"p,omitempty"`
}

// FlattenElements converts a tree of elements into a flat list in document
// order. Each element gets a sequential index and a path string built from
// compact class codes joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	class := MapClass(el.Class)
	currentPath := class
	if parentPath != "" {
		currentPath = parentPath + " > " + class
	}

	*result = append(*result, FlatElement{
		Index:      len(*result) + 1,
		Class:      class,
		Text:       el.Text,
		ViewID:     el.ViewID,
		Hidden:     el.Hidden,
		Scrollable: el.Scrollable,
		Focused:    el.Focused,
		Path:       currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
