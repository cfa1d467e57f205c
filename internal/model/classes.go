package model

import "strings"

// ClassMap maps Android widget class names to compact class codes.
var ClassMap = map[string]string{
	"android.widget.TextView":                   "txt",
	"android.widget.Button":                     "btn",
	"android.widget.ImageView":                  "img",
	"android.widget.ImageButton":                "btn",
	"android.widget.EditText":                   "input",
	"android.widget.FrameLayout":                "group",
	"android.widget.LinearLayout":               "group",
	"android.widget.RelativeLayout":             "group",
	"android.view.ViewGroup":                    "group",
	"android.widget.ListView":                   "list",
	"androidx.recyclerview.widget.RecyclerView": "list",
	"android.widget.ScrollView":                 "scroll",
	"android.widget.HorizontalScrollView":       "scroll",
	"android.widget.TabWidget":                  "tab",
	"android.widget.Toolbar":                    "toolbar",
	"androidx.appcompat.widget.Toolbar":         "toolbar",
}

// MapClass converts a raw widget class name to a compact code. Unknown
// classes are matched on their simple name so vendor subclasses of a
// known widget still map.
func MapClass(class string) string {
	if short, ok := ClassMap[class]; ok {
		return short
	}
	simple := class
	if i := strings.LastIndex(class, "."); i >= 0 {
		simple = class[i+1:]
	}
	for full, short := range ClassMap {
		if strings.HasSuffix(full, "."+simple) {
			return short
		}
	}
	return "other"
}

// IsVirtualizedList reports whether the class tag names a recycling list
// widget that only materializes the rows currently on screen.
func IsVirtualizedList(class string) bool {
	return strings.Contains(class, "RecyclerView")
}
