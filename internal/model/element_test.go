package model

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestElement_OmitEmpty(t *testing.T) {
	el := Element{Class: "android.widget.TextView", Text: "Alice"}
	data, err := json.Marshal(el)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"hidden", "scrollable", "focused", "children", "id"} {
		if _, ok := m[key]; ok {
			t.Errorf("zero-value key %q should be omitted", key)
		}
	}
	if m["text"] != "Alice" {
		t.Errorf("text: got %v, want Alice", m["text"])
	}
}

func TestElement_YAMLRoundTrip(t *testing.T) {
	src := `
class: android.widget.FrameLayout
children:
  - class: androidx.recyclerview.widget.RecyclerView
    id: com.whatsapp:id/chat_list
    scrollable: true
    children:
      - class: android.widget.TextView
        text: Alice
      - class: android.widget.TextView
        text: Bob
        hidden: true
`
	var el Element
	if err := yaml.Unmarshal([]byte(src), &el); err != nil {
		t.Fatal(err)
	}
	list, ok := el.At([]int{0})
	if !ok {
		t.Fatal("expected list at [0]")
	}
	if !list.Scrollable || list.ViewID != "com.whatsapp:id/chat_list" {
		t.Errorf("unexpected list element: %+v", list)
	}
	bob, _ := el.At([]int{0, 1})
	if bob.Visible() {
		t.Error("hidden element should not be visible")
	}
	alice, _ := el.At([]int{0, 0})
	if !alice.Visible() {
		t.Error("element without hidden flag should be visible")
	}
}

func TestElement_AtOutOfRange(t *testing.T) {
	el := Element{Children: []Element{{Text: "a"}}}
	tests := [][]int{{1}, {-1}, {0, 0}}
	for _, path := range tests {
		if _, ok := el.At(path); ok {
			t.Errorf("At(%v) should fail", path)
		}
	}
	if got, ok := el.At(nil); !ok || len(got.Children) != 1 {
		t.Error("At(nil) should return the element itself")
	}
}

func TestElement_Count(t *testing.T) {
	el := Element{Children: []Element{
		{Children: []Element{{}, {}}},
		{},
	}}
	if got := el.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
}
