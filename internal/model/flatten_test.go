package model

import "testing"

func TestFlattenElements_Basic(t *testing.T) {
	elements := []Element{
		{Class: "android.widget.Button", Text: "OK"},
		{Class: "android.widget.TextView", Text: "Hello"},
	}
	result := FlattenElements(elements)
	if len(result) != 2 {
		t.Fatalf("expected 2 flat elements, got %d", len(result))
	}
	if result[0].Path != "btn" {
		t.Errorf("expected path 'btn', got %q", result[0].Path)
	}
	if result[1].Path != "txt" {
		t.Errorf("expected path 'txt', got %q", result[1].Path)
	}
}

func TestFlattenElements_NestedPath(t *testing.T) {
	elements := []Element{
		{
			Class: "android.widget.FrameLayout",
			Children: []Element{
				{
					Class: "androidx.recyclerview.widget.RecyclerView", Scrollable: true,
					Children: []Element{
						{Class: "android.widget.TextView", Text: "Alice"},
					},
				},
			},
		},
	}
	result := FlattenElements(elements)
	if len(result) != 3 {
		t.Fatalf("expected 3 flat elements, got %d", len(result))
	}
	if result[1].Path != "group > list" {
		t.Errorf("expected path 'group > list', got %q", result[1].Path)
	}
	if result[2].Path != "group > list > txt" {
		t.Errorf("expected path 'group > list > txt', got %q", result[2].Path)
	}
	if !result[1].Scrollable {
		t.Error("scrollable flag should be carried over")
	}
}

func TestFlattenElements_DocumentOrderIndexes(t *testing.T) {
	elements := []Element{
		{
			Text: "a",
			Children: []Element{
				{Text: "b", Children: []Element{{Text: "c"}}},
				{Text: "d"},
			},
		},
	}
	result := FlattenElements(elements)
	want := []string{"a", "b", "c", "d"}
	for i, w := range want {
		if result[i].Text != w {
			t.Errorf("position %d: got %q, want %q", i, result[i].Text, w)
		}
		if result[i].Index != i+1 {
			t.Errorf("position %d: index %d, want %d", i, result[i].Index, i+1)
		}
	}
}

func TestFlattenElements_Empty(t *testing.T) {
	if result := FlattenElements(nil); len(result) != 0 {
		t.Errorf("expected empty result, got %d", len(result))
	}
}
