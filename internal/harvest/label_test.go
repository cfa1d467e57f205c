package harvest

import "testing"

func TestInferLabel(t *testing.T) {
	tests := []struct {
		name    string
		allText []string
		current string
		want    string
	}{
		{"category header with count", []string{"Favourites", "12 items", "Alice"}, "All", "Favourites"},
		{"custom category header", []string{"Work", "3 items", "Dana"}, "All", "Work"},
		{"known label in window", []string{"WhatsApp", "Unread", "Alice"}, "All", "Unread"},
		{"first known label wins", []string{"Groups", "All", "Alice"}, "", "Groups"},
		{"known label past window ignored", []string{"WhatsApp", "Alice", "Bob", "Groups"}, "Work", "Work"},
		{"unset falls back to All", []string{"WhatsApp", "Alice", "Bob"}, "", "All"},
		{"generic Chats falls back to All", []string{"WhatsApp", "Alice", "Bob"}, "Chats", "All"},
		{"other label kept", []string{"WhatsApp", "Alice", "Bob"}, "Work", "Work"},
		{"Chats at head is adopted", []string{"Chats", "Bob", "Carol"}, "All", "Chats"},
		{"single value", []string{"Alice"}, "Work", "Work"},
		{"empty input keeps label", nil, "Favourites", "Favourites"},
		{"count must be whole text", []string{"Work", "about 3 items", "Dana"}, "Work", "Work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferLabel(tt.allText, tt.current)
			if got != tt.want {
				t.Errorf("InferLabel(%v, %q) = %q, want %q", tt.allText, tt.current, got, tt.want)
			}
		})
	}
}
