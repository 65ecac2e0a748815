package hierarchy

import "testing"

func TestEffectiveTitle(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{Node{ID: "x", Title: "Roadmap"}, "Roadmap"},
		{Node{ID: "x", Title: "  padded  "}, "padded"},
		{Node{ID: "x"}, "x"},
		{Node{ID: "x", Title: "   "}, "x"},
	}
	for _, tt := range tests {
		if got := tt.node.EffectiveTitle(); got != tt.want {
			t.Errorf("EffectiveTitle(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestEffectiveLink(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"explicit url wins", Node{ID: "a", URL: "https://u", Link: "https://l", Href: "https://h"}, "https://u"},
		{"link before href", Node{ID: "a", Link: "https://l", Href: "https://h"}, "https://l"},
		{"href", Node{ID: "a", Href: "https://h"}, "https://h"},
		{"notion fallback", Node{ID: "db::1234-abcd", Title: "Team Wiki"}, "https://www.notion.so/team-wiki-1234abcd"},
		{"untitled", Node{ID: "1234"}, "https://www.notion.so/1234"},
		{"nothing to open", Node{ID: "db::---"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.EffectiveLink(); got != tt.want {
				t.Errorf("EffectiveLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  --Q3 / Plans!! ", "q3-plans"},
		{"Café", "cafe"},
		{"日本語 メモ", "日本語-メモ"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
