package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

func TestSizingForDepth(t *testing.T) {
	s := DefaultSizing()
	tests := []struct {
		depth int
		want  float64
	}{
		{-1, 110},
		{0, 110},
		{1, 94},
		{2, 78},
		{3, 62},
		{4, 56},
		{9, 56},
	}
	prev := s.ForDepth(0)
	for _, tt := range tests {
		got := s.ForDepth(tt.depth)
		if got != tt.want {
			t.Errorf("ForDepth(%d) = %v, want %v", tt.depth, got, tt.want)
		}
		if tt.depth >= 0 && got > prev {
			t.Errorf("ForDepth(%d) = %v grows past %v", tt.depth, got, prev)
		}
		prev = got
	}
}

func TestLinkDistance(t *testing.T) {
	p := DefaultLinkPolicy()
	want := []float64{140, 140, 110, 100, 90, 80, 80}
	for depth, w := range want {
		if got := p.Distance(depth); got != w {
			t.Errorf("Distance(%d) = %v, want %v", depth, got, w)
		}
	}
	if got := (LinkPolicy{Floor: 42}).Distance(3); got != 42 {
		t.Errorf("empty table Distance = %v, want floor", got)
	}
}

func TestBuildLinks(t *testing.T) {
	idx := hierarchy.Build([]hierarchy.Node{
		{ID: "r"},
		{ID: "a", ParentID: "r"},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "b"},
		{ID: "o", ParentID: "ghost"},
	})
	links := BuildLinks(idx, []string{"r", "a", "b", "c", "o"}, DefaultLinkPolicy())

	var got []string
	for _, l := range links {
		got = append(got, l.Source+">"+l.Target)
		if l.Strength != DefaultLinkStrength {
			t.Errorf("%s>%s strength = %v", l.Source, l.Target, l.Strength)
		}
	}
	if !slices.Equal(got, []string{"r>a", "a>b", "b>c"}) {
		t.Fatalf("links = %v", got)
	}
	if links[0].Distance <= links[1].Distance || links[1].Distance <= links[2].Distance {
		t.Errorf("distances should shrink with depth: %+v", links)
	}

	// A hidden parent produces no link.
	if l := BuildLinks(idx, []string{"r", "b"}, DefaultLinkPolicy()); len(l) != 0 {
		t.Errorf("expected no links, got %+v", l)
	}
}

func TestPositionMapBounds(t *testing.T) {
	pos := PositionMap{"a": {0, 0}, "b": {100, 50}}
	sizes := SizeMap{"a": 10, "b": 20}
	lo, hi, ok := pos.Bounds([]string{"a", "b", "missing"}, sizes)
	if !ok || lo != (Vec{0, 0}) || hi != (Vec{120, 70}) {
		t.Errorf("Bounds = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := pos.Bounds([]string{"missing"}, sizes); ok {
		t.Error("Bounds of unknown ids should not be ok")
	}
}
