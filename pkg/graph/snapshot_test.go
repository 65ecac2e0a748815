package graph

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/notionmap/pkg/errors"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		ViewID: "v1",
		Width:  800, Height: 600,
		Viewport: Viewport{Scale: 1},
		Nodes: []SnapshotNode{
			{ID: "r", Title: "Root", X: 345, Y: 245, Size: 110, Expanded: true, HasChildren: true},
			{ID: "a", Title: "Alpha", Depth: 1, X: 353, Y: 13, Size: 94},
		},
		Links: []SnapshotLink{{Source: "r", Target: "a", Distance: 140}},
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s := sampleSnapshot()
	if err := WriteSnapshotFile(s, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewID != "v1" || len(got.Nodes) != 2 || got.Links[0] != s.Links[0] {
		t.Errorf("round trip = %+v", got)
	}
	x, y := got.Nodes[0].Center()
	if x != 400 || y != 300 {
		t.Errorf("Center = %v,%v, want 400,300", x, y)
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"EmptyID", func(s *Snapshot) { s.Nodes[1].ID = "" }},
		{"Duplicate", func(s *Snapshot) { s.Nodes[1].ID = "r" }},
		{"DanglingLink", func(s *Snapshot) { s.Links[0].Target = "zz" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSnapshot()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Validate = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestSnapshotBounds(t *testing.T) {
	s := sampleSnapshot()
	minX, minY, maxX, maxY, ok := s.Bounds()
	if !ok || minX != 345 || minY != 13 || maxX != 455 || maxY != 355 {
		t.Errorf("Bounds = %v %v %v %v %v", minX, minY, maxX, maxY, ok)
	}
	if _, _, _, _, ok := (&Snapshot{}).Bounds(); ok {
		t.Error("empty snapshot should have no bounds")
	}
	if _, ok := s.Node("a"); !ok {
		t.Error("Node(a) not found")
	}
}
