package hierarchy_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
	"github.com/matzehuels/notionmap/pkg/hierarchy/hierarchytest"
)

func TestBuildScenario(t *testing.T) {
	idx := hierarchy.Build(hierarchytest.Scenario())

	if idx.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", idx.Len())
	}
	if root, ok := idx.Root(); !ok || root != "R" {
		t.Fatalf("Root() = %q, %v; want R, true", root, ok)
	}
	if got := idx.Children("R"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Children(R) = %v, want [A B C]", got)
	}
	if got := idx.Children("A"); !slices.Equal(got, []string{"D", "E"}) {
		t.Errorf("Children(A) = %v, want [D E]", got)
	}

	depths := map[string]int{"R": 0, "A": 1, "B": 1, "C": 1, "D": 2, "E": 2}
	for id, want := range depths {
		if got, ok := idx.Depth(id); !ok || got != want {
			t.Errorf("Depth(%s) = %d, %v; want %d", id, got, ok, want)
		}
	}
	if idx.MaxDepth() != 2 {
		t.Errorf("MaxDepth() = %d, want 2", idx.MaxDepth())
	}
	if got := idx.Ancestors("D"); !slices.Equal(got, []string{"A", "R"}) {
		t.Errorf("Ancestors(D) = %v, want [A R]", got)
	}
	if got := idx.Categories(); !slices.Equal(got, []string{"db", "db_row", "page"}) {
		t.Errorf("Categories() = %v", got)
	}
}

func TestBuildDegenerateInput(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []hierarchy.Node
		wantLen     int
		wantRoots   []string
		wantOrphans []string
		unreachable []string
		problems    int
	}{
		{
			name:    "empty",
			nodes:   nil,
			wantLen: 0,
		},
		{
			name: "unknown parent",
			nodes: []hierarchy.Node{
				{ID: "r"},
				{ID: "x", ParentID: "ghost"},
				{ID: "y", ParentID: "x"},
			},
			wantLen:     3,
			wantRoots:   []string{"r"},
			wantOrphans: []string{"x"},
			unreachable: []string{"x", "y"},
		},
		{
			name: "self parent",
			nodes: []hierarchy.Node{
				{ID: "r"},
				{ID: "s", ParentID: "s"},
			},
			wantLen:     2,
			wantRoots:   []string{"r"},
			wantOrphans: []string{"s"},
			unreachable: []string{"s"},
		},
		{
			name: "cycle without root",
			nodes: []hierarchy.Node{
				{ID: "a", ParentID: "b"},
				{ID: "b", ParentID: "a"},
			},
			wantLen:     2,
			unreachable: []string{"a", "b"},
		},
		{
			name: "duplicate and empty ids",
			nodes: []hierarchy.Node{
				{ID: "r", Title: "first"},
				{ID: "r", Title: "second"},
				{ID: ""},
			},
			wantLen:   1,
			wantRoots: []string{"r"},
			problems:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := hierarchy.Build(tt.nodes)
			if idx.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", idx.Len(), tt.wantLen)
			}
			if got := idx.Roots(); !slices.Equal(got, tt.wantRoots) {
				t.Errorf("Roots() = %v, want %v", got, tt.wantRoots)
			}
			if got := idx.Orphans(); !slices.Equal(got, tt.wantOrphans) {
				t.Errorf("Orphans() = %v, want %v", got, tt.wantOrphans)
			}
			for _, id := range tt.unreachable {
				if idx.Reachable(id) {
					t.Errorf("Reachable(%s) = true, want false", id)
				}
			}
			problems := idx.Problems()
			if len(problems) != tt.problems {
				t.Fatalf("Problems() = %v, want %d", problems, tt.problems)
			}
			for _, err := range problems {
				if !errors.Is(err, hierarchy.ErrEmptyID) {
					t.Errorf("unexpected problem %v", err)
				}
			}
		})
	}
}

func TestDuplicateKeepsFirst(t *testing.T) {
	idx := hierarchy.Build([]hierarchy.Node{
		{ID: "r", Title: "first"},
		{ID: "r", Title: "second"},
	})
	n, _ := idx.Node("r")
	if n.Title != "first" {
		t.Errorf("Title = %q, want first", n.Title)
	}
}

func TestDepthMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("depth is parent depth plus one", prop.ForAll(
		func(choices []int) bool {
			idx := hierarchy.Build(hierarchytest.Forest(choices))
			for _, id := range idx.IDs() {
				d, ok := idx.Depth(id)
				if !ok {
					continue
				}
				p, hasParent := idx.Parent(id)
				if !hasParent {
					if d != 0 {
						return false
					}
					continue
				}
				pd, ok := idx.Depth(p)
				if !ok || d != pd+1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("orphans and their subtrees have no depth", prop.ForAll(
		func(choices []int) bool {
			idx := hierarchy.Build(hierarchytest.Forest(choices))
			for _, id := range idx.Orphans() {
				if idx.Reachable(id) {
					return false
				}
				for _, c := range idx.Children(id) {
					if idx.Reachable(c) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
