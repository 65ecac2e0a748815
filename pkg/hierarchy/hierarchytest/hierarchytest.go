// Package hierarchytest provides node fixtures shared by tests across the
// layout packages.
package hierarchytest

import (
	"fmt"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

// Kinds cycles through the categories assigned by [Forest].
var Kinds = []string{"page", "db", "db_row"}

// Scenario returns the reference workspace:
//
//	R
//	├── A
//	│   ├── D
//	│   └── E
//	├── B
//	└── C
func Scenario() []hierarchy.Node {
	return []hierarchy.Node{
		{ID: "R", Title: "Root", Kind: "page"},
		{ID: "A", Title: "Alpha", ParentID: "R", Kind: "page"},
		{ID: "B", Title: "Beta", ParentID: "R", Kind: "db"},
		{ID: "C", Title: "Gamma", ParentID: "R", Kind: "page"},
		{ID: "D", Title: "Delta", ParentID: "A", Kind: "db_row"},
		{ID: "E", Title: "Epsilon", ParentID: "A", Kind: "page"},
	}
}

// Forest deterministically builds a single-root forest from generator input.
// Node 0 is the root "n0". Node i attaches to node choices[i-1] mod i, except
// that every choice congruent to 10 mod 11 produces an orphan whose parent id
// is unknown.
func Forest(choices []int) []hierarchy.Node {
	nodes := make([]hierarchy.Node, 0, len(choices)+1)
	nodes = append(nodes, hierarchy.Node{ID: "n0", Title: "root", Kind: Kinds[0]})
	for i, c := range choices {
		if c < 0 {
			c = -c
		}
		id := fmt.Sprintf("n%d", i+1)
		parent := fmt.Sprintf("n%d", c%(i+1))
		if c%11 == 10 {
			parent = "missing-" + id
		}
		nodes = append(nodes, hierarchy.Node{
			ID:       id,
			Title:    "node " + id,
			ParentID: parent,
			Kind:     Kinds[c%len(Kinds)],
		})
	}
	return nodes
}
