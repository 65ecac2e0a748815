package hierarchy

import (
	"errors"
	"slices"
	"sort"
)

// ErrEmptyID is reported by [Build] for records without an id. Such records
// are skipped; the rest of the dataset is still indexed.
var ErrEmptyID = errors.New("node ID must not be empty")

// Index is the derived, read-only view of a node forest.
//
// The zero value is empty but usable. An Index is never mutated after
// [Build] returns and is safe for concurrent reads.
type Index struct {
	nodes    map[string]*Node
	order    []string            // ids in source order
	children map[string][]string // parent id -> child ids, source order
	roots    []string
	orphans  []string
	depth    map[string]int
	maxDepth int
	problems []error
}

// Build indexes nodes in a single pass and computes depths breadth-first.
//
// Duplicate ids keep the first record. Records with an empty id are skipped
// and reported through [Index.Problems]. A node whose parent id is unknown
// (or is its own id) becomes an orphan: reachable by [Index.Node] but
// attached to no children list and without a depth.
func Build(nodes []Node) *Index {
	idx := &Index{
		nodes:    make(map[string]*Node, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		children: make(map[string][]string),
		depth:    make(map[string]int, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			idx.problems = append(idx.problems, ErrEmptyID)
			continue
		}
		if _, dup := idx.nodes[n.ID]; dup {
			continue
		}
		idx.nodes[n.ID] = &n
		idx.order = append(idx.order, n.ID)
	}

	for _, id := range idx.order {
		n := idx.nodes[id]
		switch {
		case n.IsRoot():
			idx.roots = append(idx.roots, id)
		case n.ParentID == id:
			idx.orphans = append(idx.orphans, id)
		default:
			if _, ok := idx.nodes[n.ParentID]; !ok {
				idx.orphans = append(idx.orphans, id)
				continue
			}
			idx.children[n.ParentID] = append(idx.children[n.ParentID], id)
		}
	}

	idx.computeDepths()
	return idx
}

// computeDepths walks breadth-first from the roots. The first visit of an id
// fixes its depth, so a malformed parent chain cannot loop.
func (idx *Index) computeDepths() {
	queue := make([]string, 0, len(idx.order))
	for _, r := range idx.roots {
		idx.depth[r] = 0
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		d := idx.depth[id]
		for _, c := range idx.children[id] {
			if _, seen := idx.depth[c]; seen {
				continue
			}
			idx.depth[c] = d + 1
			if d+1 > idx.maxDepth {
				idx.maxDepth = d + 1
			}
			queue = append(queue, c)
		}
	}
}

// Len returns the number of indexed nodes, orphans included.
func (idx *Index) Len() int { return len(idx.order) }

// Node returns the node with the given id.
func (idx *Index) Node(id string) (Node, bool) {
	n, ok := idx.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// IDs returns every indexed id in source order.
func (idx *Index) IDs() []string { return slices.Clone(idx.order) }

// Children returns the direct child ids of id in source order.
func (idx *Index) Children(id string) []string { return slices.Clone(idx.children[id]) }

// HasChildren reports whether id has at least one indexed child.
func (idx *Index) HasChildren(id string) bool { return len(idx.children[id]) > 0 }

// Parent returns the parent id of id when that parent is indexed.
func (idx *Index) Parent(id string) (string, bool) {
	n, ok := idx.nodes[id]
	if !ok || n.ParentID == "" || n.ParentID == id {
		return "", false
	}
	if _, ok := idx.nodes[n.ParentID]; !ok {
		return "", false
	}
	return n.ParentID, true
}

// Roots returns the ids of nodes without a parent, in source order.
func (idx *Index) Roots() []string { return slices.Clone(idx.roots) }

// Root returns the primary root: the first root in source order. Any other
// roots are disjoint trees.
func (idx *Index) Root() (string, bool) {
	if len(idx.roots) == 0 {
		return "", false
	}
	return idx.roots[0], true
}

// Orphans returns the ids whose parent id references no known node.
func (idx *Index) Orphans() []string { return slices.Clone(idx.orphans) }

// Depth returns the breadth-first depth of id. The second result is false
// for unknown and unreachable ids.
func (idx *Index) Depth(id string) (int, bool) {
	d, ok := idx.depth[id]
	return d, ok
}

// Reachable reports whether id has a depth, i.e. descends from a root.
func (idx *Index) Reachable(id string) bool {
	_, ok := idx.depth[id]
	return ok
}

// MaxDepth returns the greatest depth among reachable nodes.
func (idx *Index) MaxDepth() int { return idx.maxDepth }

// Ancestors returns the ancestor chain of id, nearest parent first. The walk
// stops at a root, an unknown parent, or a repeated id.
func (idx *Index) Ancestors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for {
		p, ok := idx.Parent(id)
		if !ok || seen[p] {
			return out
		}
		seen[p] = true
		out = append(out, p)
		id = p
	}
}

// Categories returns the distinct non-empty kinds in sorted order.
func (idx *Index) Categories() []string {
	set := make(map[string]struct{})
	for _, n := range idx.nodes {
		if n.Kind != "" {
			set[n.Kind] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Problems returns the non-fatal issues encountered while building.
func (idx *Index) Problems() []error { return slices.Clone(idx.problems) }
