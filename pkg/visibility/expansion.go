package visibility

import (
	"sort"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

// Expansion is the mutable set of expanded node ids.
//
// The zero value is an empty, usable set. Expansion is not safe for
// concurrent use.
type Expansion struct {
	ids map[string]struct{}
}

// NewExpansion returns a set containing ids.
func NewExpansion(ids ...string) *Expansion {
	e := &Expansion{}
	for _, id := range ids {
		e.Expand(id)
	}
	return e
}

// Has reports whether id is expanded.
func (e *Expansion) Has(id string) bool {
	if e == nil {
		return false
	}
	_, ok := e.ids[id]
	return ok
}

// Expand adds id to the set.
func (e *Expansion) Expand(id string) {
	if e.ids == nil {
		e.ids = make(map[string]struct{})
	}
	e.ids[id] = struct{}{}
}

// Collapse removes id from the set. Descendants keep their own state, so
// expanding id again restores the previous reveal.
func (e *Expansion) Collapse(id string) { delete(e.ids, id) }

// Toggle flips id and returns its new state.
func (e *Expansion) Toggle(id string) bool {
	if e.Has(id) {
		e.Collapse(id)
		return false
	}
	e.Expand(id)
	return true
}

// Replace makes ids the entire contents of the set.
func (e *Expansion) Replace(ids []string) {
	e.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
}

// Len returns the number of expanded ids.
func (e *Expansion) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}

// IDs returns the expanded ids in sorted order.
func (e *Expansion) IDs() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (e *Expansion) Clone() *Expansion {
	c := &Expansion{ids: make(map[string]struct{}, e.Len())}
	if e != nil {
		for id := range e.ids {
			c.ids[id] = struct{}{}
		}
	}
	return c
}

// ToLevel returns the expansion that reveals every reachable node at depth
// n or less: each node shallower than n that has children. The ids are in
// breadth-first order, so applying them one by one reveals level after level.
// The result depends only on idx and n.
func ToLevel(idx *hierarchy.Index, n int) []string {
	return collectParents(idx, func(depth int) bool { return depth < n })
}

// All returns the expansion that reveals every reachable node.
func All(idx *hierarchy.Index) []string {
	return collectParents(idx, func(int) bool { return true })
}

func collectParents(idx *hierarchy.Index, keep func(depth int) bool) []string {
	var out []string
	queue := idx.Roots()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		d, ok := idx.Depth(id)
		if !ok || !keep(d) {
			continue
		}
		children := idx.Children(id)
		if len(children) == 0 {
			continue
		}
		out = append(out, id)
		queue = append(queue, children...)
	}
	return out
}
