package visibility

import (
	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

// Resolve returns the visible node ids in breadth-first order. The order
// depends only on the inputs, so repeated calls produce identical sequences.
//
// An empty index, or one without a root, yields nil.
func Resolve(idx *hierarchy.Index, exp *Expansion, f Filter) []string {
	if idx == nil || len(idx.Roots()) == 0 {
		return nil
	}
	ids := walk(idx, exp, max(f.LevelCap, 0))
	r := &resolver{idx: idx, roots: toSet(idx.Roots())}

	ids = r.excludeSubtrees(ids, r.matchCategory(f.ExcludeCategories))
	ids = r.showOnlyCategories(ids, f.ShowOnlyCategories)
	ids = r.showOnlyIDs(ids, f.ShowOnlyIDs)
	ids = r.excludeSubtrees(ids, toSet(f.ExcludeIDs))
	return ids
}

// walk performs the structural breadth-first pass.
func walk(idx *hierarchy.Index, exp *Expansion, levelCap int) []string {
	roots := idx.Roots()
	seen := make(map[string]bool, idx.Len())
	out := make([]string, 0, len(roots))
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		seen[r] = true
		out = append(out, r)
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		parentExpanded := exp.Has(id)
		for _, c := range idx.Children(id) {
			d, ok := idx.Depth(c)
			if !ok || seen[c] {
				continue
			}
			if d > levelCap && !parentExpanded {
				continue
			}
			seen[c] = true
			out = append(out, c)
			if d < levelCap || exp.Has(c) {
				queue = append(queue, c)
			}
		}
	}
	return out
}

type resolver struct {
	idx   *hierarchy.Index
	roots map[string]bool
}

func (r *resolver) matchCategory(categories []string) map[string]bool {
	cats := toSet(categories)
	if cats == nil {
		return nil
	}
	match := make(map[string]bool)
	for _, id := range r.idx.IDs() {
		if n, _ := r.idx.Node(id); cats[n.Kind] {
			match[id] = true
		}
	}
	return match
}

// excludeSubtrees drops every id in drop together with its descendants.
// ids must list parents before children.
func (r *resolver) excludeSubtrees(ids []string, drop map[string]bool) []string {
	if len(drop) == 0 {
		return ids
	}
	removed := make(map[string]bool)
	out := ids[:0:0]
	for _, id := range ids {
		p, hasParent := r.idx.Parent(id)
		gone := (drop[id] && !r.roots[id]) || (hasParent && removed[p])
		if gone {
			removed[id] = true
			continue
		}
		out = append(out, id)
	}
	return out
}

// keepOnly retains ids in keep, plus roots.
func (r *resolver) keepOnly(ids []string, keep map[string]bool) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if keep[id] || r.roots[id] {
			out = append(out, id)
		}
	}
	return out
}

func (r *resolver) withAncestors(keep map[string]bool) {
	for id := range keep {
		for _, a := range r.idx.Ancestors(id) {
			keep[a] = true
		}
	}
}

func (r *resolver) showOnlyCategories(ids []string, categories []string) []string {
	match := r.matchCategory(categories)
	if len(match) == 0 {
		return ids
	}
	r.withAncestors(match)
	return r.keepOnly(ids, match)
}

func (r *resolver) showOnlyIDs(ids []string, selected []string) []string {
	keep := make(map[string]bool)
	for _, id := range selected {
		if _, ok := r.idx.Node(id); ok {
			keep[id] = true
		}
	}
	if len(keep) == 0 {
		return ids
	}

	// Visible descendants of a shown id stay; ids lists parents first.
	for _, id := range ids {
		if p, ok := r.idx.Parent(id); ok && keep[p] {
			keep[id] = true
		}
	}
	r.withAncestors(keep)
	return r.keepOnly(ids, keep)
}
