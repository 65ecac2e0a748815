package mindmap

import (
	"github.com/matzehuels/notionmap/pkg/graph"
)

// Snapshot captures what the view currently shows. A node is reported as
// expanded when one of its children is visible, which under the level cap
// can differ from [View.IsExpanded].
func (v *View) Snapshot() graph.Snapshot {
	vp := v.ctrl.ViewportState()

	v.mu.Lock()
	defer v.mu.Unlock()

	open := make(map[string]bool, len(v.links))
	for _, l := range v.links {
		open[l.Source] = true
	}
	positions := v.state.Positions()

	s := graph.Snapshot{
		ViewID:     v.id.String(),
		Generation: v.sched.Generation(),
		Ticks:      v.state.Ticks(),
		Alpha:      v.state.Alpha(),
		Width:      vp.Width,
		Height:     vp.Height,
		Viewport:   graph.Viewport{Scale: vp.Scale, PanX: vp.Pan.X, PanY: vp.Pan.Y},
		Nodes:      make([]graph.SnapshotNode, 0, len(v.visible)),
		Links:      make([]graph.SnapshotLink, 0, len(v.links)),
	}
	for _, id := range v.visible {
		n, _ := v.idx.Node(id)
		depth, _ := v.idx.Depth(id)
		p := positions[id]
		s.Nodes = append(s.Nodes, graph.SnapshotNode{
			ID:          id,
			Title:       n.EffectiveTitle(),
			Kind:        n.Kind,
			Depth:       depth,
			X:           p.X,
			Y:           p.Y,
			Size:        v.sizes[id],
			Expanded:    open[id],
			HasChildren: v.idx.HasChildren(id),
			Pinned:      v.state.Pinned(id),
			Link:        n.EffectiveLink(),
		})
	}
	for _, l := range v.links {
		s.Links = append(s.Links, graph.SnapshotLink{Source: l.Source, Target: l.Target, Distance: l.Distance})
	}
	return s
}
