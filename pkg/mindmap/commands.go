package mindmap

import (
	"fmt"

	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/physics"
	"github.com/matzehuels/notionmap/pkg/visibility"
)

// =============================================================================
// Expansion
// =============================================================================

// Toggle flips the expansion of id and returns the new state. Nodes without
// children are left alone.
func (v *View) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.idx.HasChildren(id) {
		return v.exp.Has(id)
	}
	on := v.exp.Toggle(id)
	v.rebuildLocked("toggle")
	return on
}

// Expand adds id to the expansion set.
func (v *View) Expand(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.exp.Has(id) || !v.idx.HasChildren(id) {
		return
	}
	v.exp.Expand(id)
	v.rebuildLocked("expand")
}

// Collapse removes id from the expansion set.
func (v *View) Collapse(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.exp.Has(id) {
		return
	}
	v.exp.Collapse(id)
	v.rebuildLocked("collapse")
}

// ExpandToLevel makes the expansion set exactly the parents above depth n,
// so that nodes down to depth n are revealed.
func (v *View) ExpandToLevel(n int) {
	v.replaceExpansion(visibility.ToLevel(v.idx, n), "expand-to-level")
}

// ExpandAll expands every node that has children.
func (v *View) ExpandAll() {
	v.replaceExpansion(visibility.All(v.idx), "expand-all")
}

// CollapseAll leaves only the root expanded.
func (v *View) CollapseAll() {
	var ids []string
	if v.root != "" {
		ids = []string{v.root}
	}
	v.replaceExpansion(ids, "collapse-all")
}

func (v *View) replaceExpansion(ids []string, reason string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.exp.Replace(ids)
	v.rebuildLocked(reason)
}

// =============================================================================
// Filters
// =============================================================================

// SetFilter replaces the filter. A non-empty CenterOn brings that node into
// view afterwards.
func (v *View) SetFilter(f visibility.Filter) error {
	v.mu.Lock()
	v.filter = f.Clone()
	v.rebuildLocked("filter")
	v.mu.Unlock()

	if f.CenterOn != "" {
		return v.CenterOn(f.CenterOn)
	}
	return nil
}

// SetLevelCap changes only the level cap.
func (v *View) SetLevelCap(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if v.filter.LevelCap == n {
		return
	}
	v.filter.LevelCap = n
	v.rebuildLocked("level-cap")
}

// =============================================================================
// Pins
// =============================================================================

// Pin holds a visible node at top-left corner at. It is the drag update
// path and returns false for nodes that are not visible.
func (v *View) Pin(id string, at layout.Vec) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.visibleSet[id] || !at.Finite() {
		return false
	}
	v.state.Pin(id, at)
	v.positions[id] = at
	return true
}

// Release ends the drag on id at top-left corner at, giving it velocity
// vel. The last position is committed and a new generation starts so the
// graph resumes from the release point. A released root stays locked when
// the settings ask for it.
func (v *View) Release(id string, at, vel layout.Vec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if at.Finite() && v.visibleSet[id] {
		v.state.Pin(id, at)
	}
	last, ok := v.engine.Release(v.state, id, vel)
	if !ok {
		return
	}
	v.positions[id] = last
	if id == v.root && v.settings.LockRoot {
		v.state.Lock(id, last)
	}
	gen := v.sched.Start()
	v.active = true
	v.logger.Debug("release", "view", v.id, "id", id, "x", last.X, "y", last.Y, "generation", gen)
}

// Lock holds id at its current position until [View.Unlock].
func (v *View) Lock(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	at, ok := v.state.Position(id)
	if !ok {
		return false
	}
	v.state.Lock(id, at)
	return true
}

// Unlock frees a locked node and reheats the simulation.
func (v *View) Unlock(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Dragging(id) {
		return
	}
	if _, ok := v.engine.Release(v.state, id, layout.Vec{}); ok {
		v.sched.Start()
		v.active = true
	}
}

// =============================================================================
// Viewport
// =============================================================================

// CenterOn expands the ancestors of id so that it becomes visible and pans
// the viewport to put its center in the middle of the screen.
func (v *View) CenterOn(id string) error {
	v.mu.Lock()
	if !v.idx.Reachable(id) {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	changed := false
	for _, a := range v.idx.Ancestors(id) {
		if !v.exp.Has(a) {
			v.exp.Expand(a)
			changed = true
		}
	}
	if changed {
		v.rebuildLocked("center-on")
	}
	if !v.visibleSet[id] {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrHidden, id)
	}
	c, _ := v.state.Positions().Center(id, v.sizes)
	v.mu.Unlock()

	v.ctrl.UpdateViewport(func(vp *interaction.Viewport) { vp.CenterOn(c) })
	return nil
}

// Resize changes the screen size, keeping the world point at the middle of
// the screen in place.
func (v *View) Resize(width, height float64) {
	v.ctrl.UpdateViewport(func(vp *interaction.Viewport) { vp.Resize(width, height) })
}

// Reset forgets every position, velocity and lock, reseeds the visible
// nodes and restores the default zoom. Active drags survive.
func (v *View) Reset() {
	v.mu.Lock()
	next := physics.NewState()
	clear(v.positions)
	for id, p := range v.state.Pins() {
		if p.Drag {
			next.Pin(id, p.At)
			v.positions[id] = p.At
		}
	}
	v.state = next
	v.rebuildLocked("reset")
	v.mu.Unlock()

	v.ctrl.UpdateViewport(func(vp *interaction.Viewport) { vp.Reset() })
}

// =============================================================================
// Controller target
// =============================================================================

// target adapts a View to the controller. The controller calls it with its
// own lock held, so View methods reached from here never call back into the
// controller.
type target struct{ v *View }

func (t target) HitTest(p layout.Vec) (string, bool)      { return t.v.HitTest(p) }
func (t target) Position(id string) (layout.Vec, bool)    { return t.v.Position(id) }
func (t target) PinStart(id string, at layout.Vec)        { t.v.Pin(id, at) }
func (t target) PinMove(id string, at layout.Vec)         { t.v.Pin(id, at) }
func (t target) PinEnd(id string, at, release layout.Vec) { t.v.Release(id, at, release) }
func (t target) Toggle(id string)                         { t.v.Toggle(id) }
func (t target) Link(id string) string                    { return t.v.Link(id) }
