package layout

import (
	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

// Default ring geometry, in world pixels.
const (
	DefaultRootRingRadius = 240.0
	DefaultRingClearance  = 50.0
	DefaultMinChildRadius = 30.0
)

// Rings configures seeding geometry.
type Rings struct {
	// RootRadius is the distance from the root's center to its first ring.
	// Secondary roots sit on a ring twice as wide around the viewport center.
	RootRadius float64 `toml:"root_radius" json:"root_radius" validate:"gt=0"`

	// Clearance is the gap between a parent's edge and the nearest point
	// of a newly seeded child ring.
	Clearance float64 `toml:"clearance" json:"clearance" validate:"gte=0"`

	// MinChildRadius is the smallest child radius assumed when sizing a
	// revealed ring.
	MinChildRadius float64 `toml:"min_child_radius" json:"min_child_radius" validate:"gte=0"`
}

// DefaultRings returns the built-in ring geometry.
func DefaultRings() Rings {
	return Rings{
		RootRadius:     DefaultRootRingRadius,
		Clearance:      DefaultRingClearance,
		MinChildRadius: DefaultMinChildRadius,
	}
}

// SeedInput is what both seeders read. Visible must list parents before
// their children, as [visibility.Resolve] does.
type SeedInput struct {
	Index   *hierarchy.Index
	Visible []string
	Sizes   SizeMap
	Center  Vec // viewport center, world space
	Rings   Rings
}

// visibleChildren returns the children of id present in visible, in
// source order.
func (in SeedInput) visibleChildren(id string, visible map[string]bool) []string {
	var out []string
	for _, c := range in.Index.Children(id) {
		if visible[c] {
			out = append(out, c)
		}
	}
	return out
}

func (in SeedInput) visibleSet() map[string]bool {
	s := make(map[string]bool, len(in.Visible))
	for _, id := range in.Visible {
		s[id] = true
	}
	return s
}

// SeedRoot places the roots and the primary root's first ring. It writes
// only ids missing from pos and returns how many it wrote.
//
// The primary root is centered on in.Center. Its visible children are spread
// evenly on a circle of in.Rings.RootRadius around the root's current center,
// the first at -90 degrees (the top) and the rest clockwise. Each child keeps
// its slot among all visible siblings, so a child that already has a
// position still reserves its angle. Secondary roots are spread over a ring
// of twice that radius around in.Center.
func SeedRoot(pos PositionMap, in SeedInput) int {
	if in.Index == nil {
		return 0
	}
	root, ok := in.Index.Root()
	if !ok {
		return 0
	}
	visible := in.visibleSet()
	if !visible[root] {
		return 0
	}

	written := 0
	if _, has := pos[root]; !has {
		pos.SetCenter(root, in.Center, in.Sizes)
		written++
	}

	rootCenter, _ := pos.Center(root, in.Sizes)
	kids := in.visibleChildren(root, visible)
	step := 360 / float64(max(len(kids), 1))
	for i, c := range kids {
		if _, has := pos[c]; has {
			continue
		}
		pos.SetCenter(c, rootCenter.Polar(-90+float64(i)*step, in.Rings.RootRadius), in.Sizes)
		written++
	}

	var others []string
	for _, r := range in.Index.Roots() {
		if r != root && visible[r] {
			others = append(others, r)
		}
	}
	step = 360 / float64(len(others)+1)
	for i, r := range others {
		if _, has := pos[r]; has {
			continue
		}
		pos.SetCenter(r, in.Center.Polar(-90+float64(i+1)*step, 2*in.Rings.RootRadius), in.Sizes)
		written++
	}
	return written
}

// SeedRevealed places visible children that lack a position on a ring
// around their parent. It writes only missing ids and returns how many.
//
// For each visible parent with missing visible children, the ring is
// centered on the parent's current center with radius
//
//	parentRadius + max(largest missing child radius, MinChildRadius) + Clearance
//
// and the missing children are spaced 360/len(missing) degrees apart starting
// at 0 degrees. Parents are visited in visible order, so a child seeded here
// can itself anchor a deeper ring in the same call.
func SeedRevealed(pos PositionMap, in SeedInput) int {
	if in.Index == nil {
		return 0
	}
	visible := in.visibleSet()
	written := 0
	for _, parent := range in.Visible {
		center, ok := pos.Center(parent, in.Sizes)
		if !ok {
			continue
		}
		var missing []string
		maxR := 0.0
		for _, c := range in.visibleChildren(parent, visible) {
			if _, has := pos[c]; has {
				continue
			}
			missing = append(missing, c)
			maxR = max(maxR, in.Sizes.Radius(c))
		}
		if len(missing) == 0 {
			continue
		}
		ring := in.Sizes.Radius(parent) + max(maxR, in.Rings.MinChildRadius) + in.Rings.Clearance
		step := 360 / float64(len(missing))
		for i, c := range missing {
			pos.SetCenter(c, center.Polar(float64(i)*step, ring), in.Sizes)
			written++
		}
	}
	return written
}

// Seed runs [SeedRoot] then [SeedRevealed] and returns the total written.
func Seed(pos PositionMap, in SeedInput) int {
	return SeedRoot(pos, in) + SeedRevealed(pos, in)
}
