package layout

import (
	"maps"
	"math"
)

// Vec is a point or displacement in world space.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and w.
func (v Vec) Dist(w Vec) float64 { return v.Sub(w).Len() }

// Finite reports whether both components are finite numbers.
func (v Vec) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Polar returns the point at angle deg (degrees, clockwise from +X in
// screen coordinates) and distance r from v.
func (v Vec) Polar(deg, r float64) Vec {
	rad := deg * math.Pi / 180
	return Vec{v.X + r*math.Cos(rad), v.Y + r*math.Sin(rad)}
}

// PositionMap maps node ids to top-left corners.
type PositionMap map[string]Vec

// Clone returns an independent copy.
func (p PositionMap) Clone() PositionMap { return maps.Clone(p) }

// Center returns the center of id given its diameter in sizes.
func (p PositionMap) Center(id string, sizes SizeMap) (Vec, bool) {
	tl, ok := p[id]
	if !ok {
		return Vec{}, false
	}
	r := sizes.Radius(id)
	return Vec{tl.X + r, tl.Y + r}, true
}

// SetCenter stores the top-left corner that puts id's center at c.
func (p PositionMap) SetCenter(id string, c Vec, sizes SizeMap) {
	r := sizes.Radius(id)
	p[id] = Vec{c.X - r, c.Y - r}
}

// Bounds returns the top-left and bottom-right corners enclosing ids.
// ok is false when none of ids has a position.
func (p PositionMap) Bounds(ids []string, sizes SizeMap) (lo, hi Vec, ok bool) {
	lo = Vec{math.Inf(1), math.Inf(1)}
	hi = Vec{math.Inf(-1), math.Inf(-1)}
	for _, id := range ids {
		tl, has := p[id]
		if !has {
			continue
		}
		d := sizes[id]
		lo.X, lo.Y = math.Min(lo.X, tl.X), math.Min(lo.Y, tl.Y)
		hi.X, hi.Y = math.Max(hi.X, tl.X+d), math.Max(hi.Y, tl.Y+d)
		ok = true
	}
	return lo, hi, ok
}
