package physics

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/notionmap/pkg/layout"
)

// Body is the simulated state of one visible node. Pos is the center.
type Body struct {
	ID     string
	Pos    layout.Vec
	Vel    layout.Vec
	Radius float64
	Fixed  bool // pinned during the current tick
}

// Pin is a hard positional override. At is a top-left corner.
type Pin struct {
	At   layout.Vec
	Drag bool // held by an active drag rather than a lock
}

type spring struct {
	source, target int
	distance       float64
	strength       float64
	bias           float64 // share of the correction applied to target
}

// Input is the complete working set for a restart. Positions and Sizes use
// the top-left and diameter conventions of package layout.
type Input struct {
	IDs       []string
	Sizes     layout.SizeMap
	Positions layout.PositionMap
	Links     []layout.Link
	Center    layout.Vec
}

// State is one view's simulation state. Create it with [NewState] and load
// it with [Engine.Load].
type State struct {
	bodies []Body
	index  map[string]int
	links  []spring
	pins   map[string]Pin
	center layout.Vec
	alpha  float64
	ticks  int
}

// NewState returns an empty state at rest.
func NewState() *State {
	return &State{
		index: make(map[string]int),
		pins:  make(map[string]Pin),
	}
}

// Len returns the number of bodies.
func (s *State) Len() int { return len(s.bodies) }

// Alpha returns the current temperature.
func (s *State) Alpha() float64 { return s.alpha }

// Ticks returns the number of active ticks since the last load.
func (s *State) Ticks() int { return s.ticks }

// Center returns the point the center force pulls toward.
func (s *State) Center() layout.Vec { return s.center }

// SetCenter moves the center-pull target without restarting.
func (s *State) SetCenter(c layout.Vec) { s.center = c }

// Body returns a copy of the body for id.
func (s *State) Body(id string) (Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return Body{}, false
	}
	return s.bodies[i], true
}

// Position returns the published top-left corner of id.
func (s *State) Position(id string) (layout.Vec, bool) {
	if p, ok := s.pins[id]; ok {
		if _, known := s.index[id]; known {
			return p.At, true
		}
	}
	i, ok := s.index[id]
	if !ok {
		return layout.Vec{}, false
	}
	b := s.bodies[i]
	return layout.Vec{X: b.Pos.X - b.Radius, Y: b.Pos.Y - b.Radius}, true
}

// Positions returns the published top-left corners of all bodies. Pinned
// bodies report their pin exactly.
func (s *State) Positions() layout.PositionMap {
	out := make(layout.PositionMap, len(s.bodies))
	for _, b := range s.bodies {
		out[b.ID], _ = s.Position(b.ID)
	}
	return out
}

// IDs returns body ids in load order.
func (s *State) IDs() []string {
	out := make([]string, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.ID
	}
	return out
}

// Energy returns the total kinetic energy, with unit mass per body.
func (s *State) Energy() float64 {
	e := 0.0
	for _, b := range s.bodies {
		e += 0.5 * (b.Vel.X*b.Vel.X + b.Vel.Y*b.Vel.Y)
	}
	return e
}

// Pinned reports whether id has a pin or lock.
func (s *State) Pinned(id string) bool {
	_, ok := s.pins[id]
	return ok
}

// Dragging reports whether id is held by a drag pin.
func (s *State) Dragging(id string) bool {
	return s.pins[id].Drag
}

// Pins returns a copy of all pins.
func (s *State) Pins() map[string]Pin { return maps.Clone(s.pins) }

// PinnedIDs returns the sorted ids that carry a pin or lock.
func (s *State) PinnedIDs() []string {
	return slices.Sorted(maps.Keys(s.pins))
}

func (s *State) dragging() bool {
	for _, p := range s.pins {
		if p.Drag {
			return true
		}
	}
	return false
}

// Pin holds id at the top-left corner at for as long as the drag lasts.
// A pin may be set before the body exists; it applies once the body loads.
func (s *State) Pin(id string, at layout.Vec) {
	if !at.Finite() {
		return
	}
	s.pins[id] = Pin{At: at, Drag: true}
	s.applyPin(id)
}

// Lock holds id at the top-left corner at until [State.Unlock].
func (s *State) Lock(id string, at layout.Vec) {
	if !at.Finite() {
		return
	}
	s.pins[id] = Pin{At: at}
	s.applyPin(id)
}

// Unlock removes any pin on id and returns its last value.
func (s *State) Unlock(id string) (layout.Vec, bool) {
	p, ok := s.pins[id]
	delete(s.pins, id)
	return p.At, ok
}

// ClearPins drops every pin that is not held by a drag.
func (s *State) ClearPins() {
	for id, p := range s.pins {
		if !p.Drag {
			delete(s.pins, id)
		}
	}
}

func (s *State) applyPin(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	p := s.pins[id]
	b := &s.bodies[i]
	b.Pos = layout.Vec{X: p.At.X + b.Radius, Y: p.At.Y + b.Radius}
	b.Vel = layout.Vec{}
	b.Fixed = true
}

func (s *State) applyPins() {
	for i := range s.bodies {
		s.bodies[i].Fixed = false
	}
	for id := range s.pins {
		s.applyPin(id)
	}
}

// phyllotaxis returns the i-th point of a sunflower spiral around c. It is
// used for bodies that arrive without a seeded position.
func phyllotaxis(c layout.Vec, i int) layout.Vec {
	const angle = 2.399963229728653 // golden angle, radians
	r := 10 * math.Sqrt(0.5+float64(i))
	a := float64(i) * angle
	return layout.Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
}
