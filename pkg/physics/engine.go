package physics

import (
	"math"

	"github.com/matzehuels/notionmap/pkg/layout"
)

// Stats describes one tick.
type Stats struct {
	Tick   int     // active ticks since the last load
	Alpha  float64 // temperature after the tick
	Energy float64 // kinetic energy after the tick
	Active bool    // false when the state was at rest and nothing ran
}

// Engine advances simulation states. It keeps scratch buffers between
// ticks, so one Engine should serve one goroutine.
type Engine struct {
	cfg   Config
	force []layout.Vec
	pos   []layout.Vec
	order []int
}

// NewEngine returns an engine using cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Load replaces the working set of s with in and reheats it.
//
// Bodies take their center from in.Positions, then from the previous body
// with the same id, then from a spiral around in.Center. Velocities of
// surviving bodies carry over. Pins are kept, including pins on ids that are
// not in the new set, and are applied immediately. Links whose endpoints are
// missing are dropped.
func (e *Engine) Load(s *State, in Input) {
	prev := make(map[string]Body, len(s.bodies))
	for _, b := range s.bodies {
		prev[b.ID] = b
	}

	s.bodies = make([]Body, 0, len(in.IDs))
	s.index = make(map[string]int, len(in.IDs))
	for i, id := range in.IDs {
		if _, dup := s.index[id]; dup {
			continue
		}
		b := Body{ID: id, Radius: math.Max(in.Sizes[id]/2, e.cfg.MinRadius)}
		old, had := prev[id]
		switch tl, ok := in.Positions[id]; {
		case ok && tl.Finite():
			b.Pos = layout.Vec{X: tl.X + b.Radius, Y: tl.Y + b.Radius}
		case had:
			b.Pos = old.Pos
		default:
			b.Pos = phyllotaxis(in.Center, i)
		}
		if had {
			b.Vel = old.Vel
		}
		s.index[id] = len(s.bodies)
		s.bodies = append(s.bodies, b)
	}

	degree := make([]int, len(s.bodies))
	s.links = s.links[:0]
	for _, l := range in.Links {
		si, ok1 := s.index[l.Source]
		ti, ok2 := s.index[l.Target]
		if !ok1 || !ok2 || si == ti {
			continue
		}
		degree[si]++
		degree[ti]++
		s.links = append(s.links, spring{source: si, target: ti, distance: l.Distance, strength: l.Strength})
	}
	for i := range s.links {
		l := &s.links[i]
		l.bias = float64(degree[l.source]) / float64(degree[l.source]+degree[l.target])
	}

	s.center = in.Center
	s.applyPins()
	e.Restart(s)
}

// Restart reheats s to full temperature.
func (e *Engine) Restart(s *State) {
	s.alpha = 1
	s.ticks = 0
}

// Release ends the drag or lock on id, gives the body velocity v, and
// reheats s partially so the graph settles around the release point. It
// returns the last pinned top-left corner.
func (e *Engine) Release(s *State, id string, v layout.Vec) (layout.Vec, bool) {
	at, ok := s.Unlock(id)
	if !ok {
		return layout.Vec{}, false
	}
	if i, has := s.index[id]; has {
		b := &s.bodies[i]
		b.Fixed = false
		if v.Finite() {
			if sp := v.Len(); sp > e.cfg.MaxSpeed {
				v = v.Scale(e.cfg.MaxSpeed / sp)
			}
			b.Vel = v
		}
	}
	s.alpha = math.Max(s.alpha, math.Max(e.cfg.DragAlphaTarget, e.cfg.AlphaMin*10))
	return at, true
}

// Resting reports whether s has cooled below the minimum temperature with
// no drag in progress.
func (e *Engine) Resting(s *State) bool {
	return len(s.bodies) == 0 || (!s.dragging() && s.alpha < e.cfg.AlphaMin)
}

// Tick advances s by one step. A resting state is left untouched.
func (e *Engine) Tick(s *State) Stats {
	if e.Resting(s) {
		return Stats{Tick: s.ticks, Alpha: s.alpha, Energy: s.Energy()}
	}

	target := 0.0
	if s.dragging() {
		target = e.cfg.DragAlphaTarget
	}
	s.alpha += (target - s.alpha) * e.cfg.AlphaDecay

	s.applyPins()

	n := len(s.bodies)
	if cap(e.force) < n {
		e.force = make([]layout.Vec, n)
	}
	e.force = e.force[:n]
	clear(e.force)
	e.repulsion(s)
	e.springs(s)
	e.centerPull(s)

	e.integrate(s)
	e.collide(s)
	s.applyPins()

	s.ticks++
	return Stats{Tick: s.ticks, Alpha: s.alpha, Energy: s.Energy(), Active: true}
}

func (e *Engine) integrate(s *State) {
	k := s.alpha * e.cfg.TimeStep
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Fixed {
			continue
		}
		v := b.Vel.Add(e.force[i].Scale(k)).Scale(e.cfg.Damping)
		if sp := v.Len(); sp > e.cfg.MaxSpeed {
			v = v.Scale(e.cfg.MaxSpeed / sp)
		}
		next := b.Pos.Add(v)
		if !v.Finite() || !next.Finite() {
			b.Vel = layout.Vec{}
			continue
		}
		b.Vel = v
		b.Pos = next
	}
}

// Settle ticks s until it rests or maxTicks ticks have run, and returns
// the stats of the last tick that ran.
func (e *Engine) Settle(s *State, maxTicks int) Stats {
	st := Stats{Tick: s.ticks, Alpha: s.alpha, Energy: s.Energy()}
	for i := 0; i < maxTicks && !e.Resting(s); i++ {
		st = e.Tick(s)
	}
	return st
}
