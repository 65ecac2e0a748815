package physics

import (
	"math"

	"github.com/matzehuels/notionmap/pkg/layout"
)

// nudge returns a small deterministic offset for the coincident pair (i, j).
// It is antisymmetric: nudge(j, i) == -nudge(i, j).
func nudge(i, j int, eps float64) layout.Vec {
	lo, hi, sign := i, j, 1.0
	if lo > hi {
		lo, hi, sign = j, i, -1.0
	}
	deg := float64((lo*7919 + hi*104729) % 360)
	rad := deg * math.Pi / 180
	return layout.Vec{X: sign * eps * math.Cos(rad), Y: sign * eps * math.Sin(rad)}
}

// separation returns pj-pi, replaced by a nudge when the two points are
// closer than eps.
func separation(i, j int, pi, pj layout.Vec, eps float64) (layout.Vec, float64) {
	d := pj.Sub(pi)
	d2 := d.X*d.X + d.Y*d.Y
	if d2 < eps*eps {
		d = nudge(i, j, eps)
		d2 = d.X*d.X + d.Y*d.Y
	}
	return d, d2
}

// pairForce is the many-body force on i from j. With negative strength it
// points away from j and has magnitude |strength|/distance, softened below
// unit distance.
func pairForce(i, j int, pi, pj layout.Vec, strength, eps float64) layout.Vec {
	d, d2 := separation(i, j, pi, pj, eps)
	return d.Scale(strength / math.Max(d2, 1))
}

func (e *Engine) repulsion(s *State) {
	n := len(s.bodies)
	if e.cfg.Repulsion == 0 || n < 2 {
		return
	}
	if e.cfg.BarnesHutThreshold > 0 && n >= e.cfg.BarnesHutThreshold {
		e.repulsionBarnesHut(s)
		return
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := pairForce(i, j, s.bodies[i].Pos, s.bodies[j].Pos, e.cfg.Repulsion, e.cfg.Epsilon)
			e.force[i] = e.force[i].Add(f)
			e.force[j] = e.force[j].Sub(f)
		}
	}
}

func (e *Engine) repulsionBarnesHut(s *State) {
	e.pos = e.pos[:0]
	for _, b := range s.bodies {
		e.pos = append(e.pos, b.Pos)
	}
	tree := buildQuadtree(e.pos)
	theta2 := e.cfg.Theta * e.cfg.Theta
	for i := range s.bodies {
		e.force[i] = e.force[i].Add(tree.force(i, e.pos, theta2, e.cfg.Repulsion, e.cfg.Epsilon))
	}
}

// springs pulls each linked pair toward its rest distance. The correction
// is split by degree so that hubs move less than leaves.
func (e *Engine) springs(s *State) {
	for _, l := range s.links {
		a, b := s.bodies[l.source].Pos, s.bodies[l.target].Pos
		d, d2 := separation(l.source, l.target, a, b, e.cfg.Epsilon)
		dist := math.Sqrt(d2)
		f := d.Scale((dist - l.distance) / dist * l.strength)
		e.force[l.target] = e.force[l.target].Sub(f.Scale(l.bias))
		e.force[l.source] = e.force[l.source].Add(f.Scale(1 - l.bias))
	}
}

func (e *Engine) centerPull(s *State) {
	k := e.cfg.CenterStrength
	if k == 0 {
		return
	}
	for i, b := range s.bodies {
		e.force[i] = e.force[i].Add(s.center.Sub(b.Pos).Scale(k))
	}
}
