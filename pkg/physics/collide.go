package physics

import (
	"math"
	"sort"
)

// collide pushes overlapping bodies apart along the line between their
// centers until they are at least r1+r2+padding apart. Free bodies share
// the correction equally; a fixed body does not move and its partner takes
// the whole correction. Candidate pairs come from a sweep along X.
func (e *Engine) collide(s *State) {
	n := len(s.bodies)
	if n < 2 {
		return
	}
	pad := e.cfg.CollidePadding
	maxR := 0.0
	for _, b := range s.bodies {
		maxR = math.Max(maxR, b.Radius)
	}

	for it := 0; it < max(e.cfg.CollideIterations, 1); it++ {
		e.order = e.order[:0]
		for i := range s.bodies {
			e.order = append(e.order, i)
		}
		sort.Slice(e.order, func(a, b int) bool {
			return s.bodies[e.order[a]].Pos.X < s.bodies[e.order[b]].Pos.X
		})

		moved := false
		for oi, i := range e.order {
			for _, j := range e.order[oi+1:] {
				bi, bj := &s.bodies[i], &s.bodies[j]
				reach := bi.Radius + maxR + pad
				if bj.Pos.X-bi.Pos.X > reach {
					break
				}
				if bi.Fixed && bj.Fixed {
					continue
				}
				gap := bi.Radius + bj.Radius + pad
				d, d2 := separation(i, j, bi.Pos, bj.Pos, e.cfg.Epsilon)
				if d2 >= gap*gap {
					continue
				}
				dist := math.Sqrt(d2)
				push := d.Scale((gap - dist) / dist)
				wi, wj := 0.5, 0.5
				switch {
				case bi.Fixed:
					wi, wj = 0, 1
				case bj.Fixed:
					wi, wj = 1, 0
				}
				bi.Pos = bi.Pos.Sub(push.Scale(wi))
				bj.Pos = bj.Pos.Add(push.Scale(wj))
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}
