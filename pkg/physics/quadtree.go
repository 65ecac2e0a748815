package physics

import (
	"math"

	"github.com/matzehuels/notionmap/pkg/layout"
)

const (
	quadMaxDepth = 32
	quadMinSize  = 1e-6
)

// quad is a Barnes-Hut quadtree cell. Leaves hold body indices; a leaf that
// can no longer split (too deep or too small) holds several coincident
// bodies.
type quad struct {
	x, y, size float64 // top-left corner and side length
	sum        layout.Vec
	mass       float64
	bodies     []int
	kids       [4]*quad
	leaf       bool
}

func newQuad(x, y, size float64) *quad {
	return &quad{x: x, y: y, size: size, leaf: true}
}

// buildQuadtree returns a square tree covering pos, padded by 10%.
func buildQuadtree(pos []layout.Vec) *quad {
	if len(pos) == 0 {
		return nil
	}
	minX, minY := pos[0].X, pos[0].Y
	maxX, maxY := minX, minY
	for _, p := range pos[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	size := math.Max(maxX-minX, maxY-minY)
	pad := math.Max(size*0.1, 1)
	size += 2 * pad
	cx, cy := (minX+maxX)/2, (minY+maxY)/2

	root := newQuad(cx-size/2, cy-size/2, size)
	for i, p := range pos {
		root.insert(i, p, pos, 0)
	}
	return root
}

func (q *quad) insert(i int, p layout.Vec, pos []layout.Vec, depth int) {
	q.mass++
	q.sum = q.sum.Add(p)

	if q.leaf {
		if len(q.bodies) == 0 || depth >= quadMaxDepth || q.size < quadMinSize {
			q.bodies = append(q.bodies, i)
			return
		}
		q.leaf = false
		old := q.bodies
		q.bodies = nil
		for _, o := range old {
			q.child(pos[o]).insert(o, pos[o], pos, depth+1)
		}
	}
	q.child(p).insert(i, p, pos, depth+1)
}

func (q *quad) child(p layout.Vec) *quad {
	half := q.size / 2
	k := 0
	if p.X >= q.x+half {
		k |= 1
	}
	if p.Y >= q.y+half {
		k |= 2
	}
	if q.kids[k] == nil {
		q.kids[k] = newQuad(q.x+float64(k&1)*half, q.y+float64(k>>1)*half, half)
	}
	return q.kids[k]
}

func (q *quad) contains(p layout.Vec) bool {
	return p.X >= q.x && p.X < q.x+q.size && p.Y >= q.y && p.Y < q.y+q.size
}

// force accumulates the repulsion on body i from every body in q. Cells that
// are small relative to their distance (size/d < theta) and do not contain
// i are treated as a single mass at their center of mass.
func (q *quad) force(i int, pos []layout.Vec, theta2, strength, eps float64) layout.Vec {
	if q == nil || q.mass == 0 {
		return layout.Vec{}
	}
	p := pos[i]
	if q.leaf {
		var f layout.Vec
		for _, j := range q.bodies {
			if j != i {
				f = f.Add(pairForce(i, j, p, pos[j], strength, eps))
			}
		}
		return f
	}
	if !q.contains(p) {
		com := q.sum.Scale(1 / q.mass)
		d := com.Sub(p)
		d2 := d.X*d.X + d.Y*d.Y
		if d2 > 0 && q.size*q.size < theta2*d2 {
			return d.Scale(strength * q.mass / math.Max(d2, 1))
		}
	}
	var f layout.Vec
	for _, k := range q.kids {
		if k != nil {
			f = f.Add(k.force(i, pos, theta2, strength, eps))
		}
	}
	return f
}
