package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/notionmap/pkg/layout"
)

func TestBarnesHutMatchesExactAtThetaZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pos := make([]layout.Vec, 80)
	for i := range pos {
		pos[i] = layout.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 600}
	}
	pos[5] = pos[4] // coincident pair

	const strength, eps = -900.0, 0.01
	tree := buildQuadtree(pos)
	for i := range pos {
		var exact layout.Vec
		for j := range pos {
			if j != i {
				exact = exact.Add(pairForce(i, j, pos[i], pos[j], strength, eps))
			}
		}
		got := tree.force(i, pos, 0, strength, eps)
		if d := got.Sub(exact).Len(); d > 1e-9*math.Max(1, exact.Len()) {
			t.Errorf("body %d: barnes-hut %v, exact %v", i, got, exact)
		}
	}
}

func TestBarnesHutApproximation(t *testing.T) {
	// A distant tight cluster acts like one heavy body.
	pos := []layout.Vec{{X: 0, Y: 0}}
	for i := 0; i < 8; i++ {
		pos = append(pos, layout.Vec{X: 10000 + float64(i%3), Y: float64(i / 3)})
	}
	tree := buildQuadtree(pos)
	got := tree.force(0, pos, 0.81, -900, 0.01)
	if got.X >= 0 {
		t.Errorf("expected push away from the cluster, got %v", got)
	}
	want := 8 * 900 / 10001.0
	if math.Abs(got.Len()-want)/want > 0.01 {
		t.Errorf("force %v, want about %v", got.Len(), want)
	}
}

func TestNudgeAntisymmetric(t *testing.T) {
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			if i == j {
				continue
			}
			a, b := nudge(i, j, 0.01), nudge(j, i, 0.01)
			if math.Abs(a.X+b.X) > 1e-15 || math.Abs(a.Y+b.Y) > 1e-15 {
				t.Fatalf("nudge(%d,%d)=%v, nudge(%d,%d)=%v", i, j, a, j, i, b)
			}
			if math.Abs(a.Len()-0.01) > 1e-12 {
				t.Fatalf("nudge length %v", a.Len())
			}
		}
	}
}
