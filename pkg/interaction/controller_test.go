package interaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
)

// fakeTarget has one 100px node "n" at the world origin.
type fakeTarget struct {
	pos      map[string]layout.Vec
	links    map[string]string
	pins     []string
	moves    []layout.Vec
	released []layout.Vec
	toggled  []string
}

func newTarget() *fakeTarget {
	return &fakeTarget{
		pos:   map[string]layout.Vec{"n": {}},
		links: map[string]string{"n": "https://www.notion.so/n"},
	}
}

func (f *fakeTarget) HitTest(w layout.Vec) (string, bool) {
	for id, p := range f.pos {
		if w.X >= p.X && w.X <= p.X+100 && w.Y >= p.Y && w.Y <= p.Y+100 {
			return id, true
		}
	}
	return "", false
}

func (f *fakeTarget) Position(id string) (layout.Vec, bool) {
	p, ok := f.pos[id]
	return p, ok
}

func (f *fakeTarget) PinStart(id string, at layout.Vec) { f.pins = append(f.pins, id) }
func (f *fakeTarget) PinMove(id string, at layout.Vec)  { f.moves = append(f.moves, at) }
func (f *fakeTarget) PinEnd(id string, at, v layout.Vec) {
	f.pos[id] = at
	f.released = append(f.released, v)
}
func (f *fakeTarget) Toggle(id string)      { f.toggled = append(f.toggled, id) }
func (f *fakeTarget) Link(id string) string { return f.links[id] }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(cfg interaction.Config) (*interaction.Controller, *fakeTarget, *clock) {
	clk := &clock{t: time.Unix(1000, 0)}
	tgt := newTarget()
	vp := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	return interaction.NewController(tgt, vp, cfg, interaction.WithClock(clk.now)), tgt, clk
}

func TestClickTogglesAfterWindow(t *testing.T) {
	c, tgt, clk := setup(interaction.DefaultConfig())

	c.Down(1, layout.Vec{X: 50, Y: 50})
	assert.Equal(t, interaction.Pressed, c.Phase("n"))
	c.Move(1, layout.Vec{X: 51, Y: 50})
	c.Up(1, layout.Vec{X: 51, Y: 50})

	assert.Empty(t, tgt.pins, "sub-threshold movement must not pin")
	assert.True(t, c.Pending("n"))
	assert.Empty(t, c.Flush())

	clk.advance(interaction.DefaultDoubleClickWindow)
	assert.Equal(t, []string{"n"}, c.Flush())
	assert.Equal(t, []string{"n"}, tgt.toggled)
	assert.False(t, c.Pending("n"))
}

func TestImmediateToggleWithoutWindow(t *testing.T) {
	cfg := interaction.DefaultConfig()
	cfg.DoubleClickWindow = 0
	c, tgt, _ := setup(cfg)

	c.Down(1, layout.Vec{X: 10, Y: 10})
	c.Up(1, layout.Vec{X: 10, Y: 10})
	assert.Equal(t, []string{"n"}, tgt.toggled)
}

func TestDragPinsAndReleases(t *testing.T) {
	c, tgt, clk := setup(interaction.DefaultConfig())

	c.Down(1, layout.Vec{X: 50, Y: 50})
	clk.advance(16 * time.Millisecond)
	c.Move(1, layout.Vec{X: 60, Y: 50})
	assert.Equal(t, interaction.Dragging, c.Phase("n"))
	require.Equal(t, []string{"n"}, tgt.pins)

	clk.advance(16 * time.Millisecond)
	c.Move(1, layout.Vec{X: 80, Y: 70})
	c.Up(1, layout.Vec{X: 80, Y: 70})

	assert.Equal(t, layout.Vec{X: 30, Y: 20}, tgt.pos["n"])
	require.Len(t, tgt.released, 1)
	assert.Greater(t, tgt.released[0].Len(), 0.0)
	assert.Equal(t, interaction.Idle, c.Phase("n"))
	assert.Empty(t, tgt.toggled)
}

func TestDragStartsFromCurrentPosition(t *testing.T) {
	c, tgt, _ := setup(interaction.DefaultConfig())

	c.Down(1, layout.Vec{X: 50, Y: 50})
	// The simulation moves the node while the pointer is held still.
	tgt.pos["n"] = layout.Vec{X: 4, Y: -6}
	c.Move(1, layout.Vec{X: 53, Y: 50})

	require.Equal(t, []string{"n"}, tgt.pins)
	require.NotEmpty(t, tgt.moves)
	assert.Equal(t, layout.Vec{X: 7, Y: -6}, tgt.moves[len(tgt.moves)-1])
}

func TestDragAccountsForZoomAndPan(t *testing.T) {
	c, tgt, _ := setup(interaction.DefaultConfig())
	vp := c.Viewport()
	vp.Scale = 2
	vp.Pan = layout.Vec{X: 100, Y: 100}

	// World (0,0)-(100,100) is on screen at (100,100)-(300,300).
	c.Down(1, layout.Vec{X: 150, Y: 150})
	c.Move(1, layout.Vec{X: 170, Y: 150})
	require.NotEmpty(t, tgt.moves)
	assert.Equal(t, layout.Vec{X: 10, Y: 0}, tgt.moves[len(tgt.moves)-1])
}

func TestClickAfterDragIsSuppressed(t *testing.T) {
	c, tgt, clk := setup(interaction.DefaultConfig())

	c.Down(1, layout.Vec{X: 50, Y: 50})
	c.Move(1, layout.Vec{X: 60, Y: 60})
	c.Up(1, layout.Vec{X: 60, Y: 60})

	clk.advance(50 * time.Millisecond)
	c.Down(1, layout.Vec{X: 60, Y: 60})
	c.Up(1, layout.Vec{X: 60, Y: 60})
	assert.False(t, c.Pending("n"))

	clk.advance(interaction.DefaultClickSuppression)
	c.Down(1, layout.Vec{X: 60, Y: 60})
	c.Up(1, layout.Vec{X: 60, Y: 60})
	assert.True(t, c.Pending("n"))
	assert.Empty(t, tgt.toggled)
}

func TestDoubleClickCancelsToggle(t *testing.T) {
	var opened []string
	clk := &clock{t: time.Unix(1000, 0)}
	tgt := newTarget()
	vp := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	c := interaction.NewController(tgt, vp, interaction.DefaultConfig(),
		interaction.WithClock(clk.now),
		interaction.WithOpener(func(id, url string) { opened = append(opened, url) }))

	c.Down(1, layout.Vec{X: 50, Y: 50})
	c.Up(1, layout.Vec{X: 50, Y: 50})
	url := c.DoubleClick(layout.Vec{X: 50, Y: 50})

	assert.Equal(t, "https://www.notion.so/n", url)
	assert.Equal(t, []string{url}, opened)
	clk.advance(time.Second)
	assert.Empty(t, c.Flush())
	assert.Empty(t, tgt.toggled)
}

func TestDoubleClickWithoutLinkIsNoop(t *testing.T) {
	c, tgt, _ := setup(interaction.DefaultConfig())
	tgt.links = nil
	assert.Equal(t, "", c.DoubleClick(layout.Vec{X: 50, Y: 50}))
	assert.Equal(t, "", c.DoubleClick(layout.Vec{X: 500, Y: 500}))
}

func TestCanvasPanAndCancel(t *testing.T) {
	c, tgt, _ := setup(interaction.DefaultConfig())

	c.Down(2, layout.Vec{X: 400, Y: 400})
	c.Move(2, layout.Vec{X: 420, Y: 390})
	assert.Equal(t, layout.Vec{X: 20, Y: -10}, c.Viewport().Pan)
	c.Up(2, layout.Vec{X: 420, Y: 390})

	c.Down(1, layout.Vec{X: 10, Y: 10})
	c.Cancel(1)
	assert.False(t, c.Pending("n"))
	assert.Empty(t, tgt.pins)
}
