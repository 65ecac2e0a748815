package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
)

func TestViewportRoundTrip(t *testing.T) {
	v := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	v.Scale = 2
	v.Pan = layout.Vec{X: 30, Y: -20}

	w := layout.Vec{X: 12, Y: 40}
	s := v.WorldToScreen(w)
	assert.Equal(t, layout.Vec{X: 54, Y: 60}, s)
	assert.Equal(t, w, v.ScreenToWorld(s))
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	v := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	at := layout.Vec{X: 200, Y: 150}
	before := v.ScreenToWorld(at)

	v.ZoomAt(1.5, at)
	assert.InDelta(t, 1.5, v.Scale, 1e-12)
	after := v.ScreenToWorld(at)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomClamps(t *testing.T) {
	v := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	for i := 0; i < 200; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, interaction.DefaultZoomMax, v.Scale)
	for i := 0; i < 400; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, interaction.DefaultZoomMin, v.Scale)

	v.ZoomAt(0, layout.Vec{})
	assert.Equal(t, interaction.DefaultZoomMin, v.Scale)
}

func TestWheelDirection(t *testing.T) {
	v := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	v.Wheel(100, v.ScreenCenter())
	assert.Less(t, v.Scale, 1.0)

	v.Reset()
	v.Wheel(-100, v.ScreenCenter())
	assert.Greater(t, v.Scale, 1.0)
}

func TestCenterOnAndResize(t *testing.T) {
	v := interaction.NewViewport(800, 600, interaction.DefaultZoomConfig())
	v.Scale = 0.5
	v.CenterOn(layout.Vec{X: 1000, Y: 1000})
	c := v.Center()
	assert.InDelta(t, 1000, c.X, 1e-9)
	assert.InDelta(t, 1000, c.Y, 1e-9)

	v.Resize(400, 300)
	c = v.Center()
	assert.InDelta(t, 1000, c.X, 1e-9)
	assert.InDelta(t, 1000, c.Y, 1e-9)
}
