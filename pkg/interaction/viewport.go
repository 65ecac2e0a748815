package interaction

import (
	"math"

	"github.com/matzehuels/notionmap/pkg/layout"
)

// Default zoom bounds and steps.
const (
	DefaultZoomMin   = 0.12
	DefaultZoomMax   = 6.0
	DefaultZoomStep  = 1.04
	DefaultWheelSens = 0.0016
)

// ZoomConfig bounds and paces zooming.
type ZoomConfig struct {
	Min              float64 `toml:"min" json:"min" validate:"gt=0,ltfield=Max"`
	Max              float64 `toml:"max" json:"max" validate:"gt=0"`
	Step             float64 `toml:"step" json:"step" validate:"gt=1"`
	WheelSensitivity float64 `toml:"wheel_sensitivity" json:"wheel_sensitivity" validate:"gt=0"`
}

// DefaultZoomConfig returns the built-in zoom settings.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Min:              DefaultZoomMin,
		Max:              DefaultZoomMax,
		Step:             DefaultZoomStep,
		WheelSensitivity: DefaultWheelSens,
	}
}

// Viewport is the screen-space window onto the world.
//
// A world point w appears on screen at w*Scale + Pan.
type Viewport struct {
	Width, Height float64 // screen size in pixels
	Scale         float64
	Pan           layout.Vec
	Zoom          ZoomConfig
}

// NewViewport returns an unzoomed viewport of the given screen size.
func NewViewport(width, height float64, zoom ZoomConfig) *Viewport {
	return &Viewport{Width: width, Height: height, Scale: 1, Zoom: zoom}
}

// ScreenToWorld converts a screen point to world space.
func (v *Viewport) ScreenToWorld(p layout.Vec) layout.Vec {
	return p.Sub(v.Pan).Scale(1 / v.Scale)
}

// WorldToScreen converts a world point to screen space.
func (v *Viewport) WorldToScreen(p layout.Vec) layout.Vec {
	return p.Scale(v.Scale).Add(v.Pan)
}

// ScreenCenter returns the middle of the screen.
func (v *Viewport) ScreenCenter() layout.Vec {
	return layout.Vec{X: v.Width / 2, Y: v.Height / 2}
}

// Center returns the world point at the middle of the screen.
func (v *Viewport) Center() layout.Vec {
	return v.ScreenToWorld(v.ScreenCenter())
}

func (v *Viewport) clamp(s float64) float64 {
	return math.Min(v.Zoom.Max, math.Max(v.Zoom.Min, s))
}

// ZoomAt multiplies the scale by factor, clamped to the zoom bounds, while
// keeping the world point under screen point at fixed.
func (v *Viewport) ZoomAt(factor float64, at layout.Vec) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	w := v.ScreenToWorld(at)
	v.Scale = v.clamp(v.Scale * factor)
	v.Pan = at.Sub(w.Scale(v.Scale))
}

// Wheel zooms around at for a wheel movement of deltaY. Positive deltaY
// (scrolling down) zooms out.
func (v *Viewport) Wheel(deltaY float64, at layout.Vec) {
	v.ZoomAt(math.Exp(-deltaY*v.Zoom.WheelSensitivity), at)
}

// ZoomIn zooms one step around the screen center.
func (v *Viewport) ZoomIn() { v.ZoomAt(v.Zoom.Step, v.ScreenCenter()) }

// ZoomOut zooms out one step around the screen center.
func (v *Viewport) ZoomOut() { v.ZoomAt(1/v.Zoom.Step, v.ScreenCenter()) }

// PanBy shifts the view by a screen-space delta.
func (v *Viewport) PanBy(d layout.Vec) { v.Pan = v.Pan.Add(d) }

// CenterOn pans so that world point p sits at the screen center.
func (v *Viewport) CenterOn(p layout.Vec) {
	v.Pan = v.ScreenCenter().Sub(p.Scale(v.Scale))
}

// Resize changes the screen size, keeping the world center in place.
func (v *Viewport) Resize(width, height float64) {
	c := v.Center()
	v.Width, v.Height = width, height
	v.CenterOn(c)
}

// Reset restores scale 1 and no pan.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.Pan = layout.Vec{}
}
