/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package viewport tracks the zoom and pan of the tree view.
//
// A Viewport maps world coordinates (the layout's) to screen pixels with
//
//	screen = world*Scale + (X, Y)
//
// and is driven by pointer drags and wheel deltas from the page.
package viewport

import (
	"math"

	"github.com/Seednode/guesswho/games/tree"
)

const (
	MinScale = 0.3
	MaxScale = 3.0

	initialScale   = 0.7
	initialOffsetY = 120
)

// DeltaMode mirrors the DOM WheelEvent.deltaMode values.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// Transform is the current world-to-screen mapping.
type Transform struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Viewport is a single screen's view of a layout. It is not safe for
// concurrent use; one owner applies input to it.
type Viewport struct {
	width, height float64
	t             Transform
	extent        *tree.Bounds
}

// New returns a viewport for a screen of the given size, showing the root
// near the top centre.
func New(width, height float64) *Viewport {
	v := &Viewport{width: width, height: height}
	v.Reset()
	return v
}

// Reset restores the initial transform.
func (v *Viewport) Reset() {
	v.t = Transform{
		Scale: initialScale,
		X:     v.width / 2,
		Y:     initialOffsetY,
	}
	v.constrain()
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform {
	return v.t
}

// Size returns the screen size in pixels.
func (v *Viewport) Size() (width, height float64) {
	return v.width, v.height
}

// Resize changes the screen size. Non-positive sizes are ignored.
func (v *Viewport) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = width, height
	v.constrain()
}

// SetExtent limits panning to b. A nil extent removes the limit.
func (v *Viewport) SetExtent(b *tree.Bounds) {
	v.extent = b
	v.constrain()
}

// Pan moves the view by a pointer drag delta in screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.t.X += dx
	v.t.Y += dy
	v.constrain()
}

// Zoom applies a wheel event about the screen point (px, py), which stays
// fixed under the pointer. Scrolling down zooms out.
func (v *Viewport) Zoom(deltaY float64, mode DeltaMode, px, py float64) {
	var unit float64
	switch mode {
	case DeltaLine:
		unit = 0.05
	case DeltaPage:
		unit = 1
	default:
		unit = 0.002
	}

	v.ZoomBy(math.Pow(2, -deltaY*unit), px, py)
}

// ZoomBy multiplies the scale by factor about the screen point (px, py).
func (v *Viewport) ZoomBy(factor, px, py float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}

	wx, wy := v.ToWorld(px, py)

	v.t.Scale = clamp(v.t.Scale*factor, MinScale, MaxScale)
	v.t.X = px - wx*v.t.Scale
	v.t.Y = py - wy*v.t.Scale

	v.constrain()
}

// ToWorld converts a screen point to world coordinates.
func (v *Viewport) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - v.t.X) / v.t.Scale, (sy - v.t.Y) / v.t.Scale
}

// ToScreen converts a world point to screen coordinates.
func (v *Viewport) ToScreen(wx, wy float64) (float64, float64) {
	return wx*v.t.Scale + v.t.X, wy*v.t.Scale + v.t.Y
}

// Visible returns the world-space window currently on screen.
func (v *Viewport) Visible() Rect {
	x0, y0 := v.ToWorld(0, 0)
	x1, y1 := v.ToWorld(v.width, v.height)
	return Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

// constrain keeps the visible window inside the extent on each axis, or
// centres the extent when the window is larger than it.
func (v *Viewport) constrain() {
	if v.extent == nil {
		return
	}

	w := v.Visible()
	e := v.extent

	v.t.X += v.t.Scale * shift(w.MinX-e.MinX, w.MaxX-e.MaxX)
	v.t.Y += v.t.Scale * shift(w.MinY-e.MinY, w.MaxY-e.MaxY)
}

func shift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if d0 < 0 {
		return d0
	}
	if d1 > 0 {
		return d1
	}
	return 0
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
