// Package camera provides the 2D orthographic camera used by the rendering
// systems and by screen/world hit testing.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/scion"
)

// MinScale is the smallest zoom a camera accepts.
const MinScale = 0.1

// scrollAnim holds active scroll-to tweens for the camera position.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera2D maps world space to a width x height viewport. Position is the
// world point shown at the screen offset; Scale zooms around that point.
//
// The matrix is recomputed lazily: setters mark the camera dirty and the
// next Update or Matrix call rebuilds it.
type Camera2D struct {
	width, height int
	position      scion.Vec2
	scale         float64
	offset        scion.Vec2

	// BoundsEnabled clamps the position so the visible area stays within
	// Bounds.
	BoundsEnabled bool
	Bounds        scion.Rect

	matrix mgl32.Mat4
	dirty  bool

	scroll *scrollAnim
}

// New creates a camera for a width x height viewport at the origin.
func New(width, height int) *Camera2D {
	return &Camera2D{
		width:  width,
		height: height,
		scale:  1,
		dirty:  true,
	}
}

func (c *Camera2D) Width() int               { return c.width }
func (c *Camera2D) Height() int              { return c.height }
func (c *Camera2D) Position() scion.Vec2     { return c.position }
func (c *Camera2D) Scale() float64           { return c.scale }
func (c *Camera2D) ScreenOffset() scion.Vec2 { return c.offset }

// Resize changes the viewport size.
func (c *Camera2D) Resize(width, height int) {
	if c.width == width && c.height == height {
		return
	}
	c.width, c.height = width, height
	c.dirty = true
}

func (c *Camera2D) SetPosition(p scion.Vec2) {
	c.position = p
	c.clamp()
	c.dirty = true
}

// SetScale sets the zoom, clamped to MinScale.
func (c *Camera2D) SetScale(s float64) {
	if s < MinScale || math.IsNaN(s) {
		s = MinScale
	}
	c.scale = s
	c.clamp()
	c.dirty = true
}

func (c *Camera2D) SetScreenOffset(o scion.Vec2) {
	c.offset = o
	c.dirty = true
}

// SetBounds enables bounds clamping.
func (c *Camera2D) SetBounds(b scion.Rect) {
	c.BoundsEnabled = true
	c.Bounds = b
	c.clamp()
	c.dirty = true
}

// ClearBounds disables bounds clamping.
func (c *Camera2D) ClearBounds() {
	c.BoundsEnabled = false
}

// Update rebuilds the matrix if a setter ran since the last rebuild. The
// matrix is Ortho2D(0, w, h, 0) · T(offset) · S(scale) · T(-position):
// the camera position is subtracted first, then zoom is applied, then the
// screen offset, so ScreenCoordsToWorld(p) = (p-offset)/scale + position.
func (c *Camera2D) Update() {
	if !c.dirty {
		return
	}
	c.dirty = false

	ortho := mgl32.Ortho2D(0, float32(c.width), float32(c.height), 0)
	off := mgl32.Translate3D(float32(c.offset.X), float32(c.offset.Y), 0)
	s := float32(c.scale)
	zoom := mgl32.Scale3D(s, s, 1)
	pos := mgl32.Translate3D(float32(-c.position.X), float32(-c.position.Y), 0)
	c.matrix = ortho.Mul4(off).Mul4(zoom).Mul4(pos)
}

// Matrix returns the world-to-clip matrix, rebuilding it first if needed.
func (c *Camera2D) Matrix() mgl32.Mat4 {
	c.Update()
	return c.matrix
}

// Dirty reports whether the matrix is stale.
func (c *Camera2D) Dirty() bool {
	return c.dirty
}

// ScreenCoordsToWorld converts a screen pixel to world space.
func (c *Camera2D) ScreenCoordsToWorld(p scion.Vec2) scion.Vec2 {
	return scion.Vec2{
		X: (p.X-c.offset.X)/c.scale + c.position.X,
		Y: (p.Y-c.offset.Y)/c.scale + c.position.Y,
	}
}

// WorldCoordsToScreen converts a world point to screen pixels.
func (c *Camera2D) WorldCoordsToScreen(p scion.Vec2) scion.Vec2 {
	return scion.Vec2{
		X: (p.X-c.position.X)*c.scale + c.offset.X,
		Y: (p.Y-c.position.Y)*c.scale + c.offset.Y,
	}
}

// Visible returns the world-space rectangle covered by the viewport.
func (c *Camera2D) Visible() scion.Rect {
	tl := c.ScreenCoordsToWorld(scion.Vec2{})
	return scion.Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  float64(c.width) / c.scale,
		Height: float64(c.height) / c.scale,
	}
}

// ScrollTo animates the position to (x, y) over duration seconds. A nil
// easing function is linear.
func (c *Camera2D) ScrollTo(x, y float64, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.position.X), float32(x), duration, fn),
		tweenY: gween.New(float32(c.position.Y), float32(y), duration, fn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera2D) Scrolling() bool {
	return c.scroll != nil
}

// Advance steps scroll animations by dt seconds.
func (c *Camera2D) Advance(dt float32) {
	if c.scroll == nil {
		return
	}
	p := c.position
	if !c.scroll.doneX {
		v, done := c.scroll.tweenX.Update(dt)
		p.X = float64(v)
		c.scroll.doneX = done
	}
	if !c.scroll.doneY {
		v, done := c.scroll.tweenY.Update(dt)
		p.Y = float64(v)
		c.scroll.doneY = done
	}
	if c.scroll.doneX && c.scroll.doneY {
		c.scroll = nil
	}
	c.SetPosition(p)
}

// clamp restricts the position so the visible area stays within Bounds.
// Bounds smaller than the view center the camera on them.
func (c *Camera2D) clamp() {
	if !c.BoundsEnabled {
		return
	}
	viewW := (float64(c.width) - c.offset.X) / c.scale
	viewH := (float64(c.height) - c.offset.Y) / c.scale
	minX, maxX := c.Bounds.X, c.Bounds.Right()-viewW
	minY, maxY := c.Bounds.Y, c.Bounds.Bottom()-viewH

	if minX > maxX {
		c.position.X = c.Bounds.X + (c.Bounds.Width-viewW)/2
	} else {
		c.position.X = scion.Clamp(c.position.X, minX, maxX)
	}
	if minY > maxY {
		c.position.Y = c.Bounds.Y + (c.Bounds.Height-viewH)/2
	} else {
		c.position.Y = scion.Clamp(c.position.Y, minY, maxY)
	}
}
