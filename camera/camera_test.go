package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/scion"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertVec(t *testing.T, label string, got scion.Vec2, x, y float64) {
	t.Helper()
	if !approxEqual(got.X, x, 1e-4) || !approxEqual(got.Y, y, 1e-4) {
		t.Errorf("%s = (%v, %v), want (%v, %v)", label, got.X, got.Y, x, y)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	c := New(800, 600)
	if c.Scale() != 1 {
		t.Errorf("Scale = %v, want 1", c.Scale())
	}
	if !c.Dirty() {
		t.Error("new camera should be dirty")
	}
	c.Update()
	if c.Dirty() {
		t.Error("Update should clear dirty")
	}
}

func TestSetScaleClampsToMinimum(t *testing.T) {
	c := New(100, 100)
	c.SetScale(0)
	if c.Scale() != MinScale {
		t.Errorf("Scale = %v, want %v", c.Scale(), MinScale)
	}
	c.SetScale(-3)
	if c.Scale() != MinScale {
		t.Errorf("Scale = %v, want %v", c.Scale(), MinScale)
	}
	c.SetScale(2)
	if c.Scale() != 2 {
		t.Errorf("Scale = %v, want 2", c.Scale())
	}
}

func TestSettersMarkDirty(t *testing.T) {
	c := New(100, 100)
	c.Update()
	c.SetPosition(scion.Vec2{X: 1})
	if !c.Dirty() {
		t.Error("SetPosition should mark dirty")
	}
	c.Update()
	c.SetScreenOffset(scion.Vec2{X: 1})
	if !c.Dirty() {
		t.Error("SetScreenOffset should mark dirty")
	}
	c.Update()
	c.SetScale(3)
	if !c.Dirty() {
		t.Error("SetScale should mark dirty")
	}
}

func TestRoundTrip(t *testing.T) {
	states := []struct {
		pos    scion.Vec2
		scale  float64
		offset scion.Vec2
	}{
		{scion.Vec2{}, 1, scion.Vec2{}},
		{scion.Vec2{X: 120, Y: -40}, 2.5, scion.Vec2{X: 400, Y: 300}},
		{scion.Vec2{X: -9999, Y: 3.3}, 0.1, scion.Vec2{X: -12, Y: 7}},
		{scion.Vec2{X: 0.5, Y: 0.25}, 7.75, scion.Vec2{X: 1, Y: 1}},
	}
	points := []scion.Vec2{{}, {X: 10, Y: 10}, {X: 799, Y: 599}, {X: -50, Y: 1e4}}
	for _, st := range states {
		c := New(800, 600)
		c.SetPosition(st.pos)
		c.SetScale(st.scale)
		c.SetScreenOffset(st.offset)
		for _, p := range points {
			got := c.WorldCoordsToScreen(c.ScreenCoordsToWorld(p))
			assertVec(t, "round trip", got, p.X, p.Y)
		}
	}
}

func TestMatrixMatchesWorldToScreen(t *testing.T) {
	c := New(200, 100)
	c.SetPosition(scion.Vec2{X: 30, Y: 20})
	c.SetScale(2)
	c.SetScreenOffset(scion.Vec2{X: 10, Y: 5})

	w := scion.Vec2{X: 50, Y: 40}
	s := c.WorldCoordsToScreen(w)
	clip := c.Matrix().Mul4x1(mgl32.Vec4{float32(w.X), float32(w.Y), 0, 1})
	px := (float64(clip.X()) + 1) / 2 * 200
	py := (1 - float64(clip.Y())) / 2 * 100
	if !approxEqual(px, s.X, 1e-3) || !approxEqual(py, s.Y, 1e-3) {
		t.Errorf("matrix maps to (%v, %v), want (%v, %v)", px, py, s.X, s.Y)
	}
}

func TestVisible(t *testing.T) {
	c := New(100, 50)
	c.SetPosition(scion.Vec2{X: 10, Y: 20})
	c.SetScale(2)
	v := c.Visible()
	if v.X != 10 || v.Y != 20 || v.Width != 50 || v.Height != 25 {
		t.Errorf("Visible = %+v", v)
	}
}

func TestScrollTo(t *testing.T) {
	c := New(100, 100)
	c.ScrollTo(100, 50, 1, ease.Linear)
	c.Advance(0.5)
	assertVec(t, "half way", c.Position(), 50, 25)
	if !c.Scrolling() {
		t.Error("should still be scrolling")
	}
	c.Advance(0.6)
	assertVec(t, "end", c.Position(), 100, 50)
	if c.Scrolling() {
		t.Error("scroll should have finished")
	}
}

func TestBoundsClamp(t *testing.T) {
	c := New(100, 100)
	c.SetBounds(scion.Rect{Width: 300, Height: 300})
	c.SetPosition(scion.Vec2{X: -50, Y: 500})
	assertVec(t, "clamped", c.Position(), 0, 200)

	c.SetBounds(scion.Rect{Width: 50, Height: 50})
	assertVec(t, "centered", c.Position(), -25, -25)
}
