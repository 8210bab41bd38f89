package editor

import (
	"math"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// Axis constrains a gizmo drag.
type Axis int

const (
	AxisBoth Axis = iota
	AxisX
	AxisY
)

func (a Axis) mask(v scion.Vec2) scion.Vec2 {
	switch a {
	case AxisX:
		v.Y = 0
	case AxisY:
		v.X = 0
	}
	return v
}

// drag is the state shared by the gizmos: the dragged entity, the mouse
// position at Begin and the transform at Begin.
type drag struct {
	target ecs.Entity
	mouse  scion.Vec2
	origin component.Transform
	active bool
}

func (d *drag) begin(r *ecs.Registry, e ecs.Entity, mouse scion.Vec2) bool {
	t, ok := ecs.TryGet[component.Transform](r, e)
	if !ok {
		return false
	}
	*d = drag{target: e, mouse: mouse, origin: *t, active: true}
	return true
}

func (d *drag) transform(r *ecs.Registry) (*component.Transform, bool) {
	if !d.active {
		return nil, false
	}
	t, ok := ecs.TryGet[component.Transform](r, d.target)
	if !ok {
		d.active = false
	}
	return t, ok
}

// Active reports whether a drag is in progress.
func (d *drag) Active() bool { return d.active }

// Target returns the dragged entity.
func (d *drag) Target() ecs.Entity { return d.target }

// End stops the drag.
func (d *drag) End() { d.active = false }

func snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// TranslateGizmo moves an entity by the mouse delta in world space.
type TranslateGizmo struct {
	drag
	Axis Axis
	// Snap rounds the position to multiples of Snap when positive.
	Snap float64
}

// Begin grabs e at world point mouse.
func (g *TranslateGizmo) Begin(r *ecs.Registry, e ecs.Entity, mouse scion.Vec2) bool {
	return g.begin(r, e, mouse)
}

// Drag moves the target to follow mouse.
func (g *TranslateGizmo) Drag(r *ecs.Registry, mouse scion.Vec2) {
	t, ok := g.transform(r)
	if !ok {
		return
	}
	p := g.origin.Position.Add(g.Axis.mask(mouse.Sub(g.mouse)))
	t.Position = scion.Vec2{X: snap(p.X, g.Snap), Y: snap(p.Y, g.Snap)}
}

// DefaultScaleRate is the scale change per world unit of drag.
const DefaultScaleRate = 0.01

// MinScale keeps scaled entities from collapsing or flipping.
const MinScale = 0.01

// ScaleGizmo scales an entity by the mouse delta.
type ScaleGizmo struct {
	drag
	Axis Axis
	Rate float64
	// Uniform applies the larger of the two deltas to both axes.
	Uniform bool
}

func (g *ScaleGizmo) Begin(r *ecs.Registry, e ecs.Entity, mouse scion.Vec2) bool {
	return g.begin(r, e, mouse)
}

func (g *ScaleGizmo) Drag(r *ecs.Registry, mouse scion.Vec2) {
	t, ok := g.transform(r)
	if !ok {
		return
	}
	rate := g.Rate
	if rate == 0 {
		rate = DefaultScaleRate
	}
	d := g.Axis.mask(mouse.Sub(g.mouse)).Scale(rate)
	if g.Uniform {
		m := d.X
		if math.Abs(d.Y) > math.Abs(m) {
			m = d.Y
		}
		d = scion.Vec2{X: m, Y: m}
	}
	t.Scale = scion.Vec2{
		X: math.Max(g.origin.Scale.X+d.X, MinScale),
		Y: math.Max(g.origin.Scale.Y+d.Y, MinScale),
	}
}

// RotateGizmo turns an entity around its sprite center by the angle the
// mouse sweeps around it.
type RotateGizmo struct {
	drag
	// Snap rounds the rotation to multiples of Snap degrees when positive.
	Snap  float64
	pivot scion.Vec2
}

func (g *RotateGizmo) Begin(r *ecs.Registry, e ecs.Entity, mouse scion.Vec2) bool {
	if !g.begin(r, e, mouse) {
		return false
	}
	g.pivot = g.origin.Position
	if sp, ok := ecs.TryGet[component.Sprite](r, e); ok {
		g.pivot = g.pivot.Add(scion.Vec2{X: sp.Width * g.origin.Scale.X / 2, Y: sp.Height * g.origin.Scale.Y / 2})
	}
	return true
}

func (g *RotateGizmo) Drag(r *ecs.Registry, mouse scion.Vec2) {
	t, ok := g.transform(r)
	if !ok {
		return
	}
	a0 := angle(g.mouse.Sub(g.pivot))
	a1 := angle(mouse.Sub(g.pivot))
	t.Rotation = snap(g.origin.Rotation+a1-a0, g.Snap)
}

func angle(v scion.Vec2) float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}
