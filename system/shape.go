package system

import (
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
)

// Collider outline colors.
var (
	ColliderColor    = scion.Color{R: 0, G: 1, B: 0, A: 1}
	CollidingColor   = scion.Color{R: 1, G: 0, B: 0, A: 1}
	colliderLineSize = 1.0
)

// ShapeSystem queues collider outlines (when ShowColliders is set) into the
// shared renderer and flushes every queued primitive, including those
// scripts drew this frame, with the world camera.
type ShapeSystem struct {
	log *zap.Logger

	ShowColliders bool
}

func NewShapeSystem(log *zap.Logger) *ShapeSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShapeSystem{log: log}
}

// Render queues collider shapes and flushes the renderer.
func (s *ShapeSystem) Render(r *ecs.Registry) {
	cam, ok := ecs.TryGetContext[*camera.Camera2D](r)
	if !ok || cam == nil {
		s.log.Error("shape system: no camera in registry context")
		return
	}
	rend, ok := ecs.TryGetContext[*render.Renderer](r)
	if !ok || rend == nil {
		s.log.Error("shape system: no renderer in registry context")
		return
	}
	if assets, ok := ecs.TryGetContext[Assets](r); ok && assets != nil {
		if sh, ok := assets.Shader(render.ShaderCircle); ok {
			rend.SetCircleShader(sh)
		}
	}

	if s.ShowColliders {
		s.queueColliders(r, rend, cam)
	}
	rend.Flush(cam.Matrix())
}

func (s *ShapeSystem) queueColliders(r *ecs.Registry, rend *render.Renderer, cam *camera.Camera2D) {
	ecs.Each2(r, func(e ecs.Entity, t *component.Transform, b *component.BoxCollider) {
		w, h := b.Width*t.Scale.X, b.Height*t.Scale.Y
		box := component.Transform{Position: t.Position.Add(b.Offset), Scale: scion.Vec2{X: 1, Y: 1}}
		if !EntityInView(&box, w, h, cam) {
			return
		}
		col := ColliderColor
		if b.Colliding {
			col = CollidingColor
		}
		rend.DrawRect(render.Rect{
			Bounds:    scion.Rect{X: box.Position.X, Y: box.Position.Y, Width: w, Height: h},
			Thickness: colliderLineSize,
			Color:     col,
		})
	})
	ecs.Each2(r, func(e ecs.Entity, t *component.Transform, c *component.CircleCollider) {
		radius := c.Radius * t.Scale.X
		box := component.Transform{Position: t.Position.Add(c.Offset), Scale: scion.Vec2{X: 1, Y: 1}}
		if !EntityInView(&box, radius*2, radius*2, cam) {
			return
		}
		col := ColliderColor
		if c.Colliding {
			col = CollidingColor
		}
		rend.DrawCircle(render.Circle{
			Center:    scion.Vec2{X: box.Position.X + radius, Y: box.Position.Y + radius},
			Radius:    radius,
			Thickness: colliderLineSize,
			Color:     col,
		})
	})
}
