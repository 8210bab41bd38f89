package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
)

// DefaultAlphaThreshold is the texel alpha below which sprites are not
// pickable.
const DefaultAlphaThreshold = 0.5

// Targeter is implemented by devices that can redirect drawing, such as
// render.EbitenDevice.
type Targeter interface {
	SetTarget(img *ebiten.Image)
	Target() *ebiten.Image
}

// PickingSystem draws every visible sprite into an id buffer so screen
// positions can be resolved to entities.
type PickingSystem struct {
	log    *zap.Logger
	dev    render.Device
	batch  *render.PickBatcher
	buffer render.PickBuffer
	missed map[string]bool

	AlphaThreshold float64
}

func NewPickingSystem(dev render.Device, capacity int, log *zap.Logger) *PickingSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PickingSystem{
		log:            log,
		dev:            dev,
		batch:          render.NewPickBatcher(dev, capacity),
		missed:         make(map[string]bool),
		AlphaThreshold: DefaultAlphaThreshold,
	}
}

// Batcher exposes the underlying batcher for inspection.
func (s *PickingSystem) Batcher() *render.PickBatcher {
	return s.batch
}

// Render redraws the id buffer.
func (s *PickingSystem) Render(r *ecs.Registry) {
	cam, ok := ecs.TryGetContext[*camera.Camera2D](r)
	if !ok || cam == nil {
		s.log.Error("picking system: no camera in registry context")
		return
	}
	assets, ok := ecs.TryGetContext[Assets](r)
	if !ok || assets == nil {
		s.log.Error("picking system: no asset manager in registry context")
		return
	}
	shader, ok := assets.Shader(render.ShaderPicking)
	if !ok {
		s.log.Error("picking system: shader not found", zap.String("shader", render.ShaderPicking))
		return
	}

	s.batch.Begin()
	ecs.Each2(r, func(e ecs.Entity, t *component.Transform, sp *component.Sprite) {
		if sp.Hidden || !EntityInView(t, sp.Width, sp.Height, cam) {
			return
		}
		tex, ok := assets.Texture(sp.Texture)
		if !ok {
			if !s.missed[sp.Texture] {
				s.missed[sp.Texture] = true
				s.log.Debug("picking system: texture not found, entity not pickable",
					zap.String("texture", sp.Texture), zap.Stringer("entity", e))
			}
			return
		}
		dst := scion.Rect{X: t.Position.X, Y: t.Position.Y, Width: sp.Width, Height: sp.Height}
		s.batch.AddPick(dst, spriteUV(sp, tex), tex.ID, sp.Layer, TRSModel(t, sp.Width, sp.Height), e.Index())
	}, ecs.TypeOf[component.UI]())
	s.batch.End()

	prog := render.Program{
		Shader:     shader,
		Projection: cam.Matrix(),
		Uniforms:   map[string]any{render.UniformAlphaThreshold: float32(s.AlphaThreshold)},
	}
	tg, ok := s.dev.(Targeter)
	if !ok {
		s.batch.Render(prog)
		return
	}
	s.buffer.Resize(cam.Width(), cam.Height())
	s.buffer.Clear()
	prev := tg.Target()
	tg.SetTarget(s.buffer.Image())
	s.batch.Render(prog)
	tg.SetTarget(prev)
}

// PickAt returns the entity drawn at screen pixel (x, y) in the last frame.
func (s *PickingSystem) PickAt(r *ecs.Registry, x, y int) (ecs.Entity, bool) {
	id, ok := s.buffer.At(x, y)
	if !ok {
		return ecs.Null, false
	}
	return r.EntityAt(id)
}
