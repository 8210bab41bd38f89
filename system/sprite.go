package system

import (
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
)

// SpriteSystem draws every visible world-space sprite, sorted by layer.
type SpriteSystem struct {
	log    *zap.Logger
	batch  *render.SpriteBatcher
	missed map[string]bool

	// Debug logs batch statistics every frame.
	Debug bool
}

// NewSpriteSystem creates a sprite system drawing through dev.
func NewSpriteSystem(dev render.Device, capacity int, log *zap.Logger) *SpriteSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpriteSystem{
		log:    log,
		batch:  render.NewSpriteBatcher(dev, capacity),
		missed: make(map[string]bool),
	}
}

// Batcher exposes the underlying batcher for inspection.
func (s *SpriteSystem) Batcher() *render.SpriteBatcher {
	return s.batch
}

// Render submits one frame of sprites.
func (s *SpriteSystem) Render(r *ecs.Registry) {
	cam, ok := ecs.TryGetContext[*camera.Camera2D](r)
	if !ok || cam == nil {
		s.log.Error("sprite system: no camera in registry context")
		return
	}
	assets, ok := ecs.TryGetContext[Assets](r)
	if !ok || assets == nil {
		s.log.Error("sprite system: no asset manager in registry context")
		return
	}

	s.batch.Begin()
	ecs.Each2(r, func(e ecs.Entity, t *component.Transform, sp *component.Sprite) {
		if sp.Hidden || !EntityInView(t, sp.Width, sp.Height, cam) {
			return
		}
		tex, ok := assets.Texture(sp.Texture)
		if !ok {
			s.missing(sp.Texture)
			return
		}
		dst := scion.Rect{X: t.Position.X, Y: t.Position.Y, Width: sp.Width, Height: sp.Height}
		s.batch.AddSprite(dst, spriteUV(sp, tex), tex.ID, sp.Layer, TRSModel(t, sp.Width, sp.Height), tint(sp.Color))
	}, ecs.TypeOf[component.UI]())
	s.batch.End()
	s.batch.Render(render.Program{Projection: cam.Matrix()})

	if s.Debug {
		st := s.batch.Stats()
		s.log.Debug("sprite batch",
			zap.Int("glyphs", st.Glyphs),
			zap.Int("batches", st.Batches),
			zap.Int("uploads", st.Uploads))
	}
}

// missing logs a missing texture once per name.
func (s *SpriteSystem) missing(name string) {
	if s.missed[name] {
		return
	}
	s.missed[name] = true
	s.log.Error("sprite system: texture not found", zap.String("texture", name))
}
