package system

import (
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
)

// UISystem draws screen-space entities (those with a UI component) through
// a camera fixed at the origin, and every Text component: UI text in
// screen space, other text in world space.
type UISystem struct {
	log       *zap.Logger
	uiCam     *camera.Camera2D
	sprites   *render.SpriteBatcher
	uiText    *render.TextBatcher
	worldText *render.TextBatcher
	missed    map[string]bool
}

func NewUISystem(dev render.Device, capacity int, log *zap.Logger) *UISystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &UISystem{
		log:       log,
		uiCam:     camera.New(1, 1),
		sprites:   render.NewSpriteBatcher(dev, capacity),
		uiText:    render.NewTextBatcher(dev, capacity),
		worldText: render.NewTextBatcher(dev, capacity),
		missed:    make(map[string]bool),
	}
}

// Camera returns the screen-space camera, sized to the world camera.
func (s *UISystem) Camera() *camera.Camera2D {
	return s.uiCam
}

// Render submits UI sprites, then world text, then UI text.
func (s *UISystem) Render(r *ecs.Registry) {
	cam, ok := ecs.TryGetContext[*camera.Camera2D](r)
	if !ok || cam == nil {
		s.log.Error("ui system: no camera in registry context")
		return
	}
	assets, ok := ecs.TryGetContext[Assets](r)
	if !ok || assets == nil {
		s.log.Error("ui system: no asset manager in registry context")
		return
	}
	s.uiCam.Resize(cam.Width(), cam.Height())

	s.sprites.Begin()
	ecs.Each3(r, func(e ecs.Entity, _ *component.UI, t *component.Transform, sp *component.Sprite) {
		if sp.Hidden || !EntityInView(t, sp.Width, sp.Height, s.uiCam) {
			return
		}
		tex, ok := assets.Texture(sp.Texture)
		if !ok {
			s.missing("texture", sp.Texture)
			return
		}
		dst := scion.Rect{X: t.Position.X, Y: t.Position.Y, Width: sp.Width, Height: sp.Height}
		s.sprites.AddSprite(dst, spriteUV(sp, tex), tex.ID, sp.Layer, TRSModel(t, sp.Width, sp.Height), tint(sp.Color))
	})
	s.sprites.End()
	s.sprites.Render(render.Program{Projection: s.uiCam.Matrix()})

	s.uiText.Begin()
	s.worldText.Begin()
	ecs.Each2(r, func(e ecs.Entity, t *component.Transform, txt *component.Text) {
		if txt.Hidden || txt.Text == "" {
			return
		}
		font, ok := assets.Font(txt.Font)
		if !ok {
			s.missing("font", txt.Font)
			return
		}
		var w float64
		lines := font.Layout(txt.Text, txt.Wrap)
		for _, l := range lines {
			w = max(w, l.Width)
		}
		h := float64(len(lines)) * font.LineHeight
		pos := scion.Vec2{X: t.Position.X + txt.Padding, Y: t.Position.Y + txt.Padding}
		col := tint(txt.Color)
		if ecs.Has[component.UI](r, e) {
			s.uiText.AddText(font, txt.Text, pos, txt.Wrap, render.Identity, col)
			return
		}
		if !EntityInView(t, w+2*txt.Padding, h+2*txt.Padding, cam) {
			return
		}
		s.worldText.AddText(font, txt.Text, pos, txt.Wrap, render.Identity, col)
	})
	s.worldText.End()
	s.worldText.Render(render.Program{Projection: cam.Matrix()})
	s.uiText.End()
	s.uiText.Render(render.Program{Projection: s.uiCam.Matrix()})
}

func (s *UISystem) missing(kind, name string) {
	key := kind + ":" + name
	if s.missed[key] {
		return
	}
	s.missed[key] = true
	s.log.Error("ui system: asset not found", zap.String(kind, name))
}
