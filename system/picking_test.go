package system

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
	"github.com/phanxgames/scion/render/rendertest"
)

// pixelOf quantizes a glyph's encoded id the way the id target stores it.
func pixelOf(g render.PickGlyph) (r, gr, b, a uint8) {
	c := g.Vertices[0].Custom
	q := func(f float32) uint8 { return uint8(math.Round(float64(f) * 255)) }
	return q(c[0]), q(c[1]), q(c[2]), q(c[3])
}

func TestPickingSystemEncodesEntityIDs(t *testing.T) {
	r, _ := newScene(t)
	sceneAssets(r).shaders[render.ShaderPicking] = &ebiten.Shader{}
	rec := &rendertest.Recorder{}
	s := NewPickingSystem(rec, 0, nil)

	a := addSprite(r, scion.Vec2{X: 10, Y: 10}, "T", 0)
	b := addSprite(r, scion.Vec2{X: 40, Y: 10}, "T", 1)
	addSprite(r, scion.Vec2{X: 60, Y: 60}, "missing", 0)
	ui := addSprite(r, scion.Vec2{X: 20, Y: 20}, "T", 0)
	ecs.Add(r, ui, component.UI{})

	s.Render(r)

	glyphs := s.Batcher().Glyphs()
	if len(glyphs) != 2 {
		t.Fatalf("glyphs = %d, want 2", len(glyphs))
	}
	picked := map[ecs.Entity]bool{}
	for _, g := range glyphs {
		id, ok := render.DecodePickID(pixelOf(g))
		if !ok {
			t.Fatalf("glyph pixel does not decode")
		}
		e, ok := r.EntityAt(id)
		if !ok {
			t.Fatalf("id %d does not resolve", id)
		}
		picked[e] = true
	}
	if !picked[a] || !picked[b] {
		t.Errorf("picked = %v, want %v and %v", picked, a, b)
	}

	r.DestroyNow(a)
	id, _ := render.DecodePickID(pixelOf(glyphs[0]))
	if e, ok := r.EntityAt(id); ok && e == a {
		t.Error("destroyed entity still resolves")
	}
}

func TestPickingSystemAlphaThreshold(t *testing.T) {
	r, _ := newScene(t)
	sceneAssets(r).shaders[render.ShaderPicking] = &ebiten.Shader{}
	rec := &rendertest.Recorder{}
	s := NewPickingSystem(rec, 0, nil)
	addSprite(r, scion.Vec2{X: 10, Y: 10}, "T", 0)

	tests := []struct {
		threshold float64
		want      float32
	}{
		{DefaultAlphaThreshold, 0.5},
		{0.25, 0.25},
		{0, 0},
	}
	for _, tt := range tests {
		s.AlphaThreshold = tt.threshold
		rec.Reset()
		s.Render(r)
		draws := rec.Draws()
		if len(draws) != 1 {
			t.Fatalf("draws = %d, want 1", len(draws))
		}
		got, _ := draws[0].Program.Uniforms[render.UniformAlphaThreshold].(float32)
		if got != tt.want {
			t.Errorf("threshold %v: uniform = %v, want %v", tt.threshold, got, tt.want)
		}
		if draws[0].Program.Shader == nil {
			t.Error("picking draw without the picking shader")
		}
	}
}

func TestPickAtBeforeRender(t *testing.T) {
	r, _ := newScene(t)
	s := NewPickingSystem(&rendertest.Recorder{}, 0, nil)
	if e, ok := s.PickAt(r, 5, 5); ok || e != ecs.Null {
		t.Errorf("PickAt = %v, %v, want null", e, ok)
	}
}

func TestPickingSystemLogsMissingTextureOnce(t *testing.T) {
	r, _ := newScene(t)
	sceneAssets(r).shaders[render.ShaderPicking] = &ebiten.Shader{}
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewPickingSystem(&rendertest.Recorder{}, 0, zap.New(core))
	addSprite(r, scion.Vec2{X: 10, Y: 10}, "missing", 0)

	s.Render(r)
	s.Render(r)

	got := logs.FilterMessage("picking system: texture not found, entity not pickable").All()
	if len(got) != 1 {
		t.Fatalf("log entries = %d, want 1", len(got))
	}
	if got[0].Level != zapcore.DebugLevel || got[0].ContextMap()["texture"] != "missing" {
		t.Errorf("entry = %+v", got[0])
	}
}
