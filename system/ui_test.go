package system

import (
	"testing"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/render"
	"github.com/phanxgames/scion/render/rendertest"
)

func testFont(t *testing.T) *render.Font {
	t.Helper()
	src := "common lineHeight=16 base=12 scaleW=64 scaleH=16 pages=1\n" +
		"char id=65 x=0 y=0 width=8 height=16 xoffset=0 yoffset=0 xadvance=8 page=0\n" +
		"char id=66 x=8 y=0 width=8 height=16 xoffset=0 yoffset=0 xadvance=8 page=0\n"
	f, err := render.ParseFont([]byte(src), 7)
	if err != nil {
		t.Fatalf("ParseFont: %v", err)
	}
	return f
}

func addText(r *ecs.Registry, pos scion.Vec2, font string, ui bool) ecs.Entity {
	e := r.CreateEntity("", "")
	ecs.Add(r, e, component.NewTransform(pos))
	ecs.Add(r, e, component.Text{Text: "AB", Font: font})
	if ui {
		ecs.Add(r, e, component.UI{})
	}
	return e
}

func TestUISystemDrawsInScreenSpace(t *testing.T) {
	r, cam := newScene(t)
	sceneAssets(r).fonts["mono"] = testFont(t)
	rec := &rendertest.Recorder{}
	s := NewUISystem(rec, 0, nil)

	// The world camera looks far away; UI stays put.
	cam.SetPosition(scion.Vec2{X: 1000, Y: 1000})
	hud := addSprite(r, scion.Vec2{X: 10, Y: 10}, "T", 0)
	ecs.Add(r, hud, component.UI{})
	addSprite(r, scion.Vec2{X: 10, Y: 10}, "U", 0)
	addText(r, scion.Vec2{X: 5, Y: 5}, "mono", true)
	addText(r, scion.Vec2{X: 10, Y: 10}, "mono", false)
	addText(r, scion.Vec2{X: 10, Y: 10}, "nofont", true)

	s.Render(r)

	if s.Camera().Width() != 100 || s.Camera().Height() != 100 {
		t.Errorf("ui camera = %dx%d, want 100x100", s.Camera().Width(), s.Camera().Height())
	}
	if s.sprites.Len() != 1 {
		t.Errorf("ui sprites = %d, want 1", s.sprites.Len())
	}
	if g := s.sprites.Glyphs(); len(g) == 1 && g[0].Resource() != 1 {
		t.Errorf("ui sprite texture = %d, want 1", g[0].Resource())
	}
	if s.uiText.Len() != 2 {
		t.Errorf("ui text glyphs = %d, want 2", s.uiText.Len())
	}
	if s.worldText.Len() != 0 {
		t.Errorf("culled world text glyphs = %d, want 0", s.worldText.Len())
	}

	cam.SetPosition(scion.Vec2{})
	s.Render(r)
	if s.worldText.Len() != 2 {
		t.Errorf("world text glyphs = %d, want 2", s.worldText.Len())
	}
	for _, d := range rec.Draws() {
		if d.Resource == 7 && d.Count != 12 {
			t.Errorf("text draw count = %d, want 12 indices", d.Count)
		}
	}
}

func TestUISystemHiddenAndEmptyText(t *testing.T) {
	r, _ := newScene(t)
	sceneAssets(r).fonts["mono"] = testFont(t)
	s := NewUISystem(&rendertest.Recorder{}, 0, nil)

	hidden := addText(r, scion.Vec2{X: 5, Y: 5}, "mono", true)
	txt, _ := ecs.TryGet[component.Text](r, hidden)
	txt.Hidden = true
	empty := addText(r, scion.Vec2{X: 5, Y: 5}, "mono", true)
	txt, _ = ecs.TryGet[component.Text](r, empty)
	txt.Text = ""

	s.Render(r)
	if s.uiText.Len() != 0 {
		t.Errorf("ui text glyphs = %d, want 0", s.uiText.Len())
	}
}
