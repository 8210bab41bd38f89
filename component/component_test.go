package component

import (
	"math"
	"testing"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/ecs"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenerateUVs(t *testing.T) {
	s := Sprite{Width: 16, Height: 32, StartX: 2, StartY: 1}
	s.GenerateUVs(128, 64)
	if !approxEqual(s.UVs.Width, 0.125) || !approxEqual(s.UVs.Height, 0.5) {
		t.Errorf("uv size = %v x %v, want 0.125 x 0.5", s.UVs.Width, s.UVs.Height)
	}
	if !approxEqual(s.UVs.X, 0.25) || !approxEqual(s.UVs.Y, 0.5) {
		t.Errorf("uv origin = (%v, %v), want (0.25, 0.5)", s.UVs.X, s.UVs.Y)
	}
}

func TestGenerateUVsIgnoresEmptyTexture(t *testing.T) {
	s := Sprite{Width: 16, Height: 16, UVs: scion.Rect{Width: 1, Height: 1}}
	s.GenerateUVs(0, 0)
	if s.UVs.Width != 1 {
		t.Error("zero-size texture should leave UVs unchanged")
	}
}

func TestCatalogNames(t *testing.T) {
	c := NewCatalog()
	for _, n := range []string{NameTransform, NameSprite, NameAnimation, NameBoxCollider,
		NameCircleCollider, NameRigidBody, NameText, NamePhysics, NameTile, NameID, NameUI} {
		if _, ok := c.Lookup(n); !ok {
			t.Errorf("catalog missing %q", n)
		}
	}
}

func TestSceneTableBuildsTransformAndSprite(t *testing.T) {
	r := ecs.NewRegistry(nil)
	r.SetCatalog(NewCatalog())
	e := r.CreateEntity("hero", "")

	td, _ := r.Catalog().Lookup(NameTransform)
	tr, err := td.FromTable(map[string]any{
		"position": map[string]any{"x": 10.0, "y": 20.0},
		"scale":    map[string]any{"x": 2.0, "y": 2.0},
		"rotation": 45.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	td.Add(r, e, tr)

	sd, _ := r.Catalog().Lookup(NameSprite)
	sp, err := sd.FromTable(map[string]any{"width": 16.0, "height": 16.0, "start_x": 1.0, "layer": 3.0, "texture": "hero"})
	if err != nil {
		t.Fatal(err)
	}
	sd.Add(r, e, sp)

	got, _ := ecs.TryGet[Transform](r, e)
	if got == nil || got.Position != (scion.Vec2{X: 10, Y: 20}) || got.Rotation != 45 {
		t.Errorf("transform = %+v", got)
	}
	s, _ := ecs.TryGet[Sprite](r, e)
	if s == nil || s.StartX != 1 || s.Layer != 3 || s.Texture != "hero" {
		t.Errorf("sprite = %+v", s)
	}
}

func TestPhysicsBodyTypeField(t *testing.T) {
	d, _ := NewCatalog().Lookup(NamePhysics)
	p, err := d.FromTable(map[string]any{"type": "dynamic", "density": 1.0, "tag": "player"})
	if err != nil {
		t.Fatal(err)
	}
	ph := p.(*Physics)
	if ph.Attributes.Type != BodyDynamic || ph.Attributes.ObjectData.Tag != "player" {
		t.Errorf("physics = %+v", ph.Attributes)
	}
	if v, _ := d.GetField(p, "type"); v != "dynamic" {
		t.Errorf("type field = %v, want dynamic", v)
	}
}

func TestCatalogDefaults(t *testing.T) {
	c := NewCatalog()
	td, _ := c.Lookup(NameTransform)
	if tr := td.New().(*Transform); tr.Scale != (scion.Vec2{X: 1, Y: 1}) {
		t.Errorf("transform scale = %+v, want 1,1", tr.Scale)
	}
	sd, _ := c.Lookup(NameSprite)
	if sp := sd.New().(*Sprite); sp.Color != scion.ColorWhite {
		t.Errorf("sprite color = %+v, want white", sp.Color)
	}
	pd, _ := c.Lookup(NamePhysics)
	p, err := pd.FromTable(map[string]any{"friction": 0.5})
	if err != nil {
		t.Fatal(err)
	}
	a := p.(*Physics).Attributes
	if a.Type != BodyDynamic || a.Density != 1 || a.GravityScale != 1 || a.Friction != 0.5 {
		t.Errorf("physics defaults = %+v", a)
	}
}
