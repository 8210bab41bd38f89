package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

func newRegistry() *ecs.Registry {
	r := ecs.NewRegistry(nil)
	r.SetCatalog(component.NewCatalog())
	return r
}

func TestLayersEditing(t *testing.T) {
	l := NewLayers("ground", "walls", "decor")
	if l.Index("walls") != 1 || l.Index("sky") != -1 {
		t.Errorf("Index mismatch: %v", l.Names())
	}
	if err := l.Move(0, 2); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(l.Names(), ","); got != "walls,decor,ground" {
		t.Errorf("after move = %s", got)
	}
	old, err := l.Rename(0, "solid")
	if err != nil || old != "walls" {
		t.Errorf("Rename = %q, %v", old, err)
	}
	x, err := l.Remove(1)
	if err != nil || x.Name != "decor" {
		t.Errorf("Remove = %+v, %v", x, err)
	}
	if err := l.Insert(1, x); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(l.Names(), ","); got != "solid,decor,ground" {
		t.Errorf("after reinsert = %s", got)
	}
	if _, err := l.Remove(5); !errors.Is(err, ErrLayerRange) {
		t.Errorf("Remove(5) err = %v", err)
	}
	if err := l.Move(0, 3); !errors.Is(err, ErrLayerRange) {
		t.Errorf("Move(0,3) err = %v", err)
	}
}

func TestMovedIndexMatchesMove(t *testing.T) {
	for from := 0; from < 4; from++ {
		for to := 0; to < 4; to++ {
			l := NewLayers("a", "b", "c", "d")
			before := l.Names()
			l.Move(from, to)
			after := l.Names()
			for i, name := range before {
				if after[MovedIndex(i, from, to)] != name {
					t.Errorf("Move(%d,%d): %s expected at %d, layers %v", from, to, name, MovedIndex(i, from, to), after)
				}
			}
		}
	}
}

func TestTilemapPlaceAndFind(t *testing.T) {
	r := newRegistry()
	m := &Tilemap{Texture: "tiles", TileWidth: 16, TileHeight: 16, Columns: 4}
	e := m.Place(r, 1, 2, 3, 6)

	sp, _ := ecs.TryGet[component.Sprite](r, e)
	if sp == nil || sp.StartX != 2 || sp.StartY != 1 || sp.Layer != 1 || sp.Texture != "tiles" {
		t.Errorf("sprite = %+v", sp)
	}
	tr, _ := ecs.TryGet[component.Transform](r, e)
	if tr == nil || tr.Position != (scion.Vec2{X: 32, Y: 48}) || tr.Scale != (scion.Vec2{X: 1, Y: 1}) {
		t.Errorf("transform = %+v", tr)
	}
	if got, ok := m.At(r, 1, 2, 3); !ok || got != e {
		t.Errorf("At = %v, %v", got, ok)
	}
	if _, ok := m.At(r, 0, 2, 3); ok {
		t.Error("tile found on the wrong layer")
	}
	if col, row := m.Cell(scion.Vec2{X: -1, Y: 17}); col != -1 || row != 1 {
		t.Errorf("Cell = %d,%d, want -1,1", col, row)
	}
	Relayer(r, func(l int) int { return l + 1 })
	if len(m.OnLayer(r, 2)) != 1 {
		t.Error("Relayer did not move the tile")
	}
}

func TestLoadScene(t *testing.T) {
	r := newRegistry()
	s, err := Load(r, map[string]any{
		"name":   "level1",
		"layers": []any{"ground", map[string]any{"name": "decor", "visible": false}},
		"tilemap": map[string]any{
			"texture": "tiles", "tile_width": 8.0, "columns": 2.0,
			"tiles": []any{
				map[string]any{"layer": "decor", "col": 1.0, "row": 0.0, "id": 3.0},
				map[string]any{"layer": "roof", "col": 0.0, "row": 0.0, "id": 0.0},
			},
		},
		"objects": []any{
			map[string]any{"name": "hero", "group": "players", "components": map[string]any{
				"transform": map[string]any{"position": map[string]any{"x": 10.0, "y": 10.0}},
				"sprite":    map[string]any{"width": 16.0, "height": 16.0, "texture": "T"},
			}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "level1" || s.Tiles != 2 || len(s.Objects) != 1 {
		t.Errorf("scene = %+v", s)
	}
	if got := strings.Join(s.Layers.Names(), ","); got != "ground,decor,roof" {
		t.Errorf("layers = %s", got)
	}
	if l, _ := s.Layers.At(1); l.Visible {
		t.Error("decor should be hidden")
	}
	if s.Tilemap.TileHeight != 8 {
		t.Errorf("tile height defaults to width, got %d", s.Tilemap.TileHeight)
	}
	if _, ok := s.Tilemap.At(r, 1, 1, 0); !ok {
		t.Error("decor tile missing")
	}
	hero, ok := r.FindByName("hero")
	if !ok || r.Group(hero) != "players" {
		t.Fatal("hero missing")
	}
	sp, _ := ecs.TryGet[component.Sprite](r, hero)
	if sp == nil || sp.Texture != "T" || sp.Color != scion.ColorWhite {
		t.Errorf("sprite = %+v", sp)
	}
}

func TestLoadSceneSkipsBadObjects(t *testing.T) {
	r := newRegistry()
	s, err := Load(r, map[string]any{
		"objects": []any{
			map[string]any{"name": "bad", "components": map[string]any{"wings": map[string]any{}}},
			map[string]any{"name": "worse", "components": map[string]any{
				"transform": map[string]any{"rotation": "fast"},
			}},
			map[string]any{"name": "good", "components": map[string]any{"transform": map[string]any{}}},
		},
	}, nil)
	if !errors.Is(err, ecs.ErrUnknownComponent) {
		t.Errorf("err = %v, want ErrUnknownComponent", err)
	}
	if len(s.Objects) != 1 || r.Len() != 1 {
		t.Errorf("objects = %d, entities = %d, want 1, 1", len(s.Objects), r.Len())
	}
	if _, ok := r.FindByName("worse"); ok {
		t.Error("object with a bad field should not be created")
	}
}

func TestLoadSceneMergesIDComponent(t *testing.T) {
	r := newRegistry()
	s, err := Load(r, map[string]any{
		"objects": []any{
			map[string]any{"components": map[string]any{
				"id":        map[string]any{"name": "boss", "group": "enemies"},
				"transform": map[string]any{},
			}},
			map[string]any{"name": "a", "components": map[string]any{
				"id": map[string]any{"name": "b"},
			}},
		},
	}, nil)
	if err == nil {
		t.Error("expected an error for a conflicting id name")
	}
	if len(s.Objects) != 1 || r.Len() != 1 {
		t.Fatalf("objects = %d, entities = %d, want 1, 1", len(s.Objects), r.Len())
	}
	boss, ok := r.FindByName("boss")
	if !ok || r.Group(boss) != "enemies" {
		t.Fatal("id component was not merged into the entity identity")
	}
	id, _ := ecs.TryGet[component.Identification](r, boss)
	if id.EntityID != boss {
		t.Errorf("EntityID = %v, want %v", id.EntityID, boss)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.lua")
	src := `
scene = {
	name = "from_lua",
	layers = { "ground" },
	objects = {
		{ name = "box", components = { box_collider = { width = 4, height = 2 } } },
	},
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	r := newRegistry()
	s, err := LoadFile(r, path, nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	box, ok := r.FindByName("box")
	if s.Name != "from_lua" || !ok {
		t.Fatalf("scene = %+v", s)
	}
	b, _ := ecs.TryGet[component.BoxCollider](r, box)
	if b == nil || b.Width != 4 || b.Height != 2 {
		t.Errorf("collider = %+v", b)
	}

	bad := filepath.Join(t.TempDir(), "empty.lua")
	os.WriteFile(bad, []byte("x = 1"), 0o644)
	if _, err := LoadFile(r, bad, nil); err == nil {
		t.Error("expected error for a file without a scene table")
	}
}

const manifest = `
name: demo
main: scripts/main.lua
scenes:
  - name: intro
    path: scenes/intro.lua
  - name: level1
    path: scenes/level1.lua
assets:
  textures:
    - name: hero
      path: img/hero.png
  fonts:
    - name: body
      path: fonts/body.fnt
  music:
    - name: theme
      path: audio/theme.wav
`

func TestParseProject(t *testing.T) {
	p, err := ParseProject([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}
	if p.Startup != "intro" {
		t.Errorf("Startup = %q, want first scene", p.Startup)
	}
	if p.Assets.Len() != 3 {
		t.Errorf("assets = %d, want 3", p.Assets.Len())
	}
	p.Dir = "/games/demo"
	if path, ok := p.ScenePath("level1"); !ok || path != filepath.Join("/games/demo", "scenes/level1.lua") {
		t.Errorf("ScenePath = %q, %v", path, ok)
	}
	want := "scripts/main.lua,scenes/intro.lua,scenes/level1.lua,img/hero.png,fonts/body.fnt,audio/theme.wav"
	if got := strings.Join(p.Files(), ","); got != want {
		t.Errorf("Files = %s", got)
	}
}

func TestParseProjectErrors(t *testing.T) {
	if _, err := ParseProject([]byte("scenes: []")); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := ParseProject([]byte("name: x\nstartup: nowhere\n")); err == nil {
		t.Error("expected error for unlisted startup scene")
	}
	if _, err := ParseProject([]byte("name: [")); err == nil {
		t.Error("expected YAML error")
	}
}
