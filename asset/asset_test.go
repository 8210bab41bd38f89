package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2"
)

const hashAtlas = `{
  "frames": {
    "hero": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}, "sourceSize": {"w": 16, "h": 16}},
    "coin": {"frame": {"x": 16, "y": 8, "w": 8, "h": 8}, "rotated": false,
             "spriteSourceSize": {"x": 1, "y": 2, "w": 8, "h": 8}, "sourceSize": {"w": 10, "h": 12}}
  },
  "meta": {"image": "sheet.png"}
}`

const arrayAtlas = `{
  "textures": [
    {"image": "p0.png", "frames": {"a": {"frame": {"x": 0, "y": 0, "w": 4, "h": 4}}}},
    {"image": "p1.png", "frames": {"b": {"frame": {"x": 4, "y": 0, "w": 4, "h": 4}, "rotated": true}}}
  ]
}`

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestParseAtlasHash(t *testing.T) {
	a, err := ParseAtlas([]byte(hashAtlas))
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 || len(a.Pages) != 1 || a.Pages[0] != "sheet.png" {
		t.Fatalf("atlas = %d regions, pages %v", a.Len(), a.Pages)
	}
	r, ok := a.Region("coin")
	if !ok {
		t.Fatal("missing coin")
	}
	if r.X != 16 || r.Y != 8 || r.OffsetX != 1 || r.OffsetY != 2 || r.OriginalW != 10 {
		t.Errorf("coin = %+v", r)
	}
	uv := r.UV(32, 16)
	if uv.X != 0.5 || uv.Y != 0.5 || uv.Width != 0.25 || uv.Height != 0.5 {
		t.Errorf("uv = %+v", uv)
	}
}

func TestParseAtlasArray(t *testing.T) {
	a, err := ParseAtlas([]byte(arrayAtlas))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Pages) != 2 || a.Pages[1] != "p1.png" {
		t.Fatalf("pages = %v", a.Pages)
	}
	b, _ := a.Region("b")
	if b.Page != 1 || !b.Rotated {
		t.Errorf("b = %+v", b)
	}
}

func TestParseAtlasErrors(t *testing.T) {
	if _, err := ParseAtlas([]byte("{")); err == nil {
		t.Error("expected error for bad JSON")
	}
	if _, err := ParseAtlas([]byte(`{"meta": {}}`)); err == nil {
		t.Error("expected error without frames or textures")
	}
}

func TestAddTextureKeepsIDOnReplace(t *testing.T) {
	m := NewManager("", nil)
	a := m.AddTexture("a", ebiten.NewImage(4, 4))
	b := m.AddTexture("b", ebiten.NewImage(2, 2))
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", a.ID, b.ID)
	}
	bigger := ebiten.NewImage(8, 8)
	a2 := m.AddTexture("a", bigger)
	if a2.ID != 1 || a2.Width != 8 {
		t.Errorf("replaced = %+v", a2)
	}
	if m.Image(1) != bigger {
		t.Error("Image(1) is not the replacement")
	}
	if m.Image(0) != nil || m.Image(42) != nil {
		t.Error("white and out-of-range ids should resolve to nil")
	}
	if _, ok := m.Texture("missing"); ok {
		t.Error("missing texture reported present")
	}
	if names := m.Names(); len(names) != 2 || names[0] != "a" {
		t.Errorf("Names = %v", names)
	}
}

func TestLoadTextureAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.png")
	writePNG(t, path, 4, 4)

	m := NewManager(dir, nil)
	tex, err := m.LoadTexture("hero", "hero.png")
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 4 || tex.Height != 4 {
		t.Fatalf("size = %dx%d", tex.Width, tex.Height)
	}

	writePNG(t, path, 8, 2)
	m.MarkDirty(path)
	m.MarkDirty(path)
	if m.Dirty() != 1 {
		t.Errorf("Dirty = %d, want 1", m.Dirty())
	}
	if n := m.Update(); n != 1 {
		t.Fatalf("Update = %d, want 1", n)
	}
	got, _ := m.Texture("hero")
	if got.ID != tex.ID || got.Width != 8 || got.Height != 2 {
		t.Errorf("reloaded = %+v", got)
	}
	if m.Dirty() != 0 {
		t.Error("dirty list not drained")
	}
}

func TestUpdateIgnoresUnknownPaths(t *testing.T) {
	m := NewManager("", nil)
	m.MarkDirty(filepath.Join(t.TempDir(), "nothing.png"))
	if n := m.Update(); n != 0 {
		t.Errorf("Update = %d, want 0", n)
	}
}

func TestLoadFontLoadsPage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "font.png"), 64, 32)
	fnt := "info face=\"test\" size=16\n" +
		"common lineHeight=16 base=12 scaleW=64 scaleH=32 pages=1\n" +
		"page id=0 file=\"font.png\"\n" +
		"char id=65 x=0 y=0 width=8 height=16 xoffset=0 yoffset=0 xadvance=9 page=0\n"
	if err := os.WriteFile(filepath.Join(dir, "ui.fnt"), []byte(fnt), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, nil)
	f, err := m.LoadFont("ui", "ui.fnt")
	if err != nil {
		t.Fatal(err)
	}
	page, ok := m.Texture("font.png")
	if !ok || f.Resource != page.ID {
		t.Errorf("font resource = %d, page = %+v", f.Resource, page)
	}
	if got, ok := m.Font("ui"); !ok || got != f {
		t.Error("Font lookup failed")
	}
}

func TestLoadAtlasAndRegion(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "sheet.png"), 32, 16)
	if err := os.WriteFile(filepath.Join(dir, "sheet.json"), []byte(hashAtlas), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(dir, nil)
	if _, err := m.LoadAtlas("items", "sheet.json"); err != nil {
		t.Fatal(err)
	}
	page, uv, err := m.Region("items", "coin")
	if err != nil {
		t.Fatal(err)
	}
	if page != "sheet.png" || uv.X != 0.5 || uv.Width != 0.25 {
		t.Errorf("region = %s %+v", page, uv)
	}
	if _, _, err := m.Region("items", "gem"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, _, err := m.Region("nope", "coin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadSoundAndMusic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(100), format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m := NewManager(dir, nil)
	s, err := m.LoadSound("blip", "blip.wav")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 100 {
		t.Errorf("sound length = %d, want 100", s.Len())
	}
	if _, err := m.LoadMusic("theme", "blip.wav"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Music("theme"); !ok {
		t.Error("music not registered")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestLoadListCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "ok.png"), 2, 2)
	m := NewManager(dir, nil)
	err := m.LoadList(List{
		Textures: []Entry{{Name: "ok", Path: "ok.png"}, {Name: "gone", Path: "gone.png"}},
		Sounds:   []Entry{{Path: "unnamed.wav"}},
	})
	if err == nil {
		t.Fatal("expected errors")
	}
	if _, ok := m.Texture("ok"); !ok {
		t.Error("valid entry not loaded")
	}
}
