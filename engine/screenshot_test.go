package engine

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/scion/config"
)

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"":            "unlabeled",
		"  ":          "unlabeled",
		"after-click": "after-click",
		"a b/c":       "a_b_c",
		"v1.2":        "v1.2",
		"édit":        "_dit",
	}
	for in, want := range cases {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		64, 32, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}, 3, 1)
	want := []byte{
		127, 63, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], v)
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := unpremultiply([]byte{255, 0, 0, 255, 0, 255, 0, 255}, 2, 1)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("bounds = %v", b)
	}
}

func TestNewLoadsReplay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "replay.json")
	os.WriteFile(path, []byte(`{"steps": [{"action": "screenshot", "label": "start"}]}`), 0o644)

	cfg := config.Defaults()
	cfg.Replay.Script = path
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.Replay == nil {
		t.Fatal("replay not loaded")
	}
	if shots := a.Replay.Step(a.Input); len(shots) != 1 || shots[0] != "start" {
		t.Errorf("shots = %v", shots)
	}

	cfg.Replay.Script = filepath.Join(dir, "missing.json")
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for a missing replay script")
	}
}
