package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "Demo"
width = 640

[physics]
gravity_y = 0
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "Demo" || cfg.Window.Width != 640 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("height = %d, want default 720", cfg.Window.Height)
	}
	if cfg.Physics.GravityY != 0 || !cfg.Physics.Enabled {
		t.Errorf("physics = %+v", cfg.Physics)
	}
	if cfg.Render.BatchCapacity != 10000 {
		t.Errorf("batch capacity = %d, want 10000", cfg.Render.BatchCapacity)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, src := range []string{
		"[window]\nwidth = 0",
		"[render]\nbatch_capacity = -1",
		"[physics]\ntimestep = 0.0",
		"[window\n",
	} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("Parse(%q) succeeded", src)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scion.toml")
	if err := os.WriteFile(path, []byte("[script]\nmain = \"game.lua\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Script.Main != "game.lua" {
		t.Errorf("main = %q, want game.lua", cfg.Script.Main)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	if got := Path(""); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
	t.Setenv(EnvPath, "env.toml")
	if got := Path(""); got != "env.toml" {
		t.Errorf("Path() = %q, want env.toml", got)
	}
	if got := Path("flag.toml"); got != "flag.toml" {
		t.Errorf("Path(flag) = %q, want flag.toml", got)
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}
	log, err = NewLogger(LoggingConfig{Level: "nonsense"})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) || !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unknown level should fall back to info")
	}
}
