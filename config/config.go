// Package config loads the engine configuration from TOML and builds the
// logger from it.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SCION_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "scion.toml"

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Render  RenderConfig  `toml:"render"`
	Physics PhysicsConfig `toml:"physics"`
	Assets  AssetsConfig  `toml:"assets"`
	Script  ScriptConfig  `toml:"script"`
	Editor  EditorConfig  `toml:"editor"`
	Replay  ReplayConfig  `toml:"replay"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	TPS    int    `toml:"tps"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RenderConfig struct {
	BatchCapacity      int     `toml:"batch_capacity"`
	Debug              bool    `toml:"debug"`
	PickAlphaThreshold float64 `toml:"pick_alpha_threshold"`
	ShowColliders      bool    `toml:"show_colliders"`
	ShowFPS            bool    `toml:"show_fps"`
}

type PhysicsConfig struct {
	Enabled        bool    `toml:"enabled"`
	GravityX       float64 `toml:"gravity_x"`
	GravityY       float64 `toml:"gravity_y"`
	Timestep       float64 `toml:"timestep"`
	PixelsPerMeter float64 `toml:"pixels_per_meter"`
}

type AssetsConfig struct {
	Root      string `toml:"root"`
	HotReload bool   `toml:"hot_reload"`
}

type ScriptConfig struct {
	Main string `toml:"main"`
	// Project is an optional project manifest; its main script and asset
	// list take precedence over Main.
	Project string `toml:"project"`
}

type EditorConfig struct {
	Enabled bool   `toml:"enabled"`
	Scene   string `toml:"scene"`
	History int    `toml:"history"`
}

// ReplayConfig drives input from a script for automated runs.
type ReplayConfig struct {
	Script        string `toml:"script"`
	ScreenshotDir string `toml:"screenshot_dir"`
	// ExitWhenDone ends the run once the script has finished.
	ExitWhenDone bool `toml:"exit_when_done"`
}

// Path returns the config path to use: flag if set, then EnvPath, then
// DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps %d must be positive", c.Window.TPS)
	}
	if c.Render.BatchCapacity <= 0 {
		return fmt.Errorf("render.batch_capacity %d must be positive", c.Render.BatchCapacity)
	}
	if c.Physics.Timestep <= 0 {
		return fmt.Errorf("physics.timestep %v must be positive", c.Physics.Timestep)
	}
	return nil
}

// Defaults returns the configuration used for keys a file leaves out.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Scion",
			Width:  1280,
			Height: 720,
			VSync:  true,
			TPS:    60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Render: RenderConfig{
			BatchCapacity:      10000,
			PickAlphaThreshold: 0.5,
		},
		Physics: PhysicsConfig{
			Enabled:        true,
			GravityY:       9.8,
			Timestep:       1.0 / 60.0,
			PixelsPerMeter: 32,
		},
		Assets: AssetsConfig{
			Root: "assets",
		},
		Script: ScriptConfig{
			Main: "main.lua",
		},
		Editor: EditorConfig{
			History: 256,
		},
		Replay: ReplayConfig{
			ScreenshotDir: "screenshots",
		},
	}
}

// NewLogger builds a zap logger from cfg. Unknown levels fall back to
// info.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
