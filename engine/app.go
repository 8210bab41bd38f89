// Package engine wires the registry, systems, scripting, physics, audio and
// editor into an ebiten.Game.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/asset"
	"github.com/phanxgames/scion/audio"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/config"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/editor"
	"github.com/phanxgames/scion/input"
	"github.com/phanxgames/scion/physics"
	"github.com/phanxgames/scion/render"
	"github.com/phanxgames/scion/scene"
	"github.com/phanxgames/scion/script"
	"github.com/phanxgames/scion/system"
)

// App is one running game. Every service it owns is also stored in the
// registry context, which is where systems and scripts find them.
type App struct {
	cfg *config.Config
	log *zap.Logger

	Registry *ecs.Registry
	Events   *ecs.Dispatcher
	Camera   *camera.Camera2D
	Assets   *asset.Manager
	Device   *render.EbitenDevice
	Renderer *render.Renderer
	Input    *input.Manager
	Script   *script.Engine
	Physics  *physics.Bridge
	Mixer    *audio.Mixer
	Music    *audio.MusicPlayer
	Sounds   *audio.SoundPlayer

	Sprites   *system.SpriteSystem
	UI        *system.UISystem
	Shapes    *system.ShapeSystem
	Picking   *system.PickingSystem
	Animation system.AnimationSystem

	// Project is set when the config names a project manifest.
	Project *scene.Project
	// Scene is the startup scene, if any.
	Scene *scene.Scene
	// Editor is set when the editor is enabled.
	Editor *editor.Session
	// Replay, when set, replaces device polling.
	Replay *input.Replay

	elapsed float64
	frames  uint64
	shots   []string
}

// New builds every service from cfg. Nothing is loaded until Initialize.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	root := cfg.Assets.Root
	scriptRoot := filepath.Dir(cfg.Script.Main)
	if cfg.Replay.Script != "" {
		data, err := os.ReadFile(cfg.Replay.Script)
		if err != nil {
			return nil, fmt.Errorf("scion/engine: %w", err)
		}
		if a.Replay, err = input.LoadReplay(data); err != nil {
			return nil, fmt.Errorf("scion/engine: %w", err)
		}
	}
	if cfg.Script.Project != "" {
		p, err := scene.LoadProject(cfg.Script.Project)
		if err != nil {
			return nil, fmt.Errorf("scion/engine: %w", err)
		}
		a.Project = p
		root = p.Dir
		scriptRoot = p.Dir
	}

	a.Registry = ecs.NewRegistry(log.Named("ecs"))
	a.Registry.SetCatalog(component.NewCatalog())
	a.Events = ecs.NewDispatcher(log.Named("events"))
	a.Camera = camera.New(cfg.Window.Width, cfg.Window.Height)
	a.Assets = asset.NewManager(root, log.Named("asset"))
	a.Device = render.NewEbitenDevice(a.Assets)
	a.Renderer = render.NewRenderer(a.Device, cfg.Render.BatchCapacity)
	a.Input = input.NewManager()

	gravity := scion.Vec2{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY}.Scale(cfg.Physics.PixelsPerMeter)
	a.Physics = physics.NewBridge(physics.NewSpace(gravity), cfg.Physics.Timestep, log.Named("physics"))

	a.Mixer = audio.NewMixer(audio.DefaultSampleRate, log.Named("audio"))
	a.Music = audio.NewMusicPlayer(a.Mixer)
	a.Sounds = audio.NewSoundPlayer(a.Mixer)

	capacity := cfg.Render.BatchCapacity
	a.Sprites = system.NewSpriteSystem(a.Device, capacity, log.Named("sprite"))
	a.Sprites.Debug = cfg.Render.Debug
	a.UI = system.NewUISystem(a.Device, capacity, log.Named("ui"))
	a.Shapes = system.NewShapeSystem(log.Named("shape"))
	a.Shapes.ShowColliders = cfg.Render.ShowColliders
	a.Picking = system.NewPickingSystem(a.Device, capacity, log.Named("picking"))
	if cfg.Render.PickAlphaThreshold > 0 {
		a.Picking.AlphaThreshold = cfg.Render.PickAlphaThreshold
	}

	r := a.Registry
	ecs.AddToContext(r, a.Events)
	ecs.AddToContext(r, a.Camera)
	ecs.AddToContext(r, a.Assets)
	ecs.AddToContext[system.Assets](r, a.Assets)
	ecs.AddToContext(r, a.Renderer)
	ecs.AddToContext(r, a.Input)
	ecs.AddToContext(r, a.Physics)
	ecs.AddToContext(r, a.Music)
	ecs.AddToContext(r, a.Sounds)

	eng, err := script.NewEngine(r, scriptRoot, log.Named("script"))
	if err != nil {
		return nil, fmt.Errorf("scion/engine: %w", err)
	}
	a.Script = eng
	ecs.AddToContext(r, eng)
	return a, nil
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Initialize loads assets, the startup scene and the main script, enables
// physics and runs main init. A missing or unparsable main script is fatal;
// asset, scene object and init errors are logged.
func (a *App) Initialize() error {
	mainPath := a.cfg.Script.Main
	if p := a.Project; p != nil {
		if err := a.Assets.LoadList(p.Assets); err != nil {
			a.log.Error("some assets failed to load", zap.Error(err))
		}
		if p.Main != "" {
			mainPath = p.Path(p.Main)
		}
		if p.Startup != "" {
			path, _ := p.ScenePath(p.Startup)
			if err := a.LoadScene(path); err != nil {
				return err
			}
		}
	}
	if a.cfg.Editor.Enabled {
		if a.cfg.Editor.Scene != "" && a.Scene == nil {
			if err := a.LoadScene(a.cfg.Editor.Scene); err != nil {
				return err
			}
		}
		a.startEditor()
	}

	if a.cfg.Assets.HotReload {
		if err := a.Assets.Watch(); err != nil {
			a.log.Warn("hot reload unavailable", zap.Error(err))
		}
	}
	if a.cfg.Physics.Enabled {
		n := a.Physics.Enable(a.Registry)
		a.log.Debug("physics enabled", zap.Int("bodies", n))
	}

	if err := a.Script.LoadMain(mainPath); err != nil {
		return fmt.Errorf("scion/engine: main script: %w", err)
	}
	if err := a.Script.Init(); err != nil {
		a.log.Warn("main init failed, continuing", zap.Error(err))
	}
	a.log.Info("initialized",
		zap.String("main", mainPath),
		zap.Int("entities", a.Registry.Len()),
		zap.Bool("editor", a.Editor != nil))
	return nil
}

// LoadScene loads a scene file into the registry. Bad objects are logged;
// an unreadable file is an error.
func (a *App) LoadScene(path string) error {
	s, err := scene.LoadFile(a.Registry, path, a.log.Named("scene"))
	if s == nil {
		return fmt.Errorf("scion/engine: %w", err)
	}
	if err != nil {
		a.log.Error("scene loaded with errors", zap.String("scene", path), zap.Error(err))
	}
	a.Scene = s
	return nil
}

func (a *App) startEditor() {
	layers := scene.NewLayers()
	tm := &scene.Tilemap{TileWidth: 16, TileHeight: 16, Columns: 1}
	if a.Scene != nil {
		layers = a.Scene.Layers
		if a.Scene.Tilemap != nil {
			tm = a.Scene.Tilemap
		}
	}
	doc := editor.NewDocument(a.Registry, layers, tm, a.log.Named("editor"))
	a.Editor = editor.NewSession(doc, a.log.Named("editor"))
	if a.cfg.Editor.History > 0 {
		a.Editor.Commands = editor.NewCommandManager(a.cfg.Editor.History, a.log.Named("editor"))
		a.Editor.Tile = editor.NewTileTool(doc, a.Editor.Commands)
		a.Editor.Rect = editor.NewRectFillTool(doc, a.Editor.Commands)
	}
	a.Editor.Picker = func(x, y int) (ecs.Entity, bool) {
		return a.Picking.PickAt(a.Registry, x, y)
	}
}

// Step advances the world by dt seconds from already polled input: editor
// tools, main update, camera scroll, physics, animation, queued events,
// pending kills and dirty assets, in that order.
func (a *App) Step(dt float64) {
	a.elapsed += dt
	a.frames++

	if a.Editor != nil {
		a.Editor.Update(a.Input, a.Camera)
	}
	// Errors are already logged and counted by the script engine.
	_ = a.Script.Update(dt)

	a.Camera.Advance(float32(dt))
	if a.Physics.Enabled() {
		a.Physics.Step(a.Registry)
		a.Physics.Sync(a.Registry)
	}
	a.Animation.Update(a.Registry, int64(a.elapsed*1000))
	a.Events.Process()
	a.Registry.Flush()
	if n := a.Assets.Update(); n > 0 {
		a.log.Info("assets reloaded", zap.Int("count", n))
	}
}

// Frames returns the number of completed steps.
func (a *App) Frames() uint64 {
	return a.frames
}

// Update implements ebiten.Game. With a replay attached, input comes from
// the replay and the game ends after it finishes if ExitWhenDone is set.
func (a *App) Update() error {
	if a.Replay != nil {
		if a.Replay.Done() && a.cfg.Replay.ExitWhenDone && len(a.shots) == 0 {
			return ebiten.Termination
		}
		for _, label := range a.Replay.Step(a.Input) {
			a.Screenshot(label)
		}
	} else {
		a.Input.Poll()
	}
	a.Step(1 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game: world sprites, script primitives, shapes,
// then UI. The picking buffer is redrawn last when the editor is on.
func (a *App) Draw(screen *ebiten.Image) {
	a.Device.SetTarget(screen)
	a.Sprites.Render(a.Registry)
	_ = a.Script.Render()
	if a.Editor != nil {
		a.Editor.Draw(a.Renderer)
	}
	a.Shapes.Render(a.Registry)
	a.UI.Render(a.Registry)
	if a.Editor != nil {
		a.Picking.Render(a.Registry)
	}
	a.flushScreenshots(screen)
	if a.cfg.Render.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	if a.cfg.Render.Debug {
		st := a.Renderer.Stats()
		a.log.Debug("primitives",
			zap.Int("glyphs", st.Glyphs),
			zap.Int("batches", st.Batches),
			zap.Int("uploads", st.Uploads))
	}
}

// Layout implements ebiten.Game with a fixed logical size.
func (a *App) Layout(_, _ int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// Close releases the Lua state, the asset watcher and audio output.
func (a *App) Close() error {
	a.Script.Close()
	a.Mixer.Close()
	return a.Assets.Close()
}

// Run creates, initializes and runs an app until the window closes.
func Run(cfg *config.Config, log *zap.Logger) (err error) {
	a, err := New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	if err := a.Initialize(); err != nil {
		return err
	}
	if err := a.Mixer.Open(); err != nil {
		a.log.Warn("audio output unavailable", zap.Error(err))
	}

	w := a.cfg.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetVsyncEnabled(w.VSync)
	ebiten.SetTPS(w.TPS)
	return ebiten.RunGame(a)
}
