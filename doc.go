// Package scion is a 2D game engine runtime for [Ebitengine].
//
// Scion pairs a sparse-set entity registry with a Lua scripting layer, a
// batched sprite and primitive renderer, a Chipmunk physics bridge, and the
// undo/redo command core of a tile editor.
//
// The root package only holds the small value types shared by every layer
// ([Color], [Vec2], [Rect]). The engine itself lives in subpackages:
//
//   - render: vertices, glyphs, the generic [render.Batcher], fonts and the
//     primitive [render.Renderer]
//   - camera: [camera.Camera2D] with screen/world conversion
//   - ecs: the entity [ecs.Registry], views, context slots, the component
//     capability catalog and the event dispatcher
//   - component: the built-in components and their catalog descriptors
//   - system: sprite, UI, shape, picking and animation systems
//   - script: the gopher-lua bridge, main script contract and state helpers
//   - physics: the physics world contract and its Chipmunk implementation
//   - editor: the command manager, tile tools, gizmos and the packager
//   - scene: layers, tilemaps, Lua scene files and the YAML project manifest
//   - asset: textures, fonts, shaders, atlases and audio with hot reload
//   - audio: the beep mixer and the music and sound players
//   - input: polled keyboard, mouse and gamepad state, plus scripted replay
//   - config: the TOML engine config and the zap logger built from it
//   - engine: the ebiten.Game that wires everything into a main loop
//
// # Quick start
//
//	cfg, err := config.Load("scion.toml")
//	if err != nil {
//		return err
//	}
//	log, err := config.NewLogger(cfg.Logging)
//	if err != nil {
//		return err
//	}
//	return engine.Run(cfg, log)
//
// A project's main script must define three callbacks:
//
//	main = {
//		[1] = { init = function() end },
//		[2] = { update = function() end },
//		[3] = { render = function() end },
//	}
//
// [Ebitengine]: https://ebitengine.org
package scion
