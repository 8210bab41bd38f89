package script

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/asset"
	"github.com/phanxgames/scion/audio"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/input"
	"github.com/phanxgames/scion/physics"
	"github.com/phanxgames/scion/render"
)

// service fetches a collaborator from the registry context or raises a
// Lua error naming it.
func service[T comparable](e *Engine, what string) T {
	var zero T
	v, ok := ecs.TryGetContext[T](e.reg)
	if !ok || v == zero {
		e.L.RaiseError("no %s available", what)
	}
	return v
}

func (e *Engine) table(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	tbl := e.L.SetFuncs(e.L.NewTable(), funcs)
	e.L.SetGlobal(name, tbl)
	return tbl
}

// --- math ---

func (e *Engine) bindMath() {
	L := e.L
	L.SetGlobal("distance", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(scion.Distance(e.checkVec2(1), e.checkVec2(2))))
		return 1
	}))
	L.SetGlobal("lerp", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(scion.Lerp(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
		return 1
	}))
	L.SetGlobal("clamp", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(scion.Clamp(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
		return 1
	}))
	L.SetGlobal("nearly_equal", L.NewFunction(func(L *lua.LState) int {
		eps := float64(L.OptNumber(3, 1e-6))
		L.Push(lua.LBool(scion.NearlyEqual(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), eps)))
		return 1
	}))
}

// --- input ---

var gamepadButtons = map[string]ebiten.StandardGamepadButton{
	"A":      ebiten.StandardGamepadButtonRightBottom,
	"B":      ebiten.StandardGamepadButtonRightRight,
	"X":      ebiten.StandardGamepadButtonRightLeft,
	"Y":      ebiten.StandardGamepadButtonRightTop,
	"LB":     ebiten.StandardGamepadButtonFrontTopLeft,
	"RB":     ebiten.StandardGamepadButtonFrontTopRight,
	"LT":     ebiten.StandardGamepadButtonFrontBottomLeft,
	"RT":     ebiten.StandardGamepadButtonFrontBottomRight,
	"BACK":   ebiten.StandardGamepadButtonCenterLeft,
	"START":  ebiten.StandardGamepadButtonCenterRight,
	"UP":     ebiten.StandardGamepadButtonLeftTop,
	"DOWN":   ebiten.StandardGamepadButtonLeftBottom,
	"LEFT":   ebiten.StandardGamepadButtonLeftLeft,
	"RIGHT":  ebiten.StandardGamepadButtonLeftRight,
	"LSTICK": ebiten.StandardGamepadButtonLeftStick,
	"RSTICK": ebiten.StandardGamepadButtonRightStick,
}

var gamepadAxes = map[string]ebiten.StandardGamepadAxis{
	"LEFT_X":  ebiten.StandardGamepadAxisLeftStickHorizontal,
	"LEFT_Y":  ebiten.StandardGamepadAxisLeftStickVertical,
	"RIGHT_X": ebiten.StandardGamepadAxisRightStickHorizontal,
	"RIGHT_Y": ebiten.StandardGamepadAxisRightStickVertical,
}

var mouseButtons = map[string]input.MouseButton{
	"left":   input.MouseLeft,
	"middle": input.MouseMiddle,
	"right":  input.MouseRight,
}

func (e *Engine) bindInput() {
	key := func(L *lua.LState) ebiten.Key {
		k, ok := input.KeyByName(L.CheckString(1))
		if !ok {
			L.ArgError(1, "unknown key")
		}
		return k
	}
	keyFn := func(test func(*input.Keyboard, ebiten.Key) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			in := service[*input.Manager](e, "input")
			L.Push(lua.LBool(test(&in.Keyboard, key(L))))
			return 1
		}
	}
	e.table("Keyboard", map[string]lua.LGFunction{
		"pressed":       keyFn((*input.Keyboard).IsKeyPressed),
		"just_pressed":  keyFn((*input.Keyboard).IsKeyJustPressed),
		"just_released": keyFn((*input.Keyboard).IsKeyJustReleased),
	})

	mouseFn := func(test func(*input.Mouse, input.MouseButton) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			in := service[*input.Manager](e, "input")
			b, ok := mouseButtons[L.OptString(1, "left")]
			if !ok {
				L.ArgError(1, "unknown mouse button")
			}
			L.Push(lua.LBool(test(&in.Mouse, b)))
			return 1
		}
	}
	e.table("Mouse", map[string]lua.LGFunction{
		"pressed":       mouseFn((*input.Mouse).IsPressed),
		"just_pressed":  mouseFn((*input.Mouse).IsJustPressed),
		"just_released": mouseFn((*input.Mouse).IsJustReleased),
		"position": func(L *lua.LState) int {
			L.Push(e.vec2(service[*input.Manager](e, "input").Mouse.Position()))
			return 1
		},
		"world_position": func(L *lua.LState) int {
			p := service[*input.Manager](e, "input").Mouse.Position()
			L.Push(e.vec2(service[*camera.Camera2D](e, "camera").ScreenCoordsToWorld(p)))
			return 1
		},
		"wheel": func(L *lua.LState) int {
			m := &service[*input.Manager](e, "input").Mouse
			L.Push(lua.LNumber(m.WheelX))
			L.Push(lua.LNumber(m.WheelY))
			return 2
		},
	})

	pad := func(L *lua.LState) *input.Gamepad {
		return service[*input.Manager](e, "input").GamepadAt(L.CheckInt(1) - 1)
	}
	padFn := func(test func(*input.Gamepad, ebiten.StandardGamepadButton) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			g := pad(L)
			b, ok := gamepadButtons[L.CheckString(2)]
			if !ok {
				L.ArgError(2, "unknown gamepad button")
			}
			L.Push(lua.LBool(g != nil && test(g, b)))
			return 1
		}
	}
	e.table("Gamepad", map[string]lua.LGFunction{
		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(service[*input.Manager](e, "input").GamepadCount()))
			return 1
		},
		"pressed":       padFn((*input.Gamepad).IsPressed),
		"just_pressed":  padFn((*input.Gamepad).IsJustPressed),
		"just_released": padFn((*input.Gamepad).IsJustReleased),
		"axis": func(L *lua.LState) int {
			g := pad(L)
			a, ok := gamepadAxes[L.CheckString(2)]
			if !ok {
				L.ArgError(2, "unknown gamepad axis")
			}
			v := 0.0
			if g != nil {
				v = g.Axis(a)
			}
			L.Push(lua.LNumber(v))
			return 1
		},
	})
}

// --- assets and audio ---

func (e *Engine) bindAssets() {
	loader := func(load func(m *asset.Manager, name, path string) error) lua.LGFunction {
		return func(L *lua.LState) int {
			m := service[*asset.Manager](e, "asset manager")
			if err := load(m, L.CheckString(1), L.CheckString(2)); err != nil {
				L.Push(lua.LFalse)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		}
	}
	e.table("AssetManager", map[string]lua.LGFunction{
		"load_texture": loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadTexture(n, p); return err }),
		"load_font":    loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadFont(n, p); return err }),
		"load_shader":  loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadShader(n, p); return err }),
		"load_atlas":   loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadAtlas(n, p); return err }),
		"load_sound":   loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadSound(n, p); return err }),
		"load_music":   loader(func(m *asset.Manager, n, p string) error { _, err := m.LoadMusic(n, p); return err }),
		"texture": func(L *lua.LState) int {
			tex, ok := service[*asset.Manager](e, "asset manager").Texture(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(e.toLua(map[string]any{"id": uint32(tex.ID), "width": tex.Width, "height": tex.Height}))
			return 1
		},
		"region": func(L *lua.LState) int {
			page, uv, err := service[*asset.Manager](e, "asset manager").Region(L.CheckString(1), L.CheckString(2))
			if err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LString(page))
			L.Push(e.toLua(uv))
			return 2
		},
	})
}

func (e *Engine) bindAudio() {
	music := func() *audio.MusicPlayer { return service[*audio.MusicPlayer](e, "music player") }
	e.table("Music", map[string]lua.LGFunction{
		"play": func(L *lua.LState) int {
			name := L.CheckString(1)
			mus, ok := service[*asset.Manager](e, "asset manager").Music(name)
			if !ok {
				L.Push(lua.LFalse)
				return 1
			}
			music().Play(mus, L.OptInt(2, -1))
			L.Push(lua.LTrue)
			return 1
		},
		"stop":   func(L *lua.LState) int { music().Stop(); return 0 },
		"pause":  func(L *lua.LState) int { music().Pause(); return 0 },
		"resume": func(L *lua.LState) int { music().Resume(); return 0 },
		"is_playing": func(L *lua.LState) int {
			L.Push(lua.LBool(music().IsPlaying()))
			return 1
		},
		"set_volume": func(L *lua.LState) int {
			music().SetVolume(float64(L.CheckNumber(1)))
			return 0
		},
		"volume": func(L *lua.LState) int {
			L.Push(lua.LNumber(music().Volume()))
			return 1
		},
	})
	e.table("Sound", map[string]lua.LGFunction{
		"play": func(L *lua.LState) int {
			s, ok := service[*asset.Manager](e, "asset manager").Sound(L.CheckString(1))
			if !ok {
				L.Push(lua.LFalse)
				return 1
			}
			service[*audio.SoundPlayer](e, "sound player").Play(s, L.OptInt(2, 0))
			L.Push(lua.LTrue)
			return 1
		},
		"set_volume": func(L *lua.LState) int {
			if s, ok := service[*asset.Manager](e, "asset manager").Sound(L.CheckString(1)); ok {
				s.SetVolume(float64(L.CheckNumber(2)))
			}
			return 0
		},
		"stop_all": func(L *lua.LState) int {
			service[*audio.SoundPlayer](e, "sound player").StopAll()
			return 0
		},
	})
}

// --- drawing and camera ---

func (e *Engine) checkRect(n int) scion.Rect {
	m, ok := ToGo(e.L.CheckTable(n)).(map[string]any)
	if !ok {
		e.L.ArgError(n, "rect expected")
	}
	var r scion.Rect
	var err error
	for key, dst := range map[string]*float64{"x": &r.X, "y": &r.Y, "width": &r.Width, "height": &r.Height} {
		if *dst, err = ecs.Coerce[float64](m[key]); err != nil {
			e.L.ArgError(n, fmt.Sprintf("rect.%s: %v", key, err))
		}
	}
	return r
}

func (e *Engine) bindRenderer() {
	rend := func() *render.Renderer { return service[*render.Renderer](e, "renderer") }
	e.table("Renderer", map[string]lua.LGFunction{
		"draw_line": func(L *lua.LState) int {
			rend().DrawLine(render.Line{
				P1:        e.checkVec2(1),
				P2:        e.checkVec2(2),
				Color:     e.optColor(3, scion.ColorWhite),
				Thickness: float64(L.OptNumber(4, 1)),
			})
			return 0
		},
		"draw_rect": func(L *lua.LState) int {
			rend().DrawRect(render.Rect{
				Bounds:    e.checkRect(1),
				Color:     e.optColor(2, scion.ColorWhite),
				Thickness: float64(L.OptNumber(3, 1)),
			})
			return 0
		},
		"draw_filled_rect": func(L *lua.LState) int {
			rend().DrawFilledRect(render.Rect{Bounds: e.checkRect(1), Color: e.optColor(2, scion.ColorWhite)})
			return 0
		},
		"draw_circle": func(L *lua.LState) int {
			rend().DrawCircle(render.Circle{
				Center:    e.checkVec2(1),
				Radius:    float64(L.CheckNumber(2)),
				Color:     e.optColor(3, scion.ColorWhite),
				Thickness: float64(L.OptNumber(4, 1)),
			})
			return 0
		},
		"draw_text": func(L *lua.LState) int {
			text, fontName := L.CheckString(1), L.CheckString(2)
			font, ok := service[*asset.Manager](e, "asset manager").Font(fontName)
			if !ok {
				L.ArgError(2, fmt.Sprintf("unknown font %q", fontName))
			}
			rend().DrawText(render.Text{
				Text:     text,
				Font:     font,
				Position: e.checkVec2(3),
				Color:    e.optColor(4, scion.ColorWhite),
				Wrap:     float64(L.OptNumber(5, 0)),
			})
			return 0
		},
	})
}

var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_out_expo":    ease.InOutExpo,
	"in_back":        ease.InBack,
	"out_back":       ease.OutBack,
	"in_out_back":    ease.InOutBack,
	"in_bounce":      ease.InBounce,
	"out_bounce":     ease.OutBounce,
	"in_out_bounce":  ease.InOutBounce,
	"in_elastic":     ease.InElastic,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
}

func (e *Engine) checkEase(n int) ease.TweenFunc {
	name := e.L.OptString(n, "linear")
	fn, ok := easings[name]
	if !ok {
		e.L.ArgError(n, fmt.Sprintf("unknown easing %q", name))
	}
	return fn
}

func (e *Engine) bindCamera() {
	cam := func() *camera.Camera2D { return service[*camera.Camera2D](e, "camera") }
	e.table("Camera", map[string]lua.LGFunction{
		"position": func(L *lua.LState) int {
			L.Push(e.vec2(cam().Position()))
			return 1
		},
		"set_position": func(L *lua.LState) int {
			cam().SetPosition(e.checkVec2(1))
			return 0
		},
		"scale": func(L *lua.LState) int {
			L.Push(lua.LNumber(cam().Scale()))
			return 1
		},
		"set_scale": func(L *lua.LState) int {
			cam().SetScale(float64(L.CheckNumber(1)))
			return 0
		},
		"size": func(L *lua.LState) int {
			c := cam()
			L.Push(lua.LNumber(c.Width()))
			L.Push(lua.LNumber(c.Height()))
			return 2
		},
		"screen_to_world": func(L *lua.LState) int {
			L.Push(e.vec2(cam().ScreenCoordsToWorld(e.checkVec2(1))))
			return 1
		},
		"world_to_screen": func(L *lua.LState) int {
			L.Push(e.vec2(cam().WorldCoordsToScreen(e.checkVec2(1))))
			return 1
		},
		"scroll_to": func(L *lua.LState) int {
			p := e.checkVec2(1)
			cam().ScrollTo(p.X, p.Y, float32(L.CheckNumber(2)), e.checkEase(3))
			return 0
		},
		"set_bounds": func(L *lua.LState) int {
			cam().SetBounds(e.checkRect(1))
			return 0
		},
		"clear_bounds": func(L *lua.LState) int {
			cam().ClearBounds()
			return 0
		},
	})
}

// --- physics and events ---

// The helpers live in PhysicsWorld because Physics is the component
// constructor.

func (e *Engine) bindPhysics() {
	bridge := func() *physics.Bridge { return service[*physics.Bridge](e, "physics") }
	e.table("PhysicsWorld", map[string]lua.LGFunction{
		"enabled": func(L *lua.LState) int {
			b, ok := ecs.TryGetContext[*physics.Bridge](e.reg)
			L.Push(lua.LBool(ok && b != nil && b.Enabled()))
			return 1
		},
		"set_velocity": func(L *lua.LState) int {
			L.Push(lua.LBool(bridge().SetVelocity(e.checkEntity(1), e.checkVec2(2))))
			return 1
		},
		"velocity": func(L *lua.LState) int {
			v, ok := bridge().Velocity(e.checkEntity(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(e.vec2(v))
			return 1
		},
		"apply_force": func(L *lua.LState) int {
			L.Push(lua.LBool(bridge().ApplyForce(e.checkEntity(1), e.checkVec2(2))))
			return 1
		},
		"set_position": func(L *lua.LState) int {
			L.Push(lua.LBool(bridge().SetPosition(e.checkEntity(1), e.checkVec2(2))))
			return 1
		},
	})
}

// ContactEventName is the script event name of physics contacts.
const ContactEventName = "contact"

// ScriptEvent is a custom event emitted from Lua.
type ScriptEvent struct {
	Name string
	Data any
}

func objectTable(o component.ObjectData) map[string]any {
	return map[string]any{"tag": o.Tag, "group": o.Group, "entity": o.EntityID}
}

func (e *Engine) bindEvents() {
	subscribed := make(map[*ecs.Dispatcher]bool)
	subscribe := func(d *ecs.Dispatcher) {
		if subscribed[d] {
			return
		}
		subscribed[d] = true
		ecs.AddHandler(d, func(ev physics.ContactEvent) {
			data := map[string]any{
				"a": objectTable(ev.A),
				"b": objectTable(ev.B),
			}
			e.dispatch(ContactEventName, data)
		})
		ecs.AddHandler(d, func(ev ScriptEvent) {
			e.dispatch(ev.Name, ev.Data)
		})
	}
	e.table("EventDispatcher", map[string]lua.LGFunction{
		"add_handler": func(L *lua.LState) int {
			d := service[*ecs.Dispatcher](e, "event dispatcher")
			name := L.CheckString(1)
			e.handlers[name] = append(e.handlers[name], L.CheckFunction(2))
			subscribe(d)
			return 0
		},
		"emit": func(L *lua.LState) int {
			d := service[*ecs.Dispatcher](e, "event dispatcher")
			ecs.Emit(d, ScriptEvent{Name: L.CheckString(1), Data: ToGo(L.Get(2))})
			return 0
		},
	})
}

// dispatch calls every Lua handler of name. Handler errors are logged.
func (e *Engine) dispatch(name string, data any) {
	for _, fn := range e.handlers[name] {
		e.Call("event "+name, fn, e.toLua(data))
	}
}

// --- tweens ---

type tween struct {
	t     *gween.Tween
	value float32
	done  bool
}

const tweenType = "scion.Tween"

func (e *Engine) bindTween() {
	L := e.L
	mt := L.NewTypeMetatable(tweenType)
	check := func(L *lua.LState) *tween {
		tw, ok := L.CheckUserData(1).Value.(*tween)
		if !ok {
			L.ArgError(1, "tween expected")
		}
		return tw
	}
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"update": func(L *lua.LState) int {
			tw := check(L)
			tw.value, tw.done = tw.t.Update(float32(L.CheckNumber(2)))
			L.Push(lua.LNumber(tw.value))
			L.Push(lua.LBool(tw.done))
			return 2
		},
		"value": func(L *lua.LState) int {
			L.Push(lua.LNumber(check(L).value))
			return 1
		},
		"done": func(L *lua.LState) int {
			L.Push(lua.LBool(check(L).done))
			return 1
		},
		"reset": func(L *lua.LState) int {
			tw := check(L)
			tw.t.Reset()
			tw.value, tw.done = tw.t.Set(0)
			return 0
		},
	}))
	e.table("Tween", map[string]lua.LGFunction{
		"new": func(L *lua.LState) int {
			from, to := float32(L.CheckNumber(1)), float32(L.CheckNumber(2))
			tw := &tween{t: gween.New(from, to, float32(L.CheckNumber(3)), e.checkEase(4)), value: from}
			ud := L.NewUserData()
			ud.Value = tw
			L.SetMetatable(ud, mt)
			L.Push(ud)
			return 1
		},
	})
}
