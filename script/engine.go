// Package script embeds a Lua VM (gopher-lua) and binds the engine into
// it: math, entities and components, input, assets, audio, drawing,
// camera, physics, events, tweens and state helpers.
//
// The main script defines
//
//	main = {
//		{ init = function() end },
//		{ update = function(dt) end },
//		{ render = function() end },
//	}
//
// and the engine calls init once, then update and render every frame. An
// error in any callback is logged with its Lua traceback and the frame
// continues.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/scion/ecs"
)

//go:embed prelude.lua
var prelude string

// ErrMainContract is returned when the main script does not define the
// init/update/render sequence.
var ErrMainContract = errors.New("script: main must be a sequence of {init}, {update}, {render} tables")

var mainCallbacks = [3]string{"init", "update", "render"}

// Engine owns one Lua state. It must only be used from the game loop
// goroutine.
type Engine struct {
	L    *lua.LState
	log  *zap.Logger
	reg  *ecs.Registry
	root string

	vec2mt   *lua.LTable
	main     [3]*lua.LFunction
	hasMain  bool
	failures int

	handlers map[string][]*lua.LFunction
}

// NewEngine creates a Lua state bound to reg. Relative script paths
// resolve against root.
func NewEngine(reg *ecs.Registry, root string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{L: L, log: log, reg: reg, root: root, handlers: make(map[string][]*lua.LFunction)}

	if root != "" {
		if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
			path := filepath.Join(root, "?.lua") + ";" + lua.LVAsString(pkg.RawGetString("path"))
			pkg.RawSetString("path", lua.LString(path))
		}
	}
	if err := L.DoString(prelude); err != nil {
		L.Close()
		return nil, fmt.Errorf("scion/script: prelude: %w", err)
	}
	if v, ok := L.GetGlobal("vec2").(*lua.LTable); ok {
		e.vec2mt, _ = v.RawGetString("mt").(*lua.LTable)
	}

	e.bindMath()
	e.bindECS()
	e.bindInput()
	e.bindAssets()
	e.bindAudio()
	e.bindRenderer()
	e.bindCamera()
	e.bindPhysics()
	e.bindEvents()
	e.bindTween()
	e.bindStates()
	L.SetGlobal("run_script", L.NewFunction(e.luaRunScript))
	return e, nil
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// Registry returns the registry scripts operate on.
func (e *Engine) Registry() *ecs.Registry {
	return e.reg
}

// Failures returns how many callbacks have failed so far.
func (e *Engine) Failures() int {
	return e.failures
}

func (e *Engine) resolve(path string) string {
	if filepath.IsAbs(path) || e.root == "" {
		return path
	}
	return filepath.Join(e.root, path)
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.L.DoString(src); err != nil {
		return e.report("chunk", err)
	}
	return nil
}

// DoFile runs a script file.
func (e *Engine) DoFile(path string) error {
	full := e.resolve(path)
	if err := e.L.DoFile(full); err != nil {
		return e.report(full, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", full))
	return nil
}

func (e *Engine) luaRunScript(L *lua.LState) int {
	path := L.CheckString(1)
	L.Push(lua.LBool(e.DoFile(path) == nil))
	return 1
}

// LoadMain runs path and validates the main table.
func (e *Engine) LoadMain(path string) error {
	if err := e.DoFile(path); err != nil {
		return err
	}
	return e.bindMain()
}

// LoadMainString is LoadMain for inline source.
func (e *Engine) LoadMainString(src string) error {
	if err := e.DoString(src); err != nil {
		return err
	}
	return e.bindMain()
}

func (e *Engine) bindMain() error {
	e.hasMain = false
	tbl, ok := e.L.GetGlobal("main").(*lua.LTable)
	if !ok {
		return fmt.Errorf("%w: no main table", ErrMainContract)
	}
	for i, name := range mainCallbacks {
		sub, ok := tbl.RawGetInt(i + 1).(*lua.LTable)
		if !ok {
			return fmt.Errorf("%w: main[%d] is not a table", ErrMainContract, i+1)
		}
		fn, ok := sub.RawGetString(name).(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%w: main[%d].%s is not a function", ErrMainContract, i+1, name)
		}
		e.main[i] = fn
	}
	e.hasMain = true
	return nil
}

// HasMain reports whether a main script is bound.
func (e *Engine) HasMain() bool {
	return e.hasMain
}

// Init calls main init.
func (e *Engine) Init() error {
	return e.callMain(0)
}

// Update calls main update with the frame time in seconds.
func (e *Engine) Update(dt float64) error {
	return e.callMain(1, lua.LNumber(dt))
}

// Render calls main render.
func (e *Engine) Render() error {
	return e.callMain(2)
}

func (e *Engine) callMain(i int, args ...lua.LValue) error {
	if !e.hasMain {
		return nil
	}
	return e.Call(mainCallbacks[i], e.main[i], args...)
}

// Call invokes fn in protected mode. Errors are logged with the Lua
// traceback and returned.
func (e *Engine) Call(name string, fn lua.LValue, args ...lua.LValue) error {
	top := e.L.GetTop()
	err := e.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	e.L.SetTop(top)
	if err != nil {
		return e.report(name, err)
	}
	return nil
}

// call1 is Call returning the first result.
func (e *Engine) call1(name string, fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	top := e.L.GetTop()
	err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	if err != nil {
		e.L.SetTop(top)
		return lua.LNil, e.report(name, err)
	}
	ret := e.L.Get(-1)
	e.L.SetTop(top)
	return ret, nil
}

func (e *Engine) report(where string, err error) error {
	e.failures++
	fields := []zap.Field{zap.String("script", where), zap.Error(err)}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.StackTrace != "" {
		fields = append(fields, zap.String("trace", apiErr.StackTrace))
	}
	e.log.Error("lua error", fields...)
	return fmt.Errorf("scion/script: %s: %w", where, err)
}
