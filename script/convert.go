package script

import (
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/ecs"
)

const (
	entityType    = "scion.Entity"
	componentType = "scion.Component"
)

// ToGo converts a Lua value into the loose Go shape ecs.Coerce accepts.
// Tables with a sequence part become []any, other tables map[string]any.
func ToGo(v lua.LValue) any {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(t)
	case lua.LNumber:
		return float64(t)
	case lua.LString:
		return string(t)
	case *lua.LUserData:
		if c, ok := t.Value.(*componentRef); ok && c.detached != nil {
			return c.detached
		}
		return t.Value
	case *lua.LTable:
		if n := t.MaxN(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, ToGo(t.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		t.ForEach(func(k, val lua.LValue) {
			if s, ok := k.(lua.LString); ok {
				out[string(s)] = ToGo(val)
			}
		})
		return out
	}
	return nil
}

// toLua converts a Go value into Lua. Vec2 values become vec2 tables,
// entities become Entity userdata.
func (e *Engine) toLua(v any) lua.LValue {
	L := e.L
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(t)
	case float64:
		return lua.LNumber(t)
	case float32:
		return lua.LNumber(t)
	case int:
		return lua.LNumber(t)
	case int32:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case uint32:
		return lua.LNumber(t)
	case uint64:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case ecs.Entity:
		return e.entityValue(t)
	case scion.Vec2:
		return e.vec2(t)
	case scion.Color:
		tbl := L.NewTable()
		tbl.RawSetString("r", lua.LNumber(t.R))
		tbl.RawSetString("g", lua.LNumber(t.G))
		tbl.RawSetString("b", lua.LNumber(t.B))
		tbl.RawSetString("a", lua.LNumber(t.A))
		return tbl
	case scion.Rect:
		tbl := L.NewTable()
		tbl.RawSetString("x", lua.LNumber(t.X))
		tbl.RawSetString("y", lua.LNumber(t.Y))
		tbl.RawSetString("width", lua.LNumber(t.Width))
		tbl.RawSetString("height", lua.LNumber(t.Height))
		return tbl
	case []any:
		tbl := L.CreateTable(len(t), 0)
		for _, item := range t {
			tbl.Append(e.toLua(item))
		}
		return tbl
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tbl := L.CreateTable(0, len(t))
		for _, k := range keys {
			tbl.RawSetString(k, e.toLua(t[k]))
		}
		return tbl
	case lua.LValue:
		return t
	}
	ud := L.NewUserData()
	ud.Value = v
	return ud
}

// vec2 builds a table carrying the prelude's vec2 metatable.
func (e *Engine) vec2(v scion.Vec2) *lua.LTable {
	tbl := e.L.CreateTable(0, 2)
	tbl.RawSetString("x", lua.LNumber(v.X))
	tbl.RawSetString("y", lua.LNumber(v.Y))
	if e.vec2mt != nil {
		e.L.SetMetatable(tbl, e.vec2mt)
	}
	return tbl
}

func (e *Engine) checkVec2(n int) scion.Vec2 {
	v, err := ecs.Coerce[scion.Vec2](ToGo(e.L.Get(n)))
	if err != nil {
		e.L.ArgError(n, "vec2 expected")
	}
	return v
}

func (e *Engine) optColor(n int, def scion.Color) scion.Color {
	lv := e.L.Get(n)
	if lv == lua.LNil {
		return def
	}
	c, err := ecs.Coerce[scion.Color](ToGo(lv))
	if err != nil {
		e.L.ArgError(n, "color expected")
	}
	return c
}

func (e *Engine) entityValue(id ecs.Entity) *lua.LUserData {
	ud := e.L.NewUserData()
	ud.Value = id
	e.L.SetMetatable(ud, e.L.GetTypeMetatable(entityType))
	return ud
}

func (e *Engine) checkEntity(n int) ecs.Entity {
	ud := e.L.CheckUserData(n)
	id, ok := ud.Value.(ecs.Entity)
	if !ok {
		e.L.ArgError(n, "entity expected")
	}
	return id
}
