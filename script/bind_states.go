package script

import (
	lua "github.com/yuin/gopher-lua"
)

const (
	machineType = "scion.StateMachine"
	stackType   = "scion.StateStack"
)

// luaState adapts a Lua table to a State. Callbacks are looked up through
// the table's metatable, so Class instances work, and are called with the
// table as self. Errors are logged by Call.
func (e *Engine) luaState(name string, tbl *lua.LTable) *State {
	method := func(keys ...string) *lua.LFunction {
		for _, k := range keys {
			if fn, ok := e.L.GetField(tbl, k).(*lua.LFunction); ok {
				return fn
			}
		}
		return nil
	}
	call := func(cb string, fn *lua.LFunction, args ...lua.LValue) error {
		e.Call(name+"."+cb, fn, append([]lua.LValue{tbl}, args...)...)
		return nil
	}

	st := &State{}
	if fn := method("on_enter", "enter"); fn != nil {
		st.Enter = func(params any) error { return call("on_enter", fn, e.toLua(params)) }
	}
	if fn := method("on_exit", "exit"); fn != nil {
		st.Exit = func() error { return call("on_exit", fn) }
	}
	if fn := method("on_update", "update"); fn != nil {
		st.Update = func(dt float64) error { return call("on_update", fn, lua.LNumber(dt)) }
	}
	if fn := method("handle_inputs"); fn != nil {
		st.HandleInputs = func() error { return call("handle_inputs", fn) }
	}
	if fn := method("render", "on_render"); fn != nil {
		st.Render = func() error { return call("render", fn) }
	}
	return st
}

func stateName(tbl *lua.LTable) string {
	if s, ok := tbl.RawGetString("name").(lua.LString); ok {
		return string(s)
	}
	return "state"
}

func checkUserData[T any](L *lua.LState, what string) T {
	v, ok := L.CheckUserData(1).Value.(T)
	if !ok {
		L.ArgError(1, what+" expected")
	}
	return v
}

func (e *Engine) bindStates() {
	L := e.L
	machine := func(L *lua.LState) *StateMachine { return checkUserData[*StateMachine](L, "state machine") }
	stack := func(L *lua.LState) *StateStack { return checkUserData[*StateStack](L, "state stack") }

	mmt := L.NewTypeMetatable(machineType)
	L.SetField(mmt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add": func(L *lua.LState) int {
			name := L.CheckString(2)
			machine(L).Add(name, e.luaState(name, L.CheckTable(3)))
			return 0
		},
		"remove": func(L *lua.LState) int {
			machine(L).Remove(L.CheckString(2))
			return 0
		},
		"has": func(L *lua.LState) int {
			L.Push(lua.LBool(machine(L).Has(L.CheckString(2))))
			return 1
		},
		"change": func(L *lua.LState) int {
			if err := machine(L).Change(L.CheckString(2), L.Get(3)); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		},
		"update": func(L *lua.LState) int {
			machine(L).Update(float64(L.CheckNumber(2)))
			return 0
		},
		"render": func(L *lua.LState) int {
			machine(L).Render()
			return 0
		},
		"current": func(L *lua.LState) int {
			L.Push(lua.LString(machine(L).Current()))
			return 1
		},
	}))

	smt := L.NewTypeMetatable(stackType)
	L.SetField(smt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"push": func(L *lua.LState) int {
			tbl := L.CheckTable(2)
			name := stateName(tbl)
			stack(L).Push(name, e.luaState(name, tbl), L.Get(3))
			return 0
		},
		"pop": func(L *lua.LState) int {
			stack(L).Pop()
			return 0
		},
		"change": func(L *lua.LState) int {
			tbl := L.CheckTable(2)
			name := stateName(tbl)
			stack(L).Change(name, e.luaState(name, tbl), L.Get(3))
			return 0
		},
		"update": func(L *lua.LState) int {
			stack(L).Update(float64(L.CheckNumber(2)))
			return 0
		},
		"render": func(L *lua.LState) int {
			stack(L).Render()
			return 0
		},
		"size": func(L *lua.LState) int {
			L.Push(lua.LNumber(stack(L).Len()))
			return 1
		},
		"top": func(L *lua.LState) int {
			L.Push(lua.LString(stack(L).Top()))
			return 1
		},
	}))

	e.table("StateMachine", map[string]lua.LGFunction{
		"new": func(L *lua.LState) int {
			m := NewStateMachine(e.log)
			if states, ok := L.Get(1).(*lua.LTable); ok {
				states.ForEach(func(k, v lua.LValue) {
					name, okName := k.(lua.LString)
					tbl, okTbl := v.(*lua.LTable)
					if okName && okTbl {
						m.Add(string(name), e.luaState(string(name), tbl))
					}
				})
			}
			ud := L.NewUserData()
			ud.Value = m
			L.SetMetatable(ud, mmt)
			L.Push(ud)
			return 1
		},
	})
	e.table("StateStack", map[string]lua.LGFunction{
		"new": func(L *lua.LState) int {
			ud := L.NewUserData()
			ud.Value = NewStateStack(e.log)
			L.SetMetatable(ud, smt)
			L.Push(ud)
			return 1
		},
	})
}
