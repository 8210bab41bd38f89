package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// componentRef is the Lua view of a component. Attached refs re-resolve
// the component through the registry on every access; detached refs hold
// a component built by a constructor and not yet added to an entity.
type componentRef struct {
	desc     *ecs.Descriptor
	entity   ecs.Entity
	detached any
}

func (c *componentRef) resolve(r *ecs.Registry) (any, bool) {
	if c.detached != nil {
		return c.detached, true
	}
	return c.desc.Get(r, c.entity)
}

// constructorName maps a catalog name to its Lua constructor global.
func constructorName(name string) string {
	if name == component.NameUI {
		return "UI"
	}
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func (e *Engine) bindECS() {
	L := e.L
	if e.reg.Catalog() == nil {
		e.reg.SetCatalog(component.NewCatalog())
	}
	cat := e.reg.Catalog()

	mt := L.NewTypeMetatable(entityType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"id":               e.entityID,
		"generation":       e.entityGeneration,
		"valid":            e.entityValid,
		"kill":             e.entityKill,
		"name":             e.entityName,
		"group":            e.entityGroup,
		"add_component":    e.entityAddComponent,
		"get_component":    e.entityGetComponent,
		"has_component":    e.entityHasComponent,
		"remove_component": e.entityRemoveComponent,
		"components":       e.entityComponents,
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(e.checkEntity(1) == e.checkEntity(2)))
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(e.checkEntity(1).String()))
		return 1
	}))

	cmt := L.NewTypeMetatable(componentType)
	L.SetField(cmt, "__index", L.NewFunction(e.componentIndex))
	L.SetField(cmt, "__newindex", L.NewFunction(e.componentNewIndex))
	L.SetField(cmt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ref := e.checkComponent(1)
		L.Push(lua.LString(fmt.Sprintf("%s(%s)", ref.desc.Name, ref.entity)))
		return 1
	}))

	entity := L.NewTable()
	L.SetFuncs(entity, map[string]lua.LGFunction{
		"new": func(L *lua.LState) int {
			id := e.reg.CreateEntity(L.OptString(1, ""), L.OptString(2, ""))
			L.Push(e.entityValue(id))
			return 1
		},
		"find": func(L *lua.LState) int {
			id, ok := e.reg.FindByName(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(e.entityValue(id))
			return 1
		},
	})
	L.SetGlobal("Entity", entity)

	registry := L.NewTable()
	L.SetFuncs(registry, map[string]lua.LGFunction{
		"view":  e.registryView,
		"each":  e.registryEach,
		"group": e.registryGroup,
		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.reg.Len()))
			return 1
		},
		"kill": func(L *lua.LState) int {
			e.reg.Kill(e.checkEntity(1))
			return 0
		},
	})
	L.SetGlobal("Registry", registry)

	for _, name := range cat.Names() {
		if name == component.NameID {
			continue
		}
		desc, _ := cat.Lookup(name)
		L.SetGlobal(constructorName(name), L.NewFunction(func(L *lua.LState) int {
			tbl, _ := ToGo(L.OptTable(1, L.NewTable())).(map[string]any)
			c, err := desc.FromTable(tbl)
			if err != nil {
				L.RaiseError("%s: %v", desc.Name, err)
			}
			L.Push(e.componentValue(&componentRef{desc: desc, detached: c}))
			return 1
		}))
	}
}

func (e *Engine) componentValue(ref *componentRef) *lua.LUserData {
	ud := e.L.NewUserData()
	ud.Value = ref
	e.L.SetMetatable(ud, e.L.GetTypeMetatable(componentType))
	return ud
}

func (e *Engine) checkComponent(n int) *componentRef {
	ud := e.L.CheckUserData(n)
	ref, ok := ud.Value.(*componentRef)
	if !ok {
		e.L.ArgError(n, "component expected")
	}
	return ref
}

func (e *Engine) lookup(L *lua.LState, n int) *ecs.Descriptor {
	name := L.CheckString(n)
	d, ok := e.reg.Catalog().Lookup(name)
	if !ok {
		L.ArgError(n, fmt.Sprintf("unknown component %q", name))
	}
	return d
}

func (e *Engine) entityID(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkEntity(1).Index()))
	return 1
}

func (e *Engine) entityGeneration(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkEntity(1).Generation()))
	return 1
}

func (e *Engine) entityValid(L *lua.LState) int {
	id := e.checkEntity(1)
	L.Push(lua.LBool(e.reg.Valid(id) && !e.reg.Killed(id)))
	return 1
}

func (e *Engine) entityKill(L *lua.LState) int {
	e.reg.Kill(e.checkEntity(1))
	return 0
}

func (e *Engine) entityName(L *lua.LState) int {
	L.Push(lua.LString(e.reg.Name(e.checkEntity(1))))
	return 1
}

func (e *Engine) entityGroup(L *lua.LState) int {
	L.Push(lua.LString(e.reg.Group(e.checkEntity(1))))
	return 1
}

// entity:add_component("sprite", {...}) or entity:add_component(Sprite{...})
func (e *Engine) entityAddComponent(L *lua.LState) int {
	id := e.checkEntity(1)
	var desc *ecs.Descriptor
	var c any
	if ud, ok := L.Get(2).(*lua.LUserData); ok {
		ref, ok := ud.Value.(*componentRef)
		if !ok || ref.detached == nil {
			L.ArgError(2, "detached component expected")
		}
		desc, c = ref.desc, ref.detached
	} else {
		desc = e.lookup(L, 2)
		tbl, _ := ToGo(L.OptTable(3, L.NewTable())).(map[string]any)
		var err error
		if c, err = desc.FromTable(tbl); err != nil {
			L.RaiseError("%s: %v", desc.Name, err)
		}
	}
	if _, err := desc.Add(e.reg, id, c); err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(e.componentValue(&componentRef{desc: desc, entity: id}))
	return 1
}

func (e *Engine) entityGetComponent(L *lua.LState) int {
	id := e.checkEntity(1)
	desc := e.lookup(L, 2)
	if !desc.Has(e.reg, id) {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(e.componentValue(&componentRef{desc: desc, entity: id}))
	return 1
}

func (e *Engine) entityHasComponent(L *lua.LState) int {
	id := e.checkEntity(1)
	L.Push(lua.LBool(e.lookup(L, 2).Has(e.reg, id)))
	return 1
}

func (e *Engine) entityRemoveComponent(L *lua.LState) int {
	id := e.checkEntity(1)
	L.Push(lua.LBool(e.lookup(L, 2).Remove(e.reg, id) == nil))
	return 1
}

func (e *Engine) entityComponents(L *lua.LState) int {
	id := e.checkEntity(1)
	tbl := L.NewTable()
	for _, name := range e.reg.Catalog().Names() {
		d, _ := e.reg.Catalog().Lookup(name)
		if d.Has(e.reg, id) {
			tbl.Append(lua.LString(name))
		}
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) componentIndex(L *lua.LState) int {
	ref := e.checkComponent(1)
	key := L.CheckString(2)
	if key == "entity" && ref.detached == nil {
		L.Push(e.entityValue(ref.entity))
		return 1
	}
	c, ok := ref.resolve(e.reg)
	if !ok {
		L.RaiseError("%s of %s no longer exists", ref.desc.Name, ref.entity)
	}
	v, err := ref.desc.GetField(c, key)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(e.toLua(v))
	return 1
}

func (e *Engine) componentNewIndex(L *lua.LState) int {
	ref := e.checkComponent(1)
	key := L.CheckString(2)
	c, ok := ref.resolve(e.reg)
	if !ok {
		L.RaiseError("%s of %s no longer exists", ref.desc.Name, ref.entity)
	}
	if err := ref.desc.SetField(c, key, ToGo(L.Get(3))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// viewNames accepts either a list table or string varargs.
func (e *Engine) viewNames(L *lua.LState) []string {
	var names []string
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		tbl.ForEach(func(_, v lua.LValue) {
			names = append(names, lua.LVAsString(v))
		})
		return names
	}
	for i := 1; i <= L.GetTop(); i++ {
		if _, ok := L.Get(i).(lua.LString); ok {
			names = append(names, L.CheckString(i))
		}
	}
	return names
}

func (e *Engine) registryView(L *lua.LState) int {
	v, err := e.reg.ViewNames(e.viewNames(L)...)
	if err != nil {
		L.RaiseError("%v", err)
	}
	tbl := L.NewTable()
	for _, id := range v.Collect() {
		tbl.Append(e.entityValue(id))
	}
	L.Push(tbl)
	return 1
}

// Registry.each({"transform", "sprite"}, function(entity) ... end)
// Registry.each("transform", "sprite", function(entity) ... end)
func (e *Engine) registryEach(L *lua.LState) int {
	names := e.viewNames(L)
	fn := L.CheckFunction(L.GetTop())
	v, err := e.reg.ViewNames(names...)
	if err != nil {
		L.RaiseError("%v", err)
	}
	for _, id := range v.Collect() {
		L.Push(fn)
		L.Push(e.entityValue(id))
		L.Call(1, 0)
	}
	return 0
}

func (e *Engine) registryGroup(L *lua.LState) int {
	tbl := L.NewTable()
	for _, id := range e.reg.FindByGroup(L.CheckString(1)) {
		tbl.Append(e.entityValue(id))
	}
	L.Push(tbl)
	return 1
}
