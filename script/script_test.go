package script

import (
	"errors"
	"math"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/physics"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg := ecs.NewRegistry(nil)
	reg.SetCatalog(component.NewCatalog())
	e, err := NewEngine(reg, "", nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func run(t *testing.T, e *Engine, src string) {
	t.Helper()
	if err := e.DoString(src); err != nil {
		t.Fatalf("DoString: %v", err)
	}
}

func number(e *Engine, name string) float64 {
	return float64(lua.LVAsNumber(e.L.GetGlobal(name)))
}

func luaStrings(e *Engine, name string) []string {
	tbl, ok := e.L.GetGlobal(name).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.Len(); i++ {
		out = append(out, lua.LVAsString(tbl.RawGetInt(i)))
	}
	return out
}

const mainScript = `
calls = {}
frame = 0
main = {
	{ init = function() table.insert(calls, "init") end },
	{ update = function(dt)
		frame = frame + 1
		if frame == 1 then error("boom") end
		table.insert(calls, "update" .. frame)
	end },
	{ render = function() table.insert(calls, "render" .. frame) end },
}
`

func TestMainContractCallbacks(t *testing.T) {
	e := newEngine(t)
	if err := e.LoadMainString(mainScript); err != nil {
		t.Fatalf("LoadMainString: %v", err)
	}
	if !e.HasMain() {
		t.Fatal("HasMain = false")
	}
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if err := e.Update(1.0 / 60); err == nil {
		t.Error("frame 1 update should fail")
	}
	e.Render()
	if err := e.Update(1.0 / 60); err != nil {
		t.Errorf("frame 2 update: %v", err)
	}
	e.Render()

	want := []string{"init", "render1", "update2", "render2"}
	got := luaStrings(e, "calls")
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if e.Failures() != 1 {
		t.Errorf("Failures = %d, want 1", e.Failures())
	}
}

func TestMainContractRejectsMissingCallback(t *testing.T) {
	e := newEngine(t)
	err := e.LoadMainString(`main = { { init = function() end }, { update = function() end } }`)
	if !errors.Is(err, ErrMainContract) {
		t.Errorf("err = %v, want ErrMainContract", err)
	}
	if e.HasMain() {
		t.Error("HasMain after failed load")
	}

	err = e.LoadMainString(`main = { { update = function() end }, { init = function() end }, { render = function() end } }`)
	if !errors.Is(err, ErrMainContract) {
		t.Errorf("out of order: err = %v, want ErrMainContract", err)
	}
}

func TestEntityComponentProxies(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		local hero = Entity.new("hero", "players")
		local t = hero:add_component("transform", { position = vec2(1, 2) })
		t.rotation = 90
		t.position = t.position + vec2(1, 1)
		hero:add_component(Sprite({ width = 16, texture = "hero" }))
		scale_x = t.scale.x
		has_sprite = hero:has_component("sprite")
		has_text = hero:has_component("text")
		same = t.entity == hero
		in_view = #Registry.view("transform", "sprite")
	`)

	id, ok := e.Registry().FindByName("hero")
	if !ok {
		t.Fatal("hero not created")
	}
	if g := e.Registry().Group(id); g != "players" {
		t.Errorf("group = %q, want players", g)
	}
	tr, _ := ecs.TryGet[component.Transform](e.Registry(), id)
	if tr == nil || tr.Position != (scion.Vec2{X: 2, Y: 3}) || tr.Rotation != 90 {
		t.Errorf("transform = %+v", tr)
	}
	if number(e, "scale_x") != 1 {
		t.Errorf("default scale.x = %v, want 1", number(e, "scale_x"))
	}
	sp, _ := ecs.TryGet[component.Sprite](e.Registry(), id)
	if sp == nil || sp.Width != 16 || sp.Texture != "hero" || sp.Color != scion.ColorWhite {
		t.Errorf("sprite = %+v", sp)
	}
	if !lua.LVAsBool(e.L.GetGlobal("has_sprite")) || lua.LVAsBool(e.L.GetGlobal("has_text")) {
		t.Error("has_component mismatch")
	}
	if !lua.LVAsBool(e.L.GetGlobal("same")) {
		t.Error("component.entity should equal its entity")
	}
	if number(e, "in_view") != 1 {
		t.Errorf("view size = %v, want 1", number(e, "in_view"))
	}
}

func TestRegistryEachForms(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		Entity.new("a"):add_component("transform")
		Entity.new("b"):add_component("transform")
		Entity.new("c")
		listed, spread = 0, 0
		Registry.each({"transform"}, function(ent) listed = listed + 1 end)
		Registry.each("transform", function(ent) spread = spread + 1 end)
	`)
	if number(e, "listed") != 2 || number(e, "spread") != 2 {
		t.Errorf("listed = %v, spread = %v, want 2, 2", number(e, "listed"), number(e, "spread"))
	}
	if err := e.DoString(`Registry.each("transform")`); err == nil {
		t.Error("expected error without a callback")
	}
}

func TestComponentOfKilledEntityErrors(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		e = Entity.new("doomed")
		t = e:add_component("transform")
		e:kill()
	`)
	e.Registry().Flush()
	if err := e.DoString(`local x = t.rotation`); err == nil {
		t.Error("reading a destroyed component should raise")
	}
}

func TestUnknownComponentRaises(t *testing.T) {
	e := newEngine(t)
	if err := e.DoString(`Entity.new():add_component("nope", {})`); err == nil {
		t.Error("expected error for unknown component")
	}
	if err := e.DoString(`Entity.new():add_component("transform", { rotation = "x" })`); err == nil {
		t.Error("expected error for bad field type")
	}
}

func TestClassAndVec2(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		local Animal = Class()
		function Animal:init(name) self.name = name end
		function Animal:speak() return "..." end
		local Dog = Class(Animal)
		function Dog:speak() return self.name .. " woof" end

		local d = Dog.new("rex")
		said = d:speak()
		is_animal = d:is(Animal)
		is_dog = Animal.new("cat"):is(Dog)

		local v = vec2(1, 2) + vec2(3, 4) * 2
		vx, vy = v.x, v.y
		len = vec2(3, 4):len()
		dist = distance(vec2(0, 0), vec2(3, 4))
		clamped = clamp(5, 0, 1)
		mid = lerp(0, 10, 0.25)
		near = nearly_equal(0.1 + 0.2, 0.3)
	`)
	if s := lua.LVAsString(e.L.GetGlobal("said")); s != "rex woof" {
		t.Errorf("said = %q", s)
	}
	if !lua.LVAsBool(e.L.GetGlobal("is_animal")) || lua.LVAsBool(e.L.GetGlobal("is_dog")) {
		t.Error("Class:is mismatch")
	}
	if number(e, "vx") != 7 || number(e, "vy") != 10 {
		t.Errorf("v = (%v, %v), want (7, 10)", number(e, "vx"), number(e, "vy"))
	}
	if number(e, "len") != 5 || number(e, "dist") != 5 {
		t.Errorf("len/dist = %v/%v", number(e, "len"), number(e, "dist"))
	}
	if number(e, "clamped") != 1 || number(e, "mid") != 2.5 {
		t.Errorf("clamp/lerp = %v/%v", number(e, "clamped"), number(e, "mid"))
	}
	if !lua.LVAsBool(e.L.GetGlobal("near")) {
		t.Error("nearly_equal(0.1+0.2, 0.3) = false")
	}
}

func TestMissingServiceRaises(t *testing.T) {
	e := newEngine(t)
	if err := e.DoString(`Camera.position()`); err == nil {
		t.Error("expected error without a camera in context")
	}
	run(t, e, `enabled = PhysicsWorld.enabled()`)
	if lua.LVAsBool(e.L.GetGlobal("enabled")) {
		t.Error("physics enabled without a bridge")
	}
}

func TestTween(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		tw = Tween.new(0, 10, 1, "linear")
		a, a_done = tw:update(0.5)
		b, b_done = tw:update(0.6)
	`)
	if math.Abs(number(e, "a")-5) > 1e-4 || lua.LVAsBool(e.L.GetGlobal("a_done")) {
		t.Errorf("halfway = %v", number(e, "a"))
	}
	if number(e, "b") != 10 || !lua.LVAsBool(e.L.GetGlobal("b_done")) {
		t.Errorf("end = %v", number(e, "b"))
	}
	if err := e.DoString(`Tween.new(0, 1, 1, "wobble")`); err == nil {
		t.Error("expected error for unknown easing")
	}
}

func TestContactAndScriptEvents(t *testing.T) {
	e := newEngine(t)
	d := ecs.NewDispatcher(nil)
	ecs.AddToContext(e.Registry(), d)

	run(t, e, `
		hits = 0
		EventDispatcher.add_handler("contact", function(ev)
			hits = hits + 1
			tags = ev.a.tag .. "/" .. ev.b.tag
		end)
		EventDispatcher.add_handler("scored", function(data) points = data.points end)
		EventDispatcher.emit("scored", { points = 5 })
	`)
	if !ecs.HasHandlers[physics.ContactEvent](d) {
		t.Fatal("contact handler not registered with the dispatcher")
	}
	ecs.Emit(d, physics.ContactEvent{
		A: component.ObjectData{Tag: "player"},
		B: component.ObjectData{Tag: "coin"},
	})
	d.Process()

	if number(e, "hits") != 1 {
		t.Errorf("hits = %v, want 1", number(e, "hits"))
	}
	if s := lua.LVAsString(e.L.GetGlobal("tags")); s != "player/coin" {
		t.Errorf("tags = %q", s)
	}
	if number(e, "points") != 5 {
		t.Errorf("points = %v, want 5", number(e, "points"))
	}
}

func TestLuaStateMachine(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		log = {}
		local Menu = Class()
		function Menu:on_enter(p) table.insert(log, "menu.enter:" .. tostring(p)) end
		function Menu:on_exit() table.insert(log, "menu.exit") end
		function Menu:update(dt) table.insert(log, "menu.update") end

		local Game = {
			on_enter = function(self, p) table.insert(log, "game.enter:" .. p.level) end,
			update = function(self, dt) table.insert(log, "game.update") end,
		}

		sm = StateMachine.new({ menu = Menu.new() })
		sm:add("game", Game)
		sm:change("menu", 1)
		sm:update(0.1)
		sm:change("game", { level = 2 })
		sm:update(0.1)
		current = sm:current()
	`)
	want := "menu.enter:1,menu.update,menu.exit,game.enter:2,game.update"
	if got := strings.Join(luaStrings(e, "log"), ","); got != want {
		t.Errorf("log = %s, want %s", got, want)
	}
	if s := lua.LVAsString(e.L.GetGlobal("current")); s != "game" {
		t.Errorf("current = %q, want game", s)
	}
	if err := e.DoString(`sm:change("missing")`); err == nil {
		t.Error("expected error changing to an unknown state")
	}
}

func TestLuaStateStack(t *testing.T) {
	e := newEngine(t)
	run(t, e, `
		log = {}
		local function state(name)
			return {
				name = name,
				on_enter = function() table.insert(log, name .. ".enter") end,
				on_exit = function() table.insert(log, name .. ".exit") end,
				on_update = function() table.insert(log, name .. ".update") end,
				handle_inputs = function() table.insert(log, name .. ".inputs") end,
			}
		end
		ss = StateStack.new()
		ss:push(state("game"))
		ss:push(state("pause"))
		ss:pop()
		ss:update(0.1)
		top = ss:top()
		size = ss:size()
	`)
	want := "game.enter,pause.enter,pause.update,pause.inputs,pause.exit"
	if got := strings.Join(luaStrings(e, "log"), ","); got != want {
		t.Errorf("log = %s, want %s", got, want)
	}
	if lua.LVAsString(e.L.GetGlobal("top")) != "game" || number(e, "size") != 1 {
		t.Errorf("top/size = %v/%v", e.L.GetGlobal("top"), number(e, "size"))
	}
}
