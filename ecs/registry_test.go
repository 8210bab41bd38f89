package ecs

import (
	"errors"
	"testing"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type frozen struct{}

func TestCreateEntityAttachesIdentification(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity("player", "heroes")
	if r.Name(e) != "player" || r.Group(e) != "heroes" {
		t.Errorf("name/group = %q/%q, want player/heroes", r.Name(e), r.Group(e))
	}
	id, err := Get[Identification](r, e)
	if err != nil {
		t.Fatalf("Get Identification: %v", err)
	}
	if id.EntityID != e {
		t.Errorf("EntityID = %v, want %v", id.EntityID, e)
	}
}

func TestAddGetRemove(t *testing.T) {
	r := NewRegistry(nil)
	e := r.Create()
	p, err := Add(r, e, position{1, 2})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.X = 5
	got, err := Get[position](r, e)
	if err != nil || got.X != 5 {
		t.Errorf("Get = %+v, %v; want X=5", got, err)
	}
	if !Has[position](r, e) {
		t.Error("Has = false, want true")
	}
	if err := Remove[position](r, e); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if Has[position](r, e) {
		t.Error("Has after Remove = true")
	}
}

func TestContractViolationsReturnErrors(t *testing.T) {
	r := NewRegistry(nil)
	e := r.Create()
	Add(r, e, position{})
	if _, err := Add(r, e, position{}); !errors.Is(err, ErrDuplicateComponent) {
		t.Errorf("duplicate Add err = %v, want ErrDuplicateComponent", err)
	}
	if _, err := Get[velocity](r, e); !errors.Is(err, ErrMissingComponent) {
		t.Errorf("missing Get err = %v, want ErrMissingComponent", err)
	}
	if err := Remove[velocity](r, e); !errors.Is(err, ErrMissingComponent) {
		t.Errorf("missing Remove err = %v, want ErrMissingComponent", err)
	}
	if _, err := Add(r, Null, position{}); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Add to Null err = %v, want ErrInvalidEntity", err)
	}
}

func TestStrictModePanics(t *testing.T) {
	r := NewRegistry(nil)
	r.SetStrict(true)
	defer func() {
		if recover() == nil {
			t.Error("expected panic in strict mode")
		}
	}()
	Get[position](r, r.Create())
}

func TestKillIsDeferredUntilFlush(t *testing.T) {
	r := NewRegistry(nil)
	e := r.Create()
	Add(r, e, position{})
	r.Kill(e)
	if !r.Valid(e) || !Has[position](r, e) {
		t.Fatal("killed entity should stay alive until Flush")
	}
	var destroyed []Entity
	r.OnDestroy(func(d Entity) {
		destroyed = append(destroyed, d)
		if !Has[position](r, d) {
			t.Error("OnDestroy should run before components are removed")
		}
	})
	if n := r.Flush(); n != 1 {
		t.Errorf("Flush = %d, want 1", n)
	}
	if r.Valid(e) {
		t.Error("entity still valid after Flush")
	}
	if len(destroyed) != 1 || destroyed[0] != e {
		t.Errorf("destroyed = %v, want [%v]", destroyed, e)
	}
	if Count[position](r) != 0 {
		t.Error("component survived Flush")
	}
}

func TestRecycledIDHasNewGeneration(t *testing.T) {
	r := NewRegistry(nil)
	a := r.Create()
	r.Kill(a)
	r.Flush()
	b := r.Create()
	if b.Index() != a.Index() {
		t.Fatalf("index = %d, want recycled %d", b.Index(), a.Index())
	}
	if b.Generation() == a.Generation() {
		t.Error("recycled id should have a new generation")
	}
	if r.Valid(a) {
		t.Error("stale id should be invalid")
	}
}

func TestCreateWithIDRevivesKilledEntity(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity("tile", "layer0")
	r.Kill(e)
	r.Flush()

	got, err := r.CreateWithID(e)
	if err != nil {
		t.Fatalf("CreateWithID: %v", err)
	}
	if got != e || !r.Valid(e) {
		t.Errorf("revived = %v valid=%v, want %v", got, r.Valid(e), e)
	}
	if _, err := r.CreateWithID(e); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("second CreateWithID err = %v, want ErrInvalidEntity", err)
	}
	// The revived slot must not be handed out again.
	if other := r.Create(); other.Index() == e.Index() {
		t.Error("Create reused a revived index")
	}
}

func TestRevivedIDDoesNotRevalidateStaleHandles(t *testing.T) {
	r := NewRegistry(nil)
	e := r.Create()
	r.DestroyNow(e)
	f := r.Create()
	if f.Index() != e.Index() {
		t.Fatalf("f = %v, want index %d recycled", f, e.Index())
	}
	r.DestroyNow(f)
	if _, err := r.CreateWithID(e); err != nil {
		t.Fatalf("CreateWithID: %v", err)
	}
	r.DestroyNow(e)
	g := r.Create()
	if g.Index() != e.Index() {
		t.Fatalf("g = %v, want index %d recycled", g, e.Index())
	}
	if g == f || r.Valid(f) {
		t.Errorf("stale %v resolves to new entity %v", f, g)
	}
	if g.Generation() <= f.Generation() {
		t.Errorf("g generation = %d, want > %d", g.Generation(), f.Generation())
	}
}

func TestCreateWithIDBeyondEnd(t *testing.T) {
	r := NewRegistry(nil)
	e := NewEntity(5, 2)
	if _, err := r.CreateWithID(e); err != nil {
		t.Fatalf("CreateWithID: %v", err)
	}
	seen := map[uint32]bool{}
	for i := 0; i < 5; i++ {
		seen[r.Create().Index()] = true
	}
	for i := uint32(0); i < 5; i++ {
		if !seen[i] {
			t.Errorf("index %d not handed out", i)
		}
	}
}

func TestViews(t *testing.T) {
	r := NewRegistry(nil)
	a, b, c := r.Create(), r.Create(), r.Create()
	Add(r, a, position{})
	Add(r, a, velocity{})
	Add(r, b, position{})
	Add(r, c, position{})
	Add(r, c, velocity{})
	Add(r, c, frozen{})

	n := 0
	Each2(r, func(e Entity, p *position, v *velocity) { n++ })
	if n != 2 {
		t.Errorf("Each2 visited %d, want 2", n)
	}
	n = 0
	Each2(r, func(e Entity, p *position, v *velocity) {
		n++
		if e != a {
			t.Errorf("excluded view visited %v", e)
		}
	}, TypeOf[frozen]())
	if n != 1 {
		t.Errorf("Each2 with exclusion visited %d, want 1", n)
	}

	seen := 0
	for range View1[position](r) {
		seen++
	}
	if seen != 3 {
		t.Errorf("View1 visited %d, want 3", seen)
	}

	v := r.View(TypeOf[position](), TypeOf[velocity]())
	if len(v.Collect()) != 2 || len(v.Collect()) != 2 {
		t.Error("view should be restartable")
	}
}

func TestViewSurvivesRemovalDuringIteration(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < 10; i++ {
		Add(r, r.Create(), position{X: float64(i)})
	}
	visited := 0
	for e := range View1[position](r) {
		visited++
		Remove[position](r, e)
	}
	if visited != 10 || Count[position](r) != 0 {
		t.Errorf("visited %d remaining %d, want 10 and 0", visited, Count[position](r))
	}
}

type assets struct{ name string }

func TestContext(t *testing.T) {
	r := NewRegistry(nil)
	if _, ok := TryGetContext[*assets](r); ok {
		t.Error("empty context should miss")
	}
	AddToContext(r, &assets{name: "main"})
	if got := GetContext[*assets](r); got == nil || got.name != "main" {
		t.Errorf("GetContext = %+v", got)
	}
	AddToContext(r, &assets{name: "other"})
	if GetContext[*assets](r).name != "other" {
		t.Error("AddToContext should replace")
	}
	RemoveFromContext[*assets](r)
	if _, ok := TryGetContext[*assets](r); ok {
		t.Error("RemoveFromContext left the entry")
	}
}

func TestFindByNameAndGroup(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateEntity("a", "enemies")
	b := r.CreateEntity("b", "enemies")
	r.CreateEntity("c", "friends")
	if e, ok := r.FindByName("b"); !ok || e != b {
		t.Errorf("FindByName(b) = %v, %v", e, ok)
	}
	if got := len(r.FindByGroup("enemies")); got != 2 {
		t.Errorf("FindByGroup = %d entities, want 2", got)
	}
}
