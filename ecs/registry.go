package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Identification names an entity. Every entity created through
// CreateEntity carries one.
type Identification struct {
	Name     string
	Group    string
	EntityID Entity
}

// Registry owns every entity and component of a scene.
type Registry struct {
	log     *zap.Logger
	strict  bool
	pool    entityPool
	stores  map[reflect.Type]store
	order   []store
	context map[reflect.Type]any
	catalog *Catalog

	pending   []Entity
	isPending map[Entity]bool
	onDestroy []func(Entity)
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:       log,
		stores:    make(map[reflect.Type]store, 16),
		context:   make(map[reflect.Type]any, 8),
		catalog:   NewCatalog(),
		isPending: make(map[Entity]bool),
	}
}

// SetStrict makes contract violations panic instead of logging. Tests and
// debug builds turn it on.
func (r *Registry) SetStrict(strict bool) {
	r.strict = strict
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger {
	return r.log
}

// Catalog returns the component descriptors known to this registry.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// SetCatalog replaces the catalog.
func (r *Registry) SetCatalog(c *Catalog) {
	r.catalog = c
}

// violation reports a contract violation and returns err for the caller.
func (r *Registry) violation(err error, fields ...zap.Field) error {
	if r.strict {
		panic(err)
	}
	r.log.Error(err.Error(), append(fields, zap.Stack("stack"))...)
	return err
}

// --- Entities ---

// Create allocates an anonymous entity.
func (r *Registry) Create() Entity {
	return r.pool.create()
}

// CreateEntity allocates an entity and attaches an Identification.
func (r *Registry) CreateEntity(name, group string) Entity {
	e := r.pool.create()
	r.attachID(e, name, group)
	return e
}

// CreateWithID revives an entity at exactly the given id, as undo does for
// a previously killed entity. It fails if the id is currently alive.
func (r *Registry) CreateWithID(e Entity) (Entity, error) {
	if e == Null || !r.pool.createWithID(e) {
		return Null, r.violation(fmt.Errorf("%w: %s already alive", ErrInvalidEntity, e), zap.Stringer("entity", e))
	}
	return e, nil
}

func (r *Registry) attachID(e Entity, name, group string) {
	s := storeFor[Identification](r)
	s.insert(e, &Identification{Name: name, Group: group, EntityID: e})
}

// Valid reports whether e is alive. Killed entities stay valid until Flush.
func (r *Registry) Valid(e Entity) bool {
	return r.pool.valid(e)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.pool.count
}

// Kill marks e for destruction at the next Flush.
func (r *Registry) Kill(e Entity) {
	if !r.pool.valid(e) {
		r.violation(fmt.Errorf("%w: kill %s", ErrInvalidEntity, e), zap.Stringer("entity", e))
		return
	}
	if r.isPending[e] {
		return
	}
	r.isPending[e] = true
	r.pending = append(r.pending, e)
}

// Killed reports whether e is waiting for Flush.
func (r *Registry) Killed(e Entity) bool {
	return r.isPending[e]
}

// OnDestroy registers fn to run for every entity purged by Flush, before its
// components are removed.
func (r *Registry) OnDestroy(fn func(Entity)) {
	r.onDestroy = append(r.onDestroy, fn)
}

// Flush destroys every killed entity, in kill order, and recycles the ids.
// It returns the number of entities purged.
func (r *Registry) Flush() int {
	n := 0
	// Hooks may kill more entities; keep going until the queue drains.
	for len(r.pending) > 0 {
		batch := r.pending
		r.pending = nil
		for _, e := range batch {
			delete(r.isPending, e)
			if !r.pool.valid(e) {
				continue
			}
			for _, fn := range r.onDestroy {
				fn(e)
			}
			r.DestroyNow(e)
			n++
		}
	}
	return n
}

// DestroyNow removes e and its components immediately. Systems iterating a
// view must use Kill instead.
func (r *Registry) DestroyNow(e Entity) {
	for _, s := range r.order {
		s.remove(e)
	}
	r.pool.destroy(e)
}

// Clear destroys every entity without running OnDestroy hooks.
func (r *Registry) Clear() {
	for _, s := range r.order {
		for s.len() > 0 {
			s.remove(s.entityAt(s.len() - 1))
		}
	}
	r.pool = entityPool{}
	r.pending = nil
	clear(r.isPending)
}

// Entities returns all live entities in index order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, r.pool.count)
	for i, alive := range r.pool.alive {
		if alive {
			out = append(out, NewEntity(uint32(i), r.pool.generations[i]))
		}
	}
	return out
}

// EntityAt returns the live entity occupying index, as decoded from a
// picking buffer.
func (r *Registry) EntityAt(index uint32) (Entity, bool) {
	if int(index) >= len(r.pool.alive) || !r.pool.alive[index] {
		return Null, false
	}
	return NewEntity(index, r.pool.generations[index]), true
}

// Name returns the Identification name of e, or "".
func (r *Registry) Name(e Entity) string {
	if id, ok := TryGet[Identification](r, e); ok {
		return id.Name
	}
	return ""
}

// Group returns the Identification group of e, or "".
func (r *Registry) Group(e Entity) string {
	if id, ok := TryGet[Identification](r, e); ok {
		return id.Group
	}
	return ""
}

// FindByName returns the first entity with the given name.
func (r *Registry) FindByName(name string) (Entity, bool) {
	for e, id := range View1[Identification](r) {
		if id.Name == name {
			return e, true
		}
	}
	return Null, false
}

// FindByGroup returns every entity in group.
func (r *Registry) FindByGroup(group string) []Entity {
	var out []Entity
	for e, id := range View1[Identification](r) {
		if id.Group == group {
			out = append(out, e)
		}
	}
	return out
}

// --- Components ---

func storeFor[T any](r *Registry) *sparseSet[T] {
	t := reflect.TypeFor[T]()
	if s, ok := r.stores[t]; ok {
		return s.(*sparseSet[T])
	}
	s := newSparseSet[T]()
	r.stores[t] = s
	r.order = append(r.order, s)
	return s
}

func lookupStore[T any](r *Registry) *sparseSet[T] {
	if s, ok := r.stores[reflect.TypeFor[T]()]; ok {
		return s.(*sparseSet[T])
	}
	return nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Add attaches c to e and returns a pointer to the stored copy.
func Add[T any](r *Registry, e Entity, c T) (*T, error) {
	if !r.pool.valid(e) {
		return nil, r.violation(fmt.Errorf("%w: add %s to %s", ErrInvalidEntity, typeName[T](), e),
			zap.Stringer("entity", e))
	}
	s := storeFor[T](r)
	if s.has(e) {
		return nil, r.violation(fmt.Errorf("%w: %s already has %s", ErrDuplicateComponent, e, typeName[T]()),
			zap.Stringer("entity", e))
	}
	p := new(T)
	*p = c
	s.insert(e, p)
	return p, nil
}

// Set attaches or overwrites c on e.
func Set[T any](r *Registry, e Entity, c T) (*T, error) {
	if p, ok := TryGet[T](r, e); ok {
		*p = c
		return p, nil
	}
	return Add(r, e, c)
}

// Get returns e's component of type T. A missing component is a contract
// violation; use TryGet when absence is expected.
func Get[T any](r *Registry, e Entity) (*T, error) {
	if !r.pool.valid(e) {
		return nil, r.violation(fmt.Errorf("%w: get %s from %s", ErrInvalidEntity, typeName[T](), e),
			zap.Stringer("entity", e))
	}
	if s := lookupStore[T](r); s != nil {
		if c, ok := s.get(e); ok {
			return c, nil
		}
	}
	return nil, r.violation(fmt.Errorf("%w: %s has no %s", ErrMissingComponent, e, typeName[T]()),
		zap.Stringer("entity", e))
}

// TryGet returns e's component of type T without reporting absence.
func TryGet[T any](r *Registry, e Entity) (*T, bool) {
	if !r.pool.valid(e) {
		return nil, false
	}
	s := lookupStore[T](r)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

// Has reports whether e has a component of type T.
func Has[T any](r *Registry, e Entity) bool {
	_, ok := TryGet[T](r, e)
	return ok
}

// Remove detaches e's component of type T.
func Remove[T any](r *Registry, e Entity) error {
	if !r.pool.valid(e) {
		return r.violation(fmt.Errorf("%w: remove %s from %s", ErrInvalidEntity, typeName[T](), e),
			zap.Stringer("entity", e))
	}
	s := lookupStore[T](r)
	if s == nil || !s.remove(e) {
		return r.violation(fmt.Errorf("%w: %s has no %s", ErrMissingComponent, e, typeName[T]()),
			zap.Stringer("entity", e))
	}
	return nil
}

// Count returns how many entities have a component of type T.
func Count[T any](r *Registry) int {
	if s := lookupStore[T](r); s != nil {
		return s.len()
	}
	return 0
}

// --- Context ---

// AddToContext stores v as the registry's single instance of T, replacing
// any previous one.
func AddToContext[T any](r *Registry, v T) {
	r.context[reflect.TypeFor[T]()] = v
}

// GetContext returns the instance of T. A missing entry is a contract
// violation and yields the zero value.
func GetContext[T any](r *Registry) T {
	v, ok := TryGetContext[T](r)
	if !ok {
		r.violation(fmt.Errorf("ecs: context has no %s", typeName[T]()))
	}
	return v
}

// TryGetContext returns the instance of T if present.
func TryGetContext[T any](r *Registry) (T, bool) {
	v, ok := r.context[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// RemoveFromContext drops the instance of T.
func RemoveFromContext[T any](r *Registry) {
	delete(r.context, reflect.TypeFor[T]())
}
