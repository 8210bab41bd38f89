package ecs

import (
	"iter"
	"reflect"
)

// TypeOf returns the store key for component type T, for use with View and
// exclusion lists.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// View1 iterates entities having component A. Dense storage is walked back
// to front, so removing the current entity's A during iteration is safe.
// The sequence is restartable.
func View1[A any](r *Registry, exclude ...reflect.Type) iter.Seq2[Entity, *A] {
	return func(yield func(Entity, *A) bool) {
		s := lookupStore[A](r)
		if s == nil {
			return
		}
		for i := s.len() - 1; i >= 0; i-- {
			if i >= s.len() {
				continue
			}
			e := s.entities[i]
			if r.excluded(e, exclude) {
				continue
			}
			if !yield(e, s.data[i]) {
				return
			}
		}
	}
}

// Each2 calls fn for every entity having both A and B. It walks the smaller
// store and checks the other.
func Each2[A, B any](r *Registry, fn func(Entity, *A, *B), exclude ...reflect.Type) {
	sa, sb := lookupStore[A](r), lookupStore[B](r)
	if sa == nil || sb == nil {
		return
	}
	for e := range r.View(TypeOf[A](), TypeOf[B]()).Without(exclude...).All() {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		fn(e, a, b)
	}
}

// Each3 calls fn for every entity having A, B and C.
func Each3[A, B, C any](r *Registry, fn func(Entity, *A, *B, *C), exclude ...reflect.Type) {
	sa, sb, sc := lookupStore[A](r), lookupStore[B](r), lookupStore[C](r)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for e := range r.View(TypeOf[A](), TypeOf[B](), TypeOf[C]()).Without(exclude...).All() {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		c, _ := sc.get(e)
		fn(e, a, b, c)
	}
}

// View is a lazy query over entities that have every included component
// and none of the excluded ones.
type View struct {
	r       *Registry
	include []reflect.Type
	exclude []reflect.Type
}

// View builds a query over the given component types.
func (r *Registry) View(types ...reflect.Type) View {
	return View{r: r, include: types}
}

// ViewNames builds a query from catalog names, as scripts do. Unknown names
// yield ErrUnknownComponent.
func (r *Registry) ViewNames(names ...string) (View, error) {
	types := make([]reflect.Type, 0, len(names))
	for _, n := range names {
		d, ok := r.catalog.Lookup(n)
		if !ok {
			return View{}, r.violation(fmtUnknown(n))
		}
		types = append(types, d.Type)
	}
	return r.View(types...), nil
}

// Without returns a copy of v that skips entities having any of types.
func (v View) Without(types ...reflect.Type) View {
	v.exclude = append(append([]reflect.Type(nil), v.exclude...), types...)
	return v
}

// All iterates matching entities in the storage order of the smallest
// included store, back to front.
func (v View) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if len(v.include) == 0 {
			return
		}
		var lead store
		others := make([]store, 0, len(v.include)-1)
		for _, t := range v.include {
			s, ok := v.r.stores[t]
			if !ok {
				return
			}
			if lead == nil || s.len() < lead.len() {
				if lead != nil {
					others = append(others, lead)
				}
				lead = s
			} else {
				others = append(others, s)
			}
		}
	outer:
		for i := lead.len() - 1; i >= 0; i-- {
			if i >= lead.len() {
				continue
			}
			e := lead.entityAt(i)
			for _, s := range others {
				if !s.has(e) {
					continue outer
				}
			}
			if v.r.excluded(e, v.exclude) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Collect returns the matching entities as a slice.
func (v View) Collect() []Entity {
	var out []Entity
	for e := range v.All() {
		out = append(out, e)
	}
	return out
}

func (r *Registry) excluded(e Entity, types []reflect.Type) bool {
	for _, t := range types {
		if s, ok := r.stores[t]; ok && s.has(e) {
			return true
		}
	}
	return false
}
