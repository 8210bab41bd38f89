package ecs

import "reflect"

// store is the type-erased face of a component sparse set.
type store interface {
	has(e Entity) bool
	remove(e Entity) bool
	len() int
	entityAt(i int) Entity
	getAny(e Entity) (any, bool)
	componentType() reflect.Type
}

const absent = -1

// sparseSet maps entity indices to a dense array of component pointers.
// Pointers stay valid until the component is removed.
type sparseSet[T any] struct {
	sparse   []int32
	entities []Entity
	data     []*T
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) slot(e Entity) int {
	idx := int(e.Index())
	if idx >= len(s.sparse) {
		return absent
	}
	i := int(s.sparse[idx])
	if i == absent || s.entities[i] != e {
		return absent
	}
	return i
}

func (s *sparseSet[T]) has(e Entity) bool {
	return s.slot(e) != absent
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	i := s.slot(e)
	if i == absent {
		return nil, false
	}
	return s.data[i], true
}

func (s *sparseSet[T]) getAny(e Entity) (any, bool) {
	c, ok := s.get(e)
	return c, ok
}

func (s *sparseSet[T]) insert(e Entity, c *T) {
	idx := int(e.Index())
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, absent)
	}
	s.sparse[idx] = int32(len(s.entities))
	s.entities = append(s.entities, e)
	s.data = append(s.data, c)
}

// remove swaps the last element into the removed slot.
func (s *sparseSet[T]) remove(e Entity) bool {
	i := s.slot(e)
	if i == absent {
		return false
	}
	last := len(s.entities) - 1
	moved := s.entities[last]
	s.entities[i] = moved
	s.data[i] = s.data[last]
	s.sparse[moved.Index()] = int32(i)
	s.sparse[e.Index()] = absent
	s.data[last] = nil
	s.entities = s.entities[:last]
	s.data = s.data[:last]
	return true
}

func (s *sparseSet[T]) len() int              { return len(s.entities) }
func (s *sparseSet[T]) entityAt(i int) Entity { return s.entities[i] }

func (s *sparseSet[T]) componentType() reflect.Type {
	return reflect.TypeFor[T]()
}
