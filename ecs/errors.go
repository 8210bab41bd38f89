package ecs

import "errors"

var (
	// ErrInvalidEntity is returned for ids that are not alive.
	ErrInvalidEntity = errors.New("ecs: invalid entity")
	// ErrMissingComponent is returned when an entity lacks a component.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrDuplicateComponent is returned when adding a component the entity
	// already has.
	ErrDuplicateComponent = errors.New("ecs: duplicate component")
	// ErrUnknownComponent is returned for catalog names nobody registered.
	ErrUnknownComponent = errors.New("ecs: unknown component")
)
