// Package ecs is the entity/component registry.
//
// Entities are generational ids. Components are plain structs stored in one
// sparse set per type and accessed through the generic helpers [Add], [Get],
// [TryGet], [Has] and [Remove]. Destruction is deferred: [Registry.Kill]
// queues an entity and [Registry.Flush] purges the queue once per tick.
//
// The registry also owns a type-keyed context of shared services
// ([AddToContext], [GetContext]) and a [Catalog] of component descriptors
// that lets scripts and scene files build and edit components by name.
//
// Events are routed through a [Dispatcher] backed by [Donburi] event types.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
