package ecs

// Handle pairs an entity with its registry for call sites that pass
// entities around, such as scripts and editor tools.
type Handle struct {
	Registry *Registry
	ID       Entity
}

// HandleOf wraps e.
func (r *Registry) HandleOf(e Entity) Handle {
	return Handle{Registry: r, ID: e}
}

func (h Handle) Valid() bool   { return h.Registry != nil && h.Registry.Valid(h.ID) }
func (h Handle) Name() string  { return h.Registry.Name(h.ID) }
func (h Handle) Group() string { return h.Registry.Group(h.ID) }

// Kill queues the entity for destruction at the end of the tick.
func (h Handle) Kill() { h.Registry.Kill(h.ID) }
