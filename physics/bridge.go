package physics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// DefaultTimestep is one 60 Hz tick.
const DefaultTimestep = 1.0 / 60.0

type bodyRef struct {
	id BodyID
	// anchor is the body center relative to the transform position.
	anchor scion.Vec2
}

// Bridge keeps Physics components and a World in step. Enable creates a
// body for every physics entity, Step advances the world and dispatches
// contacts, Sync writes body positions back into transforms.
type Bridge struct {
	world World
	log   *zap.Logger

	Timestep float64

	bodies  map[ecs.Entity]bodyRef
	enabled bool
}

// NewBridge wraps w. A non-positive timestep selects DefaultTimestep.
func NewBridge(w World, timestep float64, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	if timestep <= 0 {
		timestep = DefaultTimestep
	}
	return &Bridge{
		world:    w,
		log:      log,
		Timestep: timestep,
		bodies:   make(map[ecs.Entity]bodyRef),
	}
}

func (b *Bridge) World() World  { return b.world }
func (b *Bridge) Enabled() bool { return b.enabled }

// Enable registers every entity carrying Physics and a collider. Entities
// without a box or circle collider are logged and skipped. It returns the
// number of bodies created.
func (b *Bridge) Enable(r *ecs.Registry) int {
	b.enabled = true
	n := 0
	for e := range ecs.View1[component.Physics](r) {
		if _, ok := b.bodies[e]; ok {
			continue
		}
		if err := b.Register(r, e); err != nil {
			b.log.Error("physics: skipping entity",
				zap.Stringer("entity", e),
				zap.String("name", r.Name(e)),
				zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// Disable destroys every body the bridge created.
func (b *Bridge) Disable() {
	for e, ref := range b.bodies {
		b.world.DestroyBody(ref.id)
		delete(b.bodies, e)
	}
	b.enabled = false
}

// Register creates the body of a single entity.
func (b *Bridge) Register(r *ecs.Registry, e ecs.Entity) error {
	p, err := ecs.Get[component.Physics](r, e)
	if err != nil {
		return err
	}
	t, err := ecs.Get[component.Transform](r, e)
	if err != nil {
		return err
	}

	var anchor, box scion.Vec2
	var radius float64
	if c, ok := ecs.TryGet[component.BoxCollider](r, e); ok {
		box = scion.Vec2{X: c.Width * t.Scale.X, Y: c.Height * t.Scale.Y}
		anchor = c.Offset.Add(box.Scale(0.5))
	} else if c, ok := ecs.TryGet[component.CircleCollider](r, e); ok {
		radius = c.Radius * t.Scale.X
		anchor = c.Offset.Add(scion.Vec2{X: radius, Y: radius})
	} else {
		return fmt.Errorf("%w: needs a box or circle collider", ErrNoShape)
	}

	attrs := &p.Attributes
	attrs.ObjectData.EntityID = e
	if attrs.ObjectData.Tag == "" {
		attrs.ObjectData.Tag = r.Name(e)
	}
	if attrs.ObjectData.Group == "" {
		attrs.ObjectData.Group = r.Group(e)
	}
	attrs.BoxSize = box
	attrs.Radius = radius
	attrs.Offset = anchor
	attrs.Position = t.Position.Add(anchor)

	id, err := b.world.CreateBody(BodyDef{
		Type:         attrs.Type,
		Center:       attrs.Position,
		Angle:        t.Rotation,
		Box:          box,
		Radius:       radius,
		Density:      attrs.Density,
		Friction:     attrs.Friction,
		Restitution:  attrs.Restitution,
		GravityScale: attrs.GravityScale,
		Sensor:       attrs.IsSensor,
		FixedAngle:   attrs.IsFixedRotation,
		Bullet:       attrs.IsBullet,
		UserData:     attrs.ObjectData,
	})
	if err != nil {
		return err
	}
	p.BodyID = uint64(id)
	b.bodies[e] = bodyRef{id: id, anchor: anchor}
	return nil
}

// Step advances the world one timestep and clears accumulated forces.
// When a ContactEvent handler is registered on the registry's dispatcher,
// the latest contact is emitted.
func (b *Bridge) Step(r *ecs.Registry) {
	if !b.enabled {
		return
	}
	b.world.Step(b.Timestep)
	b.world.ClearForces()

	contact, ok := b.world.TakeContact()
	if !ok {
		return
	}
	d, found := ecs.TryGetContext[*ecs.Dispatcher](r)
	if !found || d == nil || !ecs.HasHandlers[ContactEvent](d) {
		return
	}
	a, okA := contact.A.(component.ObjectData)
	c, okB := contact.B.(component.ObjectData)
	if !okA || !okB {
		b.log.Error("physics: contact user data is not object data",
			zap.String("a", fmt.Sprintf("%T", contact.A)),
			zap.String("b", fmt.Sprintf("%T", contact.B)))
		return
	}
	ecs.Emit(d, ContactEvent{A: a, B: c})
}

// Sync copies body positions into the transforms of moving bodies,
// updates collider contact flags and drops bodies whose entity is gone.
func (b *Bridge) Sync(r *ecs.Registry) {
	for e, ref := range b.bodies {
		p, ok := ecs.TryGet[component.Physics](r, e)
		if !r.Valid(e) || !ok {
			b.world.DestroyBody(ref.id)
			delete(b.bodies, e)
			continue
		}
		touching := b.world.Touching(ref.id)
		if c, ok := ecs.TryGet[component.BoxCollider](r, e); ok {
			c.Colliding = touching
		}
		if c, ok := ecs.TryGet[component.CircleCollider](r, e); ok {
			c.Colliding = touching
		}
		if p.Attributes.Type == component.BodyStatic {
			continue
		}
		center, angle, ok := b.world.Transform(ref.id)
		if !ok {
			continue
		}
		p.Attributes.Position = center
		if t, ok := ecs.TryGet[component.Transform](r, e); ok {
			t.Position = center.Sub(ref.anchor)
			t.Rotation = angle
		}
	}
}

// Body returns the body of e.
func (b *Bridge) Body(e ecs.Entity) (BodyID, bool) {
	ref, ok := b.bodies[e]
	return ref.id, ok
}

// Len returns the number of registered bodies.
func (b *Bridge) Len() int {
	return len(b.bodies)
}

// SetVelocity sets the linear velocity of e's body.
func (b *Bridge) SetVelocity(e ecs.Entity, v scion.Vec2) bool {
	ref, ok := b.bodies[e]
	if ok {
		b.world.SetVelocity(ref.id, v)
	}
	return ok
}

// Velocity returns the linear velocity of e's body.
func (b *Bridge) Velocity(e ecs.Entity) (scion.Vec2, bool) {
	ref, ok := b.bodies[e]
	if !ok {
		return scion.Vec2{}, false
	}
	return b.world.Velocity(ref.id)
}

// ApplyForce pushes e's body through its center until the next step.
func (b *Bridge) ApplyForce(e ecs.Entity, f scion.Vec2) bool {
	ref, ok := b.bodies[e]
	if ok {
		b.world.ApplyForce(ref.id, f)
	}
	return ok
}

// SetPosition teleports e's body so that its transform lands at pos.
func (b *Bridge) SetPosition(e ecs.Entity, pos scion.Vec2) bool {
	ref, ok := b.bodies[e]
	if !ok {
		return false
	}
	_, angle, _ := b.world.Transform(ref.id)
	b.world.SetTransform(ref.id, pos.Add(ref.anchor), angle)
	return true
}
