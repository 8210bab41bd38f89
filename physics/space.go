package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
)

const bodyCollisionType cp.CollisionType = 1

// Space is a World backed by a Chipmunk2D space.
type Space struct {
	space  *cp.Space
	bodies map[BodyID]*cp.Body
	touch  map[*cp.Body]int
	nextID BodyID

	contact    Contact
	hasContact bool
}

// NewSpace creates an empty space with the given gravity in units per
// second squared.
func NewSpace(gravity scion.Vec2) *Space {
	s := &Space{
		space:  cp.NewSpace(),
		bodies: make(map[BodyID]*cp.Body),
		touch:  make(map[*cp.Body]int),
	}
	s.space.SetGravity(vec(gravity))

	h := s.space.NewCollisionHandler(bodyCollisionType, bodyCollisionType)
	h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		a, b := arb.Shapes()
		s.touch[a.Body()]++
		s.touch[b.Body()]++
		s.contact = Contact{A: a.Body().UserData, B: b.Body().UserData}
		s.hasContact = true
		return true
	}
	h.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		a, b := arb.Shapes()
		s.untouch(a.Body())
		s.untouch(b.Body())
	}
	return s
}

func (s *Space) untouch(b *cp.Body) {
	if n := s.touch[b]; n > 1 {
		s.touch[b] = n - 1
		return
	}
	delete(s.touch, b)
}

// Gravity returns the space gravity.
func (s *Space) Gravity() scion.Vec2 {
	g := s.space.Gravity()
	return scion.Vec2{X: g.X, Y: g.Y}
}

func (s *Space) CreateBody(def BodyDef) (BodyID, error) {
	if def.Radius <= 0 && (def.Box.X <= 0 || def.Box.Y <= 0) {
		return 0, ErrNoShape
	}

	var body *cp.Body
	switch def.Type {
	case component.BodyStatic:
		body = cp.NewStaticBody()
	case component.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewBody(0, 0)
	}
	body.SetPosition(vec(def.Center))
	body.SetAngle(def.Angle * math.Pi / 180)
	body.UserData = def.UserData
	s.space.AddBody(body)

	var shape *cp.Shape
	if def.Radius > 0 {
		shape = cp.NewCircle(body, def.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, def.Box.X, def.Box.Y, 0)
	}
	density := def.Density
	if density <= 0 {
		density = 1
	}
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Restitution)
	shape.SetSensor(def.Sensor)
	shape.SetCollisionType(bodyCollisionType)
	s.space.AddShape(shape)
	if def.Type == component.BodyDynamic {
		shape.SetDensity(density)
		if def.FixedAngle {
			body.SetMoment(cp.INFINITY)
		}
		if def.GravityScale != 1 {
			scale := def.GravityScale
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
				cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
			})
		}
	}

	s.nextID++
	s.bodies[s.nextID] = body
	return s.nextID, nil
}

func (s *Space) DestroyBody(id BodyID) {
	body, ok := s.bodies[id]
	if !ok {
		return
	}
	var shapes []*cp.Shape
	body.EachShape(func(shape *cp.Shape) { shapes = append(shapes, shape) })
	for _, shape := range shapes {
		s.space.RemoveShape(shape)
	}
	s.space.RemoveBody(body)
	delete(s.bodies, id)
	delete(s.touch, body)
}

func (s *Space) BodyCount() int {
	return len(s.bodies)
}

func (s *Space) Step(dt float64) {
	s.space.Step(dt)
}

func (s *Space) ClearForces() {
	for _, b := range s.bodies {
		b.SetForce(cp.Vector{})
		b.SetTorque(0)
	}
}

func (s *Space) Transform(id BodyID) (scion.Vec2, float64, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return scion.Vec2{}, 0, false
	}
	p := b.Position()
	return scion.Vec2{X: p.X, Y: p.Y}, b.Angle() * 180 / math.Pi, true
}

func (s *Space) SetTransform(id BodyID, center scion.Vec2, angle float64) {
	if b, ok := s.bodies[id]; ok {
		b.SetPosition(vec(center))
		b.SetAngle(angle * math.Pi / 180)
		s.space.ReindexShapesForBody(b)
	}
}

func (s *Space) Velocity(id BodyID) (scion.Vec2, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return scion.Vec2{}, false
	}
	v := b.Velocity()
	return scion.Vec2{X: v.X, Y: v.Y}, true
}

func (s *Space) SetVelocity(id BodyID, v scion.Vec2) {
	if b, ok := s.bodies[id]; ok {
		b.SetVelocityVector(vec(v))
	}
}

func (s *Space) ApplyForce(id BodyID, f scion.Vec2) {
	if b, ok := s.bodies[id]; ok {
		b.ApplyForceAtWorldPoint(vec(f), b.Position())
	}
}

func (s *Space) Touching(id BodyID) bool {
	b, ok := s.bodies[id]
	return ok && s.touch[b] > 0
}

func (s *Space) TakeContact() (Contact, bool) {
	if !s.hasContact {
		return Contact{}, false
	}
	c := s.contact
	s.contact, s.hasContact = Contact{}, false
	return c, true
}

func vec(v scion.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
