// Package physics connects registry entities to a rigid body world.
//
// World is the contract the bridge needs from a physics engine; NewSpace
// provides it on top of Chipmunk2D (github.com/jakecoffman/cp).
package physics

import (
	"errors"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
)

// BodyID names a body inside a World. Zero is never a valid id.
type BodyID uint64

// ErrNoShape is returned when a body definition carries neither a box
// nor a circle.
var ErrNoShape = errors.New("physics: body has no shape")

// BodyDef is the initial state of a body. Center is the world position of
// the shape's center; Angle is in degrees.
type BodyDef struct {
	Type         component.BodyType
	Center       scion.Vec2
	Angle        float64
	Box          scion.Vec2
	Radius       float64
	Density      float64
	Friction     float64
	Restitution  float64
	GravityScale float64
	Sensor       bool
	FixedAngle   bool
	Bullet       bool
	UserData     any
}

// Contact is the user data of the two bodies of the most recent contact.
type Contact struct {
	A, B any
}

// World is a steppable set of rigid bodies.
type World interface {
	CreateBody(def BodyDef) (BodyID, error)
	DestroyBody(id BodyID)
	BodyCount() int

	Step(dt float64)
	ClearForces()

	// Transform returns the center and angle (degrees) of a body.
	Transform(id BodyID) (center scion.Vec2, angle float64, ok bool)
	SetTransform(id BodyID, center scion.Vec2, angle float64)
	Velocity(id BodyID) (scion.Vec2, bool)
	SetVelocity(id BodyID, v scion.Vec2)
	ApplyForce(id BodyID, f scion.Vec2)

	// Touching reports whether the body is in contact with any other.
	Touching(id BodyID) bool
	// TakeContact returns the most recent contact that began since the
	// last call, if any.
	TakeContact() (Contact, bool)
}

// ContactEvent is emitted through the registry's dispatcher when two
// bodies start touching.
type ContactEvent struct {
	A, B component.ObjectData
}
