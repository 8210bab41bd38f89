// Package component defines the engine's components and registers them in
// an ecs.Catalog so scripts and scene files can address them by name.
package component

import (
	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/ecs"
)

// Identification is the registry's naming component.
type Identification = ecs.Identification

// Transform places an entity in world space. Rotation is in degrees and
// turns around the center of the entity's sprite.
type Transform struct {
	Position scion.Vec2
	Scale    scion.Vec2
	Rotation float64
}

// NewTransform returns a transform at pos with unit scale.
func NewTransform(pos scion.Vec2) Transform {
	return Transform{Position: pos, Scale: scion.Vec2{X: 1, Y: 1}}
}

// SetDefaults resets the transform to unit scale.
func (t *Transform) SetDefaults() {
	t.Scale = scion.Vec2{X: 1, Y: 1}
}

// Sprite draws a region of a texture. StartX/StartY address the region in
// cells of Width x Height pixels.
type Sprite struct {
	Width, Height  float64
	UVs            scion.Rect
	Color          scion.Color
	StartX, StartY int
	Layer          int
	Hidden         bool
	Texture        string
}

// GenerateUVs derives the normalized texture region from the cell size,
// the start cell and the texture dimensions.
func (s *Sprite) GenerateUVs(texWidth, texHeight float64) {
	if texWidth <= 0 || texHeight <= 0 {
		return
	}
	s.UVs.Width = s.Width / texWidth
	s.UVs.Height = s.Height / texHeight
	s.UVs.X = float64(s.StartX) * s.UVs.Width
	s.UVs.Y = float64(s.StartY) * s.UVs.Height
}

func (s *Sprite) SetDefaults() {
	s.Color = scion.ColorWhite
}

// Animation steps a sprite through a strip of frames.
type Animation struct {
	NumFrames    int
	FrameRate    int
	FrameOffset  int
	CurrentFrame int
	StartTime    int64
	Vertical     bool
	Looped       bool
}

// BoxCollider is an axis-aligned box relative to the transform position.
type BoxCollider struct {
	Width, Height float64
	Offset        scion.Vec2
	Colliding     bool
}

// CircleCollider is a circle whose bounding box starts at the transform
// position plus Offset.
type CircleCollider struct {
	Radius    float64
	Offset    scion.Vec2
	Colliding bool
}

// RigidBody carries kinematic velocity for script-driven movement.
type RigidBody struct {
	Velocity    scion.Vec2
	MaxVelocity scion.Vec2
}

// Text draws a string with a named font.
type Text struct {
	Text    string
	Font    string
	Padding float64
	Wrap    float64
	Hidden  bool
	Color   scion.Color
}

// BodyType selects how the physics world treats a body.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

// PhysicsAttributes describes the body created for an entity when physics
// is enabled.
type PhysicsAttributes struct {
	Type            BodyType
	Density         float64
	Friction        float64
	Restitution     float64
	GravityScale    float64
	Radius          float64
	BoxSize         scion.Vec2
	Offset          scion.Vec2
	IsSensor        bool
	IsFixedRotation bool
	IsBullet        bool
	Position        scion.Vec2
	ObjectData      ObjectData
}

// ObjectData identifies both sides of a contact.
type ObjectData struct {
	Tag      string
	Group    string
	EntityID ecs.Entity
}

// Physics binds an entity to a physics body. BodyID is set by the physics
// bridge when the body is created.
type Physics struct {
	Attributes PhysicsAttributes
	BodyID     uint64
}

// SetDefaults makes a dynamic body of unit density under full gravity.
func (p *Physics) SetDefaults() {
	p.Attributes.Type = BodyDynamic
	p.Attributes.Density = 1
	p.Attributes.GravityScale = 1
}

// Tile marks an entity as part of a tile layer.
type Tile struct {
	ID int
}

// UIType distinguishes screen-space entities.
type UIType int

const (
	UIPanel UIType = iota
	UIButton
	UILabel
)

// UI marks an entity as screen-space. UI entities are drawn by the UI
// system with a camera fixed at the origin.
type UI struct {
	Type UIType
}
