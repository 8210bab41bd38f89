package component

import (
	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/ecs"
)

// Catalog names.
const (
	NameTransform      = "transform"
	NameSprite         = "sprite"
	NameAnimation      = "animation"
	NameBoxCollider    = "box_collider"
	NameCircleCollider = "circle_collider"
	NameRigidBody      = "rigid_body"
	NameText           = "text"
	NamePhysics        = "physics"
	NameTile           = "tile"
	NameID             = "id"
	NameUI             = "ui"
)

var bodyTypeNames = map[BodyType]string{
	BodyStatic:    "static",
	BodyKinematic: "kinematic",
	BodyDynamic:   "dynamic",
}

func (t BodyType) String() string { return bodyTypeNames[t] }

// ParseBodyType maps "static", "kinematic" or "dynamic" to a BodyType.
// Unknown names are static.
func ParseBodyType(s string) BodyType {
	for t, n := range bodyTypeNames {
		if n == s {
			return t
		}
	}
	return BodyStatic
}

var uiTypeNames = map[UIType]string{
	UIPanel:  "panel",
	UIButton: "button",
	UILabel:  "label",
}

func (t UIType) String() string { return uiTypeNames[t] }

func parseUIType(s string) UIType {
	for t, n := range uiTypeNames {
		if n == s {
			return t
		}
	}
	return UIPanel
}

// NewCatalog returns a catalog with every engine component registered.
func NewCatalog() *ecs.Catalog {
	c := ecs.NewCatalog()
	RegisterAll(c)
	return c
}

// RegisterAll adds every engine component to c.
func RegisterAll(c *ecs.Catalog) {
	ecs.Register[Transform](c, NameTransform,
		ecs.FieldOf("position", func(t *Transform) scion.Vec2 { return t.Position }, func(t *Transform, v scion.Vec2) { t.Position = v }),
		ecs.FieldOf("scale", func(t *Transform) scion.Vec2 { return t.Scale }, func(t *Transform, v scion.Vec2) { t.Scale = v }),
		ecs.FieldOf("rotation", func(t *Transform) float64 { return t.Rotation }, func(t *Transform, v float64) { t.Rotation = v }),
	)

	ecs.Register[Sprite](c, NameSprite,
		ecs.FieldOf("width", func(s *Sprite) float64 { return s.Width }, func(s *Sprite, v float64) { s.Width = v }),
		ecs.FieldOf("height", func(s *Sprite) float64 { return s.Height }, func(s *Sprite, v float64) { s.Height = v }),
		ecs.FieldOf("start_x", func(s *Sprite) int { return s.StartX }, func(s *Sprite, v int) { s.StartX = v }),
		ecs.FieldOf("start_y", func(s *Sprite) int { return s.StartY }, func(s *Sprite, v int) { s.StartY = v }),
		ecs.FieldOf("layer", func(s *Sprite) int { return s.Layer }, func(s *Sprite, v int) { s.Layer = v }),
		ecs.FieldOf("hidden", func(s *Sprite) bool { return s.Hidden }, func(s *Sprite, v bool) { s.Hidden = v }),
		ecs.FieldOf("texture", func(s *Sprite) string { return s.Texture }, func(s *Sprite, v string) { s.Texture = v }),
		ecs.FieldOf("color", func(s *Sprite) scion.Color { return s.Color }, func(s *Sprite, v scion.Color) { s.Color = v }),
		ecs.FieldOf("uv_x", func(s *Sprite) float64 { return s.UVs.X }, func(s *Sprite, v float64) { s.UVs.X = v }),
		ecs.FieldOf("uv_y", func(s *Sprite) float64 { return s.UVs.Y }, func(s *Sprite, v float64) { s.UVs.Y = v }),
		ecs.FieldOf("uv_width", func(s *Sprite) float64 { return s.UVs.Width }, func(s *Sprite, v float64) { s.UVs.Width = v }),
		ecs.FieldOf("uv_height", func(s *Sprite) float64 { return s.UVs.Height }, func(s *Sprite, v float64) { s.UVs.Height = v }),
	)

	ecs.Register[Animation](c, NameAnimation,
		ecs.FieldOf("num_frames", func(a *Animation) int { return a.NumFrames }, func(a *Animation, v int) { a.NumFrames = v }),
		ecs.FieldOf("frame_rate", func(a *Animation) int { return a.FrameRate }, func(a *Animation, v int) { a.FrameRate = v }),
		ecs.FieldOf("frame_offset", func(a *Animation) int { return a.FrameOffset }, func(a *Animation, v int) { a.FrameOffset = v }),
		ecs.FieldOf("current_frame", func(a *Animation) int { return a.CurrentFrame }, func(a *Animation, v int) { a.CurrentFrame = v }),
		ecs.FieldOf("vertical", func(a *Animation) bool { return a.Vertical }, func(a *Animation, v bool) { a.Vertical = v }),
		ecs.FieldOf("looped", func(a *Animation) bool { return a.Looped }, func(a *Animation, v bool) { a.Looped = v }),
	)

	ecs.Register[BoxCollider](c, NameBoxCollider,
		ecs.FieldOf("width", func(b *BoxCollider) float64 { return b.Width }, func(b *BoxCollider, v float64) { b.Width = v }),
		ecs.FieldOf("height", func(b *BoxCollider) float64 { return b.Height }, func(b *BoxCollider, v float64) { b.Height = v }),
		ecs.FieldOf("offset", func(b *BoxCollider) scion.Vec2 { return b.Offset }, func(b *BoxCollider, v scion.Vec2) { b.Offset = v }),
		ecs.FieldOf("colliding", func(b *BoxCollider) bool { return b.Colliding }, func(b *BoxCollider, v bool) { b.Colliding = v }),
	)

	ecs.Register[CircleCollider](c, NameCircleCollider,
		ecs.FieldOf("radius", func(cc *CircleCollider) float64 { return cc.Radius }, func(cc *CircleCollider, v float64) { cc.Radius = v }),
		ecs.FieldOf("offset", func(cc *CircleCollider) scion.Vec2 { return cc.Offset }, func(cc *CircleCollider, v scion.Vec2) { cc.Offset = v }),
		ecs.FieldOf("colliding", func(cc *CircleCollider) bool { return cc.Colliding }, func(cc *CircleCollider, v bool) { cc.Colliding = v }),
	)

	ecs.Register[RigidBody](c, NameRigidBody,
		ecs.FieldOf("velocity", func(r *RigidBody) scion.Vec2 { return r.Velocity }, func(r *RigidBody, v scion.Vec2) { r.Velocity = v }),
		ecs.FieldOf("max_velocity", func(r *RigidBody) scion.Vec2 { return r.MaxVelocity }, func(r *RigidBody, v scion.Vec2) { r.MaxVelocity = v }),
	)

	ecs.Register[Text](c, NameText,
		ecs.FieldOf("text", func(t *Text) string { return t.Text }, func(t *Text, v string) { t.Text = v }),
		ecs.FieldOf("font", func(t *Text) string { return t.Font }, func(t *Text, v string) { t.Font = v }),
		ecs.FieldOf("padding", func(t *Text) float64 { return t.Padding }, func(t *Text, v float64) { t.Padding = v }),
		ecs.FieldOf("wrap", func(t *Text) float64 { return t.Wrap }, func(t *Text, v float64) { t.Wrap = v }),
		ecs.FieldOf("hidden", func(t *Text) bool { return t.Hidden }, func(t *Text, v bool) { t.Hidden = v }),
		ecs.FieldOf("color", func(t *Text) scion.Color { return t.Color }, func(t *Text, v scion.Color) { t.Color = v }),
	)

	ecs.Register[Physics](c, NamePhysics,
		ecs.FieldOf("type", func(p *Physics) string { return p.Attributes.Type.String() }, func(p *Physics, v string) { p.Attributes.Type = ParseBodyType(v) }),
		ecs.FieldOf("density", func(p *Physics) float64 { return p.Attributes.Density }, func(p *Physics, v float64) { p.Attributes.Density = v }),
		ecs.FieldOf("friction", func(p *Physics) float64 { return p.Attributes.Friction }, func(p *Physics, v float64) { p.Attributes.Friction = v }),
		ecs.FieldOf("restitution", func(p *Physics) float64 { return p.Attributes.Restitution }, func(p *Physics, v float64) { p.Attributes.Restitution = v }),
		ecs.FieldOf("gravity_scale", func(p *Physics) float64 { return p.Attributes.GravityScale }, func(p *Physics, v float64) { p.Attributes.GravityScale = v }),
		ecs.FieldOf("is_sensor", func(p *Physics) bool { return p.Attributes.IsSensor }, func(p *Physics, v bool) { p.Attributes.IsSensor = v }),
		ecs.FieldOf("is_fixed_rotation", func(p *Physics) bool { return p.Attributes.IsFixedRotation }, func(p *Physics, v bool) { p.Attributes.IsFixedRotation = v }),
		ecs.FieldOf("is_bullet", func(p *Physics) bool { return p.Attributes.IsBullet }, func(p *Physics, v bool) { p.Attributes.IsBullet = v }),
		ecs.FieldOf("tag", func(p *Physics) string { return p.Attributes.ObjectData.Tag }, func(p *Physics, v string) { p.Attributes.ObjectData.Tag = v }),
		ecs.FieldOf("group", func(p *Physics) string { return p.Attributes.ObjectData.Group }, func(p *Physics, v string) { p.Attributes.ObjectData.Group = v }),
	)

	ecs.Register[Tile](c, NameTile,
		ecs.FieldOf("id", func(t *Tile) int { return t.ID }, func(t *Tile, v int) { t.ID = v }),
	)

	ecs.Register[Identification](c, NameID,
		ecs.FieldOf("name", func(i *Identification) string { return i.Name }, func(i *Identification, v string) { i.Name = v }),
		ecs.FieldOf("group", func(i *Identification) string { return i.Group }, func(i *Identification, v string) { i.Group = v }),
	)

	ecs.Register[UI](c, NameUI,
		ecs.FieldOf("type", func(u *UI) string { return u.Type.String() }, func(u *UI, v string) { u.Type = parseUIType(v) }),
	)
}
