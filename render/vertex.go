package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/scion"
)

// ResourceID identifies a GPU resource (texture or font atlas page) that a
// batch binds before its draw call.
type ResourceID uint32

// WhiteTexture is the reserved resource id of the 1x1 white texture used by
// untextured primitives.
const WhiteTexture ResourceID = 0

// Color32 is a compact non-premultiplied RGBA color used in vertex data.
type Color32 struct {
	R, G, B, A float32
}

// ToColor32 narrows a scion.Color to vertex precision.
func ToColor32(c scion.Color) Color32 {
	return Color32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// Vertex is one corner of a primitive. Positions are in world space; the
// projection of the bound Program maps them to the target. UVs are
// normalized to [0, 1] across the bound resource.
type Vertex struct {
	X, Y   float32
	U, V   float32
	Color  Color32
	Custom [4]float32
}

// UVRect is a normalized sub-rectangle of a texture.
type UVRect struct {
	U, V, Width, Height float32
}

// FullUV covers the whole texture.
var FullUV = UVRect{0, 0, 1, 1}

// Identity is the model matrix used when a primitive needs no transform.
var Identity = mgl32.Ident4()

// transformXY applies a model matrix to a 2D point. The identity matrix is
// short-circuited.
func transformXY(model mgl32.Mat4, x, y float32) (float32, float32) {
	if model == Identity {
		return x, y
	}
	p := model.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return p.X(), p.Y()
}
