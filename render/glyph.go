package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/scion"
)

// Glyph is a transient per-frame draw primitive accumulated by a Batcher.
// Every glyph is drawn as a quad whose corners are returned in the order
// top-left, top-right, bottom-left, bottom-right.
type Glyph interface {
	Resource() ResourceID
	Layer() int
	Quad() [4]Vertex
}

// quadCorners builds the four corners of dst, transformed by model, with the
// given UV rectangle and color.
func quadCorners(dst scion.Rect, uv UVRect, model mgl32.Mat4, c Color32) [4]Vertex {
	x0, y0 := float32(dst.X), float32(dst.Y)
	x1, y1 := float32(dst.X+dst.Width), float32(dst.Y+dst.Height)
	u0, v0 := uv.U, uv.V
	u1, v1 := uv.U+uv.Width, uv.V+uv.Height

	var q [4]Vertex
	lx := [4]float32{x0, x1, x0, x1}
	ly := [4]float32{y0, y0, y1, y1}
	su := [4]float32{u0, u1, u0, u1}
	sv := [4]float32{v0, v0, v1, v1}
	for i := 0; i < 4; i++ {
		q[i].X, q[i].Y = transformXY(model, lx[i], ly[i])
		q[i].U, q[i].V = su[i], sv[i]
		q[i].Color = c
	}
	return q
}

// --- Sprite ---

// SpriteGlyph is a textured quad ordered by layer.
type SpriteGlyph struct {
	Vertices [4]Vertex
	Order    int
	Texture  ResourceID
}

// NewSpriteGlyph builds a sprite quad covering dst, sampling uv from texture.
func NewSpriteGlyph(dst scion.Rect, uv UVRect, texture ResourceID, layer int, model mgl32.Mat4, c scion.Color) SpriteGlyph {
	return SpriteGlyph{
		Vertices: quadCorners(dst, uv, model, ToColor32(c)),
		Order:    layer,
		Texture:  texture,
	}
}

func (g SpriteGlyph) Resource() ResourceID { return g.Texture }
func (g SpriteGlyph) Layer() int           { return g.Order }
func (g SpriteGlyph) Quad() [4]Vertex      { return g.Vertices }

// --- Pick ---

// PickGlyph is a sprite quad that carries an encoded entity id in its custom
// vertex attributes. The picking shader writes the id instead of the texel.
type PickGlyph struct {
	SpriteGlyph
}

// NewPickGlyph builds a picking quad for the entity at index id.
func NewPickGlyph(dst scion.Rect, uv UVRect, texture ResourceID, layer int, model mgl32.Mat4, id uint32) PickGlyph {
	g := PickGlyph{SpriteGlyph: NewSpriteGlyph(dst, uv, texture, layer, model, scion.ColorWhite)}
	enc := EncodePickID(id)
	for i := range g.Vertices {
		g.Vertices[i].Custom = enc
	}
	return g
}

// --- Rect ---

// RectGlyph is a filled, untextured quad.
type RectGlyph struct {
	Vertices [4]Vertex
}

// NewRectGlyph builds a filled rectangle.
func NewRectGlyph(dst scion.Rect, model mgl32.Mat4, c scion.Color) RectGlyph {
	return RectGlyph{Vertices: quadCorners(dst, FullUV, model, ToColor32(c))}
}

func (g RectGlyph) Resource() ResourceID { return WhiteTexture }
func (g RectGlyph) Layer() int           { return 0 }
func (g RectGlyph) Quad() [4]Vertex      { return g.Vertices }

// --- Line ---

// LineGlyph holds the two endpoints of a line segment. It is expanded into a
// quad of the given thickness when batched.
type LineGlyph struct {
	P1, P2    Vertex
	Thickness float32
}

// NewLineGlyph builds a line from p1 to p2.
func NewLineGlyph(p1, p2 scion.Vec2, thickness float64, model mgl32.Mat4, c scion.Color) LineGlyph {
	col := ToColor32(c)
	g := LineGlyph{Thickness: float32(thickness)}
	g.P1.X, g.P1.Y = transformXY(model, float32(p1.X), float32(p1.Y))
	g.P2.X, g.P2.Y = transformXY(model, float32(p2.X), float32(p2.Y))
	g.P1.Color, g.P2.Color = col, col
	return g
}

func (g LineGlyph) Resource() ResourceID { return WhiteTexture }
func (g LineGlyph) Layer() int           { return 0 }

// Quad extends the segment sideways by half the thickness on each side.
// Degenerate segments produce a zero-area quad.
func (g LineGlyph) Quad() [4]Vertex {
	dx, dy := g.P2.X-g.P1.X, g.P2.Y-g.P1.Y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	var nx, ny float32
	if l > 0 {
		half := g.Thickness / 2
		if half <= 0 {
			half = 0.5
		}
		nx, ny = -dy/l*half, dx/l*half
	}
	q := [4]Vertex{g.P1, g.P2, g.P1, g.P2}
	q[0].X, q[0].Y = g.P1.X+nx, g.P1.Y+ny
	q[1].X, q[1].Y = g.P2.X+nx, g.P2.Y+ny
	q[2].X, q[2].Y = g.P1.X-nx, g.P1.Y-ny
	q[3].X, q[3].Y = g.P2.X-nx, g.P2.Y-ny
	q[0].U, q[0].V = 0, 0
	q[1].U, q[1].V = 1, 0
	q[2].U, q[2].V = 0, 1
	q[3].U, q[3].V = 1, 1
	return q
}

// --- Circle ---

// CircleGlyph is a quad bounding a circle. Custom[0:2] holds the local
// coordinate in [-1, 1] and Custom[2] the ring thickness as a fraction of
// the radius (0 fills the disc). The circle shader discards outside the ring.
type CircleGlyph struct {
	Vertices [4]Vertex
}

// NewCircleGlyph builds a circle of the given radius centered at center.
func NewCircleGlyph(center scion.Vec2, radius, thickness float64, model mgl32.Mat4, c scion.Color) CircleGlyph {
	dst := scion.Rect{X: center.X - radius, Y: center.Y - radius, Width: radius * 2, Height: radius * 2}
	g := CircleGlyph{Vertices: quadCorners(dst, FullUV, model, ToColor32(c))}
	var ring float32
	if radius > 0 && thickness > 0 {
		ring = float32(math.Min(thickness/radius, 1))
	}
	local := [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for i := range g.Vertices {
		g.Vertices[i].Custom = [4]float32{local[i][0], local[i][1], ring, 0}
	}
	return g
}

func (g CircleGlyph) Resource() ResourceID { return WhiteTexture }
func (g CircleGlyph) Layer() int           { return 0 }
func (g CircleGlyph) Quad() [4]Vertex      { return g.Vertices }

// --- Text ---

// TextGlyph is one character quad sampling a font atlas page.
type TextGlyph struct {
	Vertices [4]Vertex
	Font     ResourceID
}

func (g TextGlyph) Resource() ResourceID { return g.Font }
func (g TextGlyph) Layer() int           { return 0 }
func (g TextGlyph) Quad() [4]Vertex      { return g.Vertices }
