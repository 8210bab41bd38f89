package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/scion"
)

// SpriteBatcher batches textured quads, stably sorted by layer.
type SpriteBatcher struct {
	*Batcher[SpriteGlyph]
}

// NewSpriteBatcher creates a sorted sprite batcher.
func NewSpriteBatcher(dev Device, capacity int) *SpriteBatcher {
	return &SpriteBatcher{NewBatcher[SpriteGlyph](dev, BatcherOptions{Capacity: capacity, Sorted: true})}
}

// AddSprite appends a sprite covering dst.
func (b *SpriteBatcher) AddSprite(dst scion.Rect, uv UVRect, texture ResourceID, layer int, model mgl32.Mat4, c scion.Color) {
	b.Add(NewSpriteGlyph(dst, uv, texture, layer, model, c))
}

// PickBatcher batches id-encoded quads for the picking pass.
type PickBatcher struct {
	*Batcher[PickGlyph]
}

// NewPickBatcher creates a sorted picking batcher.
func NewPickBatcher(dev Device, capacity int) *PickBatcher {
	return &PickBatcher{NewBatcher[PickGlyph](dev, BatcherOptions{Capacity: capacity, Sorted: true})}
}

// AddPick appends a quad carrying id.
func (b *PickBatcher) AddPick(dst scion.Rect, uv UVRect, texture ResourceID, layer int, model mgl32.Mat4, id uint32) {
	b.Add(NewPickGlyph(dst, uv, texture, layer, model, id))
}

// RectBatcher batches filled rectangles in insertion order.
type RectBatcher struct {
	*Batcher[RectGlyph]
}

func NewRectBatcher(dev Device, capacity int) *RectBatcher {
	return &RectBatcher{NewBatcher[RectGlyph](dev, BatcherOptions{Capacity: capacity})}
}

func (b *RectBatcher) AddRect(dst scion.Rect, model mgl32.Mat4, c scion.Color) {
	b.Add(NewRectGlyph(dst, model, c))
}

// LineBatcher batches line segments in insertion order.
type LineBatcher struct {
	*Batcher[LineGlyph]
}

func NewLineBatcher(dev Device, capacity int) *LineBatcher {
	return &LineBatcher{NewBatcher[LineGlyph](dev, BatcherOptions{Capacity: capacity})}
}

func (b *LineBatcher) AddLine(p1, p2 scion.Vec2, thickness float64, model mgl32.Mat4, c scion.Color) {
	b.Add(NewLineGlyph(p1, p2, thickness, model, c))
}

// CircleBatcher batches circles in insertion order. It must be rendered
// with the circle shader.
type CircleBatcher struct {
	*Batcher[CircleGlyph]
}

func NewCircleBatcher(dev Device, capacity int) *CircleBatcher {
	return &CircleBatcher{NewBatcher[CircleGlyph](dev, BatcherOptions{Capacity: capacity})}
}

func (b *CircleBatcher) AddCircle(center scion.Vec2, radius, thickness float64, model mgl32.Mat4, c scion.Color) {
	b.Add(NewCircleGlyph(center, radius, thickness, model, c))
}

// TextBatcher batches font glyph quads in insertion order.
type TextBatcher struct {
	*Batcher[TextGlyph]
}

func NewTextBatcher(dev Device, capacity int) *TextBatcher {
	return &TextBatcher{NewBatcher[TextGlyph](dev, BatcherOptions{Capacity: capacity})}
}

// AddText lays out s with f at pos and appends one glyph per visible
// character. wrap <= 0 disables wrapping.
func (b *TextBatcher) AddText(f *Font, s string, pos scion.Vec2, wrap float64, model mgl32.Mat4, c scion.Color) {
	if f == nil {
		return
	}
	col := ToColor32(c)
	for _, line := range f.Layout(s, wrap) {
		for _, pg := range line.Glyphs {
			g := pg.Glyph
			if g.Width == 0 || g.Height == 0 {
				continue
			}
			dst := scion.Rect{
				X:      pos.X + pg.X,
				Y:      pos.Y + pg.Y,
				Width:  float64(g.Width),
				Height: float64(g.Height),
			}
			b.Add(TextGlyph{Vertices: quadCorners(dst, f.UV(g), model, col), Font: f.Resource})
		}
	}
}
