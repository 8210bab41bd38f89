package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// MaxPickID is the largest id that fits the 24-bit color encoding.
const MaxPickID = 1<<24 - 2

// EncodePickID packs id+1 into normalized RGB so that a cleared (black)
// pixel decodes to "no entity".
func EncodePickID(id uint32) [4]float32 {
	v := id + 1
	return [4]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
		1,
	}
}

// DecodePickID reverses EncodePickID from 8-bit channels. ok is false for
// pixels that no pickable glyph wrote.
func DecodePickID(r, g, b, a uint8) (id uint32, ok bool) {
	if a == 0 {
		return 0, false
	}
	v := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// PickBuffer is the offscreen id target the picking pass draws into.
type PickBuffer struct {
	img *ebiten.Image
}

// Resize reallocates the target when the viewport size changes.
func (p *PickBuffer) Resize(w, h int) {
	if p.img != nil {
		b := p.img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		p.img.Deallocate()
	}
	p.img = ebiten.NewImage(w, h)
}

// Image returns the id target, or nil before the first Resize.
func (p *PickBuffer) Image() *ebiten.Image {
	return p.img
}

// Clear resets every pixel to "no entity".
func (p *PickBuffer) Clear() {
	if p.img != nil {
		p.img.Clear()
	}
}

// At returns the id written at pixel (x, y).
func (p *PickBuffer) At(x, y int) (uint32, bool) {
	if p.img == nil {
		return 0, false
	}
	c := color.RGBAModel.Convert(p.img.At(x, y)).(color.RGBA)
	return DecodePickID(c.R, c.G, c.B, c.A)
}
