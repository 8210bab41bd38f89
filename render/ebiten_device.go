package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSource resolves a resource id to its image. The asset manager
// implements it.
type TextureSource interface {
	Image(id ResourceID) *ebiten.Image
}

// EbitenDevice renders batches onto an ebiten image. Vertex positions are
// taken through the program's projection to clip space and then mapped to
// the pixels of the current target.
type EbitenDevice struct {
	textures TextureSource
	target   *ebiten.Image
	white    *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
}

// NewEbitenDevice creates a device that samples textures from src.
func NewEbitenDevice(src TextureSource) *EbitenDevice {
	return &EbitenDevice{textures: src}
}

// SetTarget selects the image subsequent draw calls render into.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	d.target = img
}

// Target returns the current render target.
func (d *EbitenDevice) Target() *ebiten.Image {
	return d.target
}

// NewBuffer implements Device.
func (d *EbitenDevice) NewBuffer() Buffer {
	return &ebitenBuffer{dev: d}
}

func (d *EbitenDevice) whiteImage() *ebiten.Image {
	if d.white == nil {
		d.white = ebiten.NewImage(1, 1)
		d.white.Fill(color.White)
	}
	return d.white
}

func (d *EbitenDevice) resolve(id ResourceID) *ebiten.Image {
	if id == WhiteTexture || d.textures == nil {
		return d.whiteImage()
	}
	if img := d.textures.Image(id); img != nil {
		return img
	}
	return nil
}

type segment struct {
	verts []Vertex
	inds  []uint32
}

// ebitenBuffer keeps a CPU copy of every uploaded segment for the frame.
type ebitenBuffer struct {
	dev      *EbitenDevice
	segments []segment
}

func (b *ebitenBuffer) Orphan() {
	for i := range b.segments {
		b.segments[i].verts = b.segments[i].verts[:0]
		b.segments[i].inds = b.segments[i].inds[:0]
	}
}

func (b *ebitenBuffer) Upload(seg int, verts []Vertex, inds []uint32) {
	for len(b.segments) <= seg {
		b.segments = append(b.segments, segment{})
	}
	s := &b.segments[seg]
	s.verts = append(s.verts[:0], verts...)
	s.inds = append(s.inds[:0], inds...)
}

func (b *ebitenBuffer) Draw(call DrawCall) {
	d := b.dev
	if d.target == nil || call.Segment >= len(b.segments) || call.Count == 0 {
		return
	}
	seg := &b.segments[call.Segment]
	if call.Offset+call.Count > len(seg.inds) {
		return
	}
	src := d.resolve(call.Resource)
	if src == nil {
		return
	}

	first := call.Offset / indicesPerGlyph * verticesPerGlyph
	last := (call.Offset + call.Count) / indicesPerGlyph * verticesPerGlyph

	tb := d.target.Bounds()
	tw, th := float32(tb.Dx()), float32(tb.Dy())
	sb := src.Bounds()
	sx, sy := float32(sb.Min.X), float32(sb.Min.Y)
	sw, sh := float32(sb.Dx()), float32(sb.Dy())
	proj := call.Program.Projection

	d.verts = d.verts[:0]
	for _, v := range seg.verts[first:last] {
		clip := proj.Mul4x1(mgl32.Vec4{v.X, v.Y, 0, 1})
		a := v.Color.A
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:    (clip.X() + 1) / 2 * tw,
			DstY:    (1 - clip.Y()) / 2 * th,
			SrcX:    sx + v.U*sw,
			SrcY:    sy + v.V*sh,
			ColorR:  v.Color.R * a,
			ColorG:  v.Color.G * a,
			ColorB:  v.Color.B * a,
			ColorA:  a,
			Custom0: v.Custom[0],
			Custom1: v.Custom[1],
			Custom2: v.Custom[2],
			Custom3: v.Custom[3],
		})
	}
	d.inds = d.inds[:0]
	base := uint32(first)
	for _, i := range seg.inds[call.Offset : call.Offset+call.Count] {
		d.inds = append(d.inds, i-base)
	}

	if call.Program.Shader != nil {
		var op ebiten.DrawTrianglesShaderOptions
		op.Images[0] = src
		op.Uniforms = call.Program.Uniforms
		d.target.DrawTrianglesShader32(d.verts, d.inds, call.Program.Shader, &op)
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	d.target.DrawTriangles32(d.verts, d.inds, src, &op)
}
