package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Device creates GPU buffers. One Buffer backs one Batcher.
type Device interface {
	NewBuffer() Buffer
}

// Buffer is a GPU vertex/index buffer split into numbered segments. Each
// segment holds at most one batcher capacity worth of glyphs.
type Buffer interface {
	// Orphan discards the previous frame's contents.
	Orphan()
	// Upload copies verts and inds into the given segment. The caller may
	// reuse both slices after Upload returns.
	Upload(segment int, verts []Vertex, inds []uint32)
	// Draw issues one indexed draw call.
	Draw(call DrawCall)
}

// Program is the bound shader state: the fragment program and the camera
// matrix uniform ("uProjection"). A nil Shader selects plain textured
// drawing.
type Program struct {
	Shader     *ebiten.Shader
	Projection mgl32.Mat4
	Uniforms   map[string]any
}

// DrawCall covers Count indices starting at Offset inside one segment.
type DrawCall struct {
	Segment  int
	Offset   int
	Count    int
	Resource ResourceID
	Program  Program
}
