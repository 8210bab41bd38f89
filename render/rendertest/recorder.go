// Package rendertest provides a GPU-free render.Device that records uploads
// and draw calls.
package rendertest

import "github.com/phanxgames/scion/render"

// Upload is one recorded Buffer.Upload.
type Upload struct {
	Segment  int
	Vertices []render.Vertex
	Indices  []uint32
}

// Recorder is a render.Device whose buffers record everything they receive.
type Recorder struct {
	Buffers []*Buffer
}

// NewBuffer implements render.Device.
func (r *Recorder) NewBuffer() render.Buffer {
	b := &Buffer{}
	r.Buffers = append(r.Buffers, b)
	return b
}

// Draws returns every draw call across all buffers, in buffer order.
func (r *Recorder) Draws() []render.DrawCall {
	var out []render.DrawCall
	for _, b := range r.Buffers {
		out = append(out, b.Draws...)
	}
	return out
}

// Reset clears the recording of every buffer.
func (r *Recorder) Reset() {
	for _, b := range r.Buffers {
		b.Orphans = 0
		b.Uploads = b.Uploads[:0]
		b.Draws = b.Draws[:0]
	}
}

// Buffer records uploads and draws.
type Buffer struct {
	Orphans int
	Uploads []Upload
	Draws   []render.DrawCall
}

func (b *Buffer) Orphan() {
	b.Orphans++
	b.Uploads = b.Uploads[:0]
	b.Draws = b.Draws[:0]
}

func (b *Buffer) Upload(segment int, verts []render.Vertex, inds []uint32) {
	b.Uploads = append(b.Uploads, Upload{
		Segment:  segment,
		Vertices: append([]render.Vertex(nil), verts...),
		Indices:  append([]uint32(nil), inds...),
	})
}

func (b *Buffer) Draw(call render.DrawCall) {
	b.Draws = append(b.Draws, call)
}
