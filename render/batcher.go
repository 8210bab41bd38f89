package render

// DefaultCapacity is the maximum number of glyphs uploaded per buffer
// segment. Reaching it mid-frame flushes the segment early.
const DefaultCapacity = 10000

const (
	verticesPerGlyph = 4
	indicesPerGlyph  = 6
)

// Batch is a contiguous run of glyphs sharing one resource, drawn with one
// draw call.
type Batch struct {
	Segment  int
	Offset   int
	Count    int
	Resource ResourceID
}

// Stats reports what the last End produced.
type Stats struct {
	Glyphs  int
	Batches int
	Uploads int
}

// BatcherOptions configures a Batcher.
type BatcherOptions struct {
	// Capacity bounds the glyphs per buffer upload. Zero uses DefaultCapacity.
	Capacity int
	// Sorted stably orders glyphs by layer before batching. Unsorted
	// batchers draw in insertion order.
	Sorted bool
}

// Batcher accumulates glyphs for one frame and turns them into the fewest
// draw calls that keep layer order intact.
//
// Begin clears the frame, Add appends, End sorts and groups glyphs into
// batches (uploading vertex data to the buffer), and Render issues one draw
// call per batch in the order End produced.
type Batcher[G Glyph] struct {
	buffer   Buffer
	capacity int
	sorted   bool

	glyphs  []G
	sortBuf []G
	verts   []Vertex
	inds    []uint32
	batches []Batch
	uploads int
}

// NewBatcher creates a batcher backed by a new buffer from dev.
func NewBatcher[G Glyph](dev Device, opts BatcherOptions) *Batcher[G] {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Batcher[G]{
		buffer:   dev.NewBuffer(),
		capacity: capacity,
		sorted:   opts.Sorted,
		verts:    make([]Vertex, 0, 256*verticesPerGlyph),
		inds:     make([]uint32, 0, 256*indicesPerGlyph),
	}
}

// Begin resets the glyph list for a new frame.
func (b *Batcher[G]) Begin() {
	b.glyphs = b.glyphs[:0]
	b.batches = b.batches[:0]
	b.uploads = 0
	b.buffer.Orphan()
}

// Add appends a glyph to the current frame.
func (b *Batcher[G]) Add(g G) {
	b.glyphs = append(b.glyphs, g)
}

// Len returns the number of glyphs added since Begin.
func (b *Batcher[G]) Len() int {
	return len(b.glyphs)
}

// End sorts (if configured) and groups the frame's glyphs into batches. A
// new batch starts when the resource changes or when the current segment
// reaches capacity, in which case the segment is uploaded immediately.
func (b *Batcher[G]) End() {
	if len(b.glyphs) == 0 {
		return
	}
	if b.sorted {
		b.mergeSort()
	}

	b.verts = b.verts[:0]
	b.inds = b.inds[:0]

	segment := 0
	inSegment := 0
	open := false

	for i := range b.glyphs {
		g := b.glyphs[i]

		if inSegment == b.capacity {
			b.flush(segment)
			segment++
			inSegment = 0
			open = false
		}

		res := g.Resource()
		if !open || b.batches[len(b.batches)-1].Resource != res {
			b.batches = append(b.batches, Batch{
				Segment:  segment,
				Offset:   len(b.inds),
				Resource: res,
			})
			open = true
		}

		base := uint32(len(b.verts))
		q := g.Quad()
		b.verts = append(b.verts, q[0], q[1], q[2], q[3])
		// Two triangles: TL-TR-BL, TR-BR-BL
		b.inds = append(b.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
		b.batches[len(b.batches)-1].Count += indicesPerGlyph
		inSegment++
	}

	b.flush(segment)
}

// flush uploads the accumulated vertex data as one segment.
func (b *Batcher[G]) flush(segment int) {
	if len(b.verts) == 0 {
		return
	}
	b.buffer.Upload(segment, b.verts, b.inds)
	b.uploads++
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// Render issues one draw call per batch with the given program bound.
func (b *Batcher[G]) Render(p Program) {
	for _, bt := range b.batches {
		b.buffer.Draw(DrawCall{
			Segment:  bt.Segment,
			Offset:   bt.Offset,
			Count:    bt.Count,
			Resource: bt.Resource,
			Program:  p,
		})
	}
}

// Batches returns the batches built by the last End. The returned slice
// MUST NOT be mutated.
func (b *Batcher[G]) Batches() []Batch {
	return b.batches
}

// Glyphs returns the glyphs of the current frame, in draw order after End.
// The returned slice MUST NOT be mutated.
func (b *Batcher[G]) Glyphs() []G {
	return b.glyphs
}

// Stats reports glyph, batch, and upload counts for the current frame.
func (b *Batcher[G]) Stats() Stats {
	return Stats{Glyphs: len(b.glyphs), Batches: len(b.batches), Uploads: b.uploads}
}

// --- Merge sort ---

// mergeSort stably sorts b.glyphs by layer using b.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches its
// high-water mark.
func (b *Batcher[G]) mergeSort() {
	n := len(b.glyphs)
	if n <= 1 {
		return
	}
	if cap(b.sortBuf) < n {
		b.sortBuf = make([]G, n)
	}
	b.sortBuf = b.sortBuf[:n]

	src := b.glyphs
	dst := b.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(src, dst, lo, mid, hi)
		}
		src, dst = dst, src
		swapped = !swapped
	}

	if swapped {
		copy(b.glyphs, b.sortBuf)
	}
}

// mergeRun merges the sorted runs [lo, mid) and [mid, hi) from src into dst.
// Taking from the left run on ties keeps the merge stable.
func mergeRun[G Glyph](src, dst []G, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if src[i].Layer() <= src[j].Layer() {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
