package render_test

import (
	"testing"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/render"
	"github.com/phanxgames/scion/render/rendertest"
)

func sprite(layer int, tex render.ResourceID, x float64) render.SpriteGlyph {
	return render.NewSpriteGlyph(scion.Rect{X: x, Width: 1, Height: 1}, render.FullUV, tex, layer, render.Identity, scion.ColorWhite)
}

func assertContiguous(t *testing.T, glyphs []render.SpriteGlyph, batches []render.Batch, capacity int) {
	t.Helper()
	total := 0
	for bi, b := range batches {
		n := b.Count / 6
		for i := total; i < total+n; i++ {
			if glyphs[i].Resource() != b.Resource {
				t.Errorf("batch %d holds glyph %d with resource %d, want %d", bi, i, glyphs[i].Resource(), b.Resource)
			}
		}
		total += n
	}
	if total != len(glyphs) {
		t.Errorf("batched glyphs = %d, want %d", total, len(glyphs))
	}
}

func TestBatcherStableLayerSort(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	// x encodes insertion order.
	b.Add(sprite(2, 1, 0))
	b.Add(sprite(1, 1, 1))
	b.Add(sprite(2, 1, 2))
	b.Add(sprite(1, 1, 3))
	b.Add(sprite(0, 1, 4))
	b.End()

	want := []float32{4, 1, 3, 0, 2}
	got := b.Glyphs()
	for i, w := range want {
		if got[i].Vertices[0].X != w {
			t.Errorf("glyph %d x = %v, want %v", i, got[i].Vertices[0].X, w)
		}
	}
}

func TestBatcherEqualLayerKeepsInsertionOrder(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	for i := 0; i < 37; i++ {
		b.Add(sprite(5, render.ResourceID(i%3+1), float64(i)))
	}
	b.End()
	for i, g := range b.Glyphs() {
		if g.Vertices[0].X != float32(i) {
			t.Fatalf("glyph %d x = %v, want %d", i, g.Vertices[0].X, i)
		}
	}
}

func TestBatcherSplitsOnResourceChange(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	b.Add(sprite(0, 1, 0))
	b.Add(sprite(0, 1, 0))
	b.Add(sprite(0, 2, 0))
	b.Add(sprite(0, 1, 0))
	b.End()

	batches := b.Batches()
	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	if batches[0].Count != 12 || batches[1].Offset != 12 || batches[2].Offset != 18 {
		t.Errorf("batches = %+v", batches)
	}
	assertContiguous(t, b.Glyphs(), batches, render.DefaultCapacity)
}

func TestBatcherCapacityOverflowFlushesTwice(t *testing.T) {
	const capacity = 10000
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, capacity)
	b.Begin()
	for i := 0; i < capacity+1; i++ {
		b.Add(sprite(0, render.ResourceID(1+i/4000), 0))
	}
	b.End()

	buf := rec.Buffers[0]
	if len(buf.Uploads) != 2 {
		t.Fatalf("uploads = %d, want 2", len(buf.Uploads))
	}
	if n := len(buf.Uploads[0].Vertices) / 4; n != capacity {
		t.Errorf("first upload glyphs = %d, want %d", n, capacity)
	}
	if n := len(buf.Uploads[1].Vertices) / 4; n != 1 {
		t.Errorf("second upload glyphs = %d, want 1", n)
	}
	if st := b.Stats(); st.Uploads != 2 || st.Glyphs != capacity+1 {
		t.Errorf("stats = %+v", st)
	}
	assertContiguous(t, b.Glyphs(), b.Batches(), capacity)

	last := b.Batches()[len(b.Batches())-1]
	if last.Segment != 1 || last.Offset != 0 || last.Count != 6 {
		t.Errorf("last batch = %+v, want segment 1 offset 0 count 6", last)
	}
}

func TestBatcherQuadIndices(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	b.Add(sprite(0, 1, 0))
	b.Add(sprite(0, 1, 0))
	b.End()

	want := []uint32{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	got := rec.Buffers[0].Uploads[0].Indices
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indices[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBatcherRenderOneDrawPerBatch(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	b.Add(sprite(1, 2, 0))
	b.Add(sprite(0, 1, 0))
	b.End()
	b.Render(render.Program{Projection: render.Identity})

	draws := rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(draws))
	}
	if draws[0].Resource != 1 || draws[1].Resource != 2 {
		t.Errorf("draw resources = %d,%d, want 1,2", draws[0].Resource, draws[1].Resource)
	}
}

func TestBatcherEmptyFrame(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewSpriteBatcher(rec, 0)
	b.Begin()
	b.End()
	b.Render(render.Program{})
	if len(rec.Buffers[0].Uploads) != 0 || len(rec.Draws()) != 0 {
		t.Error("empty frame should neither upload nor draw")
	}
	if rec.Buffers[0].Orphans != 1 {
		t.Errorf("orphans = %d, want 1", rec.Buffers[0].Orphans)
	}
}

func TestUnsortedBatcherKeepsInsertionOrder(t *testing.T) {
	rec := &rendertest.Recorder{}
	b := render.NewLineBatcher(rec, 0)
	b.Begin()
	b.AddLine(scion.Vec2{X: 0}, scion.Vec2{X: 10}, 2, render.Identity, scion.ColorWhite)
	b.AddLine(scion.Vec2{X: 5}, scion.Vec2{X: 5, Y: 10}, 2, render.Identity, scion.ColorWhite)
	b.End()
	if len(b.Batches()) != 1 {
		t.Fatalf("batches = %d, want 1", len(b.Batches()))
	}
	if b.Glyphs()[0].P1.X != 0 || b.Glyphs()[1].P1.X != 5 {
		t.Error("unsorted batcher reordered glyphs")
	}
}
