package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/scion"
)

// Line is a queued line segment.
type Line struct {
	P1, P2    scion.Vec2
	Thickness float64
	Color     scion.Color
}

// Rect is a queued rectangle, drawn outlined or filled.
type Rect struct {
	Bounds    scion.Rect
	Thickness float64
	Color     scion.Color
}

// Circle is a queued circle. Thickness 0 fills the disc.
type Circle struct {
	Center    scion.Vec2
	Radius    float64
	Thickness float64
	Color     scion.Color
}

// Text is a queued text span.
type Text struct {
	Text     string
	Font     *Font
	Position scion.Vec2
	Wrap     float64
	Color    scion.Color
}

// Renderer queues immediate-mode primitives from scripts and debug systems
// and draws them in kind order: lines, filled rects, circles, text.
type Renderer struct {
	lines   []Line
	filled  []Rect
	circles []Circle
	texts   []Text

	lineBatch   *LineBatcher
	rectBatch   *RectBatcher
	circleBatch *CircleBatcher
	textBatch   *TextBatcher

	circleShader *ebiten.Shader
}

// NewRenderer creates a renderer whose batchers share dev.
func NewRenderer(dev Device, capacity int) *Renderer {
	return &Renderer{
		lineBatch:   NewLineBatcher(dev, capacity),
		rectBatch:   NewRectBatcher(dev, capacity),
		circleBatch: NewCircleBatcher(dev, capacity),
		textBatch:   NewTextBatcher(dev, capacity),
	}
}

// SetCircleShader sets the program used by DrawCircles. Without it circles
// render as filled squares.
func (r *Renderer) SetCircleShader(s *ebiten.Shader) {
	r.circleShader = s
}

func (r *Renderer) DrawLine(l Line) {
	r.lines = append(r.lines, l)
}

// DrawRect queues a rectangle outline as four lines.
func (r *Renderer) DrawRect(rc Rect) {
	b := rc.Bounds
	tl := scion.Vec2{X: b.X, Y: b.Y}
	tr := scion.Vec2{X: b.Right(), Y: b.Y}
	bl := scion.Vec2{X: b.X, Y: b.Bottom()}
	br := scion.Vec2{X: b.Right(), Y: b.Bottom()}
	r.lines = append(r.lines,
		Line{P1: tl, P2: tr, Thickness: rc.Thickness, Color: rc.Color},
		Line{P1: tr, P2: br, Thickness: rc.Thickness, Color: rc.Color},
		Line{P1: br, P2: bl, Thickness: rc.Thickness, Color: rc.Color},
		Line{P1: bl, P2: tl, Thickness: rc.Thickness, Color: rc.Color},
	)
}

func (r *Renderer) DrawFilledRect(rc Rect) {
	r.filled = append(r.filled, rc)
}

func (r *Renderer) DrawCircle(c Circle) {
	r.circles = append(r.circles, c)
}

func (r *Renderer) DrawText(t Text) {
	r.texts = append(r.texts, t)
}

// DrawLines batches and renders every queued line.
func (r *Renderer) DrawLines(proj mgl32.Mat4) {
	if len(r.lines) == 0 {
		return
	}
	r.lineBatch.Begin()
	for _, l := range r.lines {
		r.lineBatch.AddLine(l.P1, l.P2, l.Thickness, Identity, l.Color)
	}
	r.lineBatch.End()
	r.lineBatch.Render(Program{Projection: proj})
}

// DrawFilledRects batches and renders every queued filled rectangle.
func (r *Renderer) DrawFilledRects(proj mgl32.Mat4) {
	if len(r.filled) == 0 {
		return
	}
	r.rectBatch.Begin()
	for _, rc := range r.filled {
		r.rectBatch.AddRect(rc.Bounds, Identity, rc.Color)
	}
	r.rectBatch.End()
	r.rectBatch.Render(Program{Projection: proj})
}

// DrawCircles batches and renders every queued circle.
func (r *Renderer) DrawCircles(proj mgl32.Mat4) {
	if len(r.circles) == 0 {
		return
	}
	r.circleBatch.Begin()
	for _, c := range r.circles {
		r.circleBatch.AddCircle(c.Center, c.Radius, c.Thickness, Identity, c.Color)
	}
	r.circleBatch.End()
	r.circleBatch.Render(Program{Shader: r.circleShader, Projection: proj})
}

// DrawAllText batches and renders every queued text span.
func (r *Renderer) DrawAllText(proj mgl32.Mat4) {
	if len(r.texts) == 0 {
		return
	}
	r.textBatch.Begin()
	for _, t := range r.texts {
		r.textBatch.AddText(t.Font, t.Text, t.Position, t.Wrap, Identity, t.Color)
	}
	r.textBatch.End()
	r.textBatch.Render(Program{Projection: proj})
}

// Flush renders all queues in kind order and clears them.
func (r *Renderer) Flush(proj mgl32.Mat4) {
	r.DrawLines(proj)
	r.DrawFilledRects(proj)
	r.DrawCircles(proj)
	r.DrawAllText(proj)
	r.ClearPrimitives()
}

// ClearPrimitives drops every queued primitive.
func (r *Renderer) ClearPrimitives() {
	r.lines = r.lines[:0]
	r.filled = r.filled[:0]
	r.circles = r.circles[:0]
	r.texts = r.texts[:0]
}

// Pending reports the number of queued primitives by kind.
func (r *Renderer) Pending() (lines, rects, circles, texts int) {
	return len(r.lines), len(r.filled), len(r.circles), len(r.texts)
}

// Stats sums the batch statistics of the last flush.
func (r *Renderer) Stats() Stats {
	var s Stats
	for _, st := range []Stats{r.lineBatch.Stats(), r.rectBatch.Stats(), r.circleBatch.Stats(), r.textBatch.Stats()} {
		s.Glyphs += st.Glyphs
		s.Batches += st.Batches
		s.Uploads += st.Uploads
	}
	return s
}
