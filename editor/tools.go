package editor

import (
	"github.com/phanxgames/scion"
)

// TileTool paints or erases single tiles through the command manager.
type TileTool struct {
	doc  *Document
	cmds *CommandManager

	Layer  int
	TileID int
	Erase  bool
}

func NewTileTool(doc *Document, cmds *CommandManager) *TileTool {
	return &TileTool{doc: doc, cmds: cmds}
}

// Apply edits the cell under world point p. It reports whether a command
// was executed.
func (t *TileTool) Apply(p scion.Vec2) bool {
	if t.doc.Tilemap == nil {
		return false
	}
	col, row := t.doc.Tilemap.Cell(p)
	if t.Erase {
		c, ok := NewRemoveTile(t.doc, t.Layer, col, row)
		if !ok {
			return false
		}
		t.cmds.Execute(c)
		return true
	}
	if _, taken := t.doc.Tilemap.At(t.doc.Registry, t.Layer, col, row); taken {
		return false
	}
	t.cmds.Execute(NewAddTile(t.doc, t.Layer, col, row, t.TileID))
	return true
}

// RectFillTool fills or clears the cells of a dragged rectangle as one
// command.
type RectFillTool struct {
	doc  *Document
	cmds *CommandManager

	Layer  int
	TileID int
	Erase  bool

	dragging   bool
	start, end scion.Vec2
}

func NewRectFillTool(doc *Document, cmds *CommandManager) *RectFillTool {
	return &RectFillTool{doc: doc, cmds: cmds}
}

// Begin starts a drag at world point p.
func (t *RectFillTool) Begin(p scion.Vec2) {
	t.dragging = true
	t.start, t.end = p, p
}

// Drag moves the free corner.
func (t *RectFillTool) Drag(p scion.Vec2) {
	if t.dragging {
		t.end = p
	}
}

func (t *RectFillTool) Dragging() bool { return t.dragging }

// Selection returns the world rectangle covering every selected cell.
func (t *RectFillTool) Selection() (scion.Rect, bool) {
	if !t.dragging || t.doc.Tilemap == nil {
		return scion.Rect{}, false
	}
	c0, r0, c1, r1 := t.cells()
	tl := t.doc.Tilemap.CellPosition(c0, r0)
	br := t.doc.Tilemap.CellPosition(c1+1, r1+1)
	return scion.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}, true
}

func (t *RectFillTool) cells() (c0, r0, c1, r1 int) {
	c0, r0 = t.doc.Tilemap.Cell(t.start)
	c1, r1 = t.doc.Tilemap.Cell(t.end)
	return min(c0, c1), min(r0, r1), max(c0, c1), max(r0, r1)
}

// End finishes the drag at p and executes the fill. It reports whether a
// command was executed.
func (t *RectFillTool) End(p scion.Vec2) bool {
	if !t.dragging {
		return false
	}
	t.end = p
	t.dragging = false
	if t.doc.Tilemap == nil {
		return false
	}
	c0, r0, c1, r1 := t.cells()
	if t.Erase {
		c := NewRectRemoveTiles(t.doc, t.Layer, c0, r0, c1, r1)
		if c.Len() == 0 {
			return false
		}
		t.cmds.Execute(c)
		return true
	}
	c := NewRectAddTiles(t.doc, t.Layer, c0, r0, c1, r1, t.TileID)
	if t.doc.free(t.Layer, c.cells) == 0 {
		return false
	}
	t.cmds.Execute(c)
	return true
}

// Cancel abandons a drag.
func (t *RectFillTool) Cancel() {
	t.dragging = false
}
