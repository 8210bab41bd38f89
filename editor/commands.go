package editor

import (
	"go.uber.org/zap"

	"github.com/phanxgames/scion/scene"
)

// placement is the shared body of the tile-adding commands. The first
// Redo creates tiles in free cells; later Redos revive the same entities.
type placement struct {
	doc    *Document
	layer  int
	tileID int
	cells  []cell
	placed bool
	tiles  []TileData
}

func (p *placement) Redo() {
	if !p.placed {
		p.tiles = p.doc.place(p.layer, p.tileID, p.cells)
		p.placed = true
		return
	}
	p.doc.revive(p.tiles)
}

func (p *placement) Undo() { p.doc.destroy(p.tiles) }

// Placed returns the snapshots of the tiles the command created.
func (p *placement) Placed() []TileData { return p.tiles }

// removal is the shared body of the tile-removing commands.
type removal struct {
	doc   *Document
	tiles []TileData
}

func (r *removal) Redo() { r.doc.destroy(r.tiles) }
func (r *removal) Undo() { r.doc.revive(r.tiles) }

// Len returns the number of tiles the command removes.
func (r *removal) Len() int { return len(r.tiles) }

// AddTile places one tile. An occupied cell is left as is.
type AddTile struct{ placement }

func NewAddTile(doc *Document, layer, col, row, tileID int) *AddTile {
	return &AddTile{placement{doc: doc, layer: layer, tileID: tileID, cells: []cell{{col, row}}}}
}

// RemoveTile removes the tile in one cell.
type RemoveTile struct{ removal }

// NewRemoveTile snapshots the tile at the cell. It reports false when the
// cell is empty.
func NewRemoveTile(doc *Document, layer, col, row int) (*RemoveTile, bool) {
	tiles := doc.collect(layer, []cell{{col, row}})
	if len(tiles) == 0 {
		return nil, false
	}
	return &RemoveTile{removal{doc: doc, tiles: tiles}}, true
}

// RectAddTiles fills the free cells of a rectangle of cells.
type RectAddTiles struct{ placement }

func NewRectAddTiles(doc *Document, layer, col0, row0, col1, row1, tileID int) *RectAddTiles {
	return &RectAddTiles{placement{doc: doc, layer: layer, tileID: tileID, cells: cellRect(col0, row0, col1, row1)}}
}

// RectRemoveTiles clears a rectangle of cells.
type RectRemoveTiles struct{ removal }

func NewRectRemoveTiles(doc *Document, layer, col0, row0, col1, row1 int) *RectRemoveTiles {
	return &RectRemoveTiles{removal{doc: doc, tiles: doc.collect(layer, cellRect(col0, row0, col1, row1))}}
}

// AddLayer inserts an empty layer. Tiles of later layers shift up.
type AddLayer struct {
	doc   *Document
	index int
	name  string
}

// NewAddLayer inserts at index; a negative index appends.
func NewAddLayer(doc *Document, name string, index int) *AddLayer {
	if index < 0 || index > doc.Layers.Len() {
		index = doc.Layers.Len()
	}
	return &AddLayer{doc: doc, index: index, name: name}
}

func (c *AddLayer) Redo() {
	if err := c.doc.Layers.Insert(c.index, scene.Layer{Name: c.name, Visible: true}); err != nil {
		c.doc.log.Error("editor: add layer", zap.Error(err))
		return
	}
	scene.Relayer(c.doc.Registry, func(l int) int {
		if l >= c.index {
			return l + 1
		}
		return l
	})
}

func (c *AddLayer) Undo() {
	if _, err := c.doc.Layers.Remove(c.index); err != nil {
		c.doc.log.Error("editor: undo add layer", zap.Error(err))
		return
	}
	scene.Relayer(c.doc.Registry, func(l int) int {
		if l > c.index {
			return l - 1
		}
		return l
	})
}

// RemoveLayer deletes a layer together with its tiles.
type RemoveLayer struct {
	doc   *Document
	index int
	layer scene.Layer
	tiles []TileData
}

func NewRemoveLayer(doc *Document, index int) *RemoveLayer {
	return &RemoveLayer{doc: doc, index: index}
}

func (c *RemoveLayer) Redo() {
	layer, ok := c.doc.Layers.At(c.index)
	if !ok {
		c.doc.log.Error("editor: remove layer", zap.Int("layer", c.index), zap.Error(scene.ErrLayerRange))
		return
	}
	c.layer = layer
	c.tiles = c.tiles[:0]
	for _, e := range c.doc.Tilemap.OnLayer(c.doc.Registry, c.index) {
		if d, ok := snapshotTile(c.doc.Registry, e); ok {
			c.tiles = append(c.tiles, d)
		}
	}
	c.doc.destroy(c.tiles)
	c.doc.Layers.Remove(c.index)
	scene.Relayer(c.doc.Registry, func(l int) int {
		if l > c.index {
			return l - 1
		}
		return l
	})
}

func (c *RemoveLayer) Undo() {
	if err := c.doc.Layers.Insert(c.index, c.layer); err != nil {
		c.doc.log.Error("editor: undo remove layer", zap.Error(err))
		return
	}
	scene.Relayer(c.doc.Registry, func(l int) int {
		if l >= c.index {
			return l + 1
		}
		return l
	})
	c.doc.revive(c.tiles)
}

// RenameLayer changes a layer name.
type RenameLayer struct {
	doc      *Document
	index    int
	from, to string
}

func NewRenameLayer(doc *Document, index int, name string) *RenameLayer {
	return &RenameLayer{doc: doc, index: index, to: name}
}

func (c *RenameLayer) Redo() {
	old, err := c.doc.Layers.Rename(c.index, c.to)
	if err != nil {
		c.doc.log.Error("editor: rename layer", zap.Error(err))
		return
	}
	c.from = old
}

func (c *RenameLayer) Undo() {
	c.doc.Layers.Rename(c.index, c.from)
}

// MoveLayer reorders a layer and the draw layer of every tile with it.
type MoveLayer struct {
	doc      *Document
	from, to int
}

func NewMoveLayer(doc *Document, from, to int) *MoveLayer {
	return &MoveLayer{doc: doc, from: from, to: to}
}

func (c *MoveLayer) Redo() { c.move(c.from, c.to) }
func (c *MoveLayer) Undo() { c.move(c.to, c.from) }

func (c *MoveLayer) move(from, to int) {
	if err := c.doc.Layers.Move(from, to); err != nil {
		c.doc.log.Error("editor: move layer", zap.Error(err))
		return
	}
	scene.Relayer(c.doc.Registry, func(l int) int { return scene.MovedIndex(l, from, to) })
}

func (*AddTile) sealed()         {}
func (*RemoveTile) sealed()      {}
func (*RectAddTiles) sealed()    {}
func (*RectRemoveTiles) sealed() {}
func (*AddLayer) sealed()        {}
func (*RemoveLayer) sealed()     {}
func (*RenameLayer) sealed()     {}
func (*MoveLayer) sealed()       {}
