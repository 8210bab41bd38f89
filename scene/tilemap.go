package scene

import (
	"math"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// TileGroup is the entity group of every tile.
const TileGroup = "tiles"

// Tilemap describes the tile grid of a scene. Tiles are plain entities
// with Transform, Sprite and Tile components; the sprite layer is the
// index of the tile layer they belong to.
type Tilemap struct {
	Texture    string
	TileWidth  int
	TileHeight int
	// Columns is the number of tiles per row of the texture.
	Columns int
}

// Cell returns the grid cell containing world point p.
func (m *Tilemap) Cell(p scion.Vec2) (col, row int) {
	return int(math.Floor(p.X / float64(m.TileWidth))), int(math.Floor(p.Y / float64(m.TileHeight)))
}

// CellPosition returns the world position of the top-left corner of a cell.
func (m *Tilemap) CellPosition(col, row int) scion.Vec2 {
	return scion.Vec2{X: float64(col * m.TileWidth), Y: float64(row * m.TileHeight)}
}

// Place creates a tile entity showing tile id at the cell.
func (m *Tilemap) Place(r *ecs.Registry, layer, col, row, id int) ecs.Entity {
	e := r.CreateEntity("", TileGroup)
	m.attach(r, e, layer, col, row, id)
	return e
}

func (m *Tilemap) attach(r *ecs.Registry, e ecs.Entity, layer, col, row, id int) {
	cols := max(m.Columns, 1)
	tr := component.NewTransform(m.CellPosition(col, row))
	sp := component.Sprite{
		Width:   float64(m.TileWidth),
		Height:  float64(m.TileHeight),
		StartX:  id % cols,
		StartY:  id / cols,
		Layer:   layer,
		Texture: m.Texture,
	}
	sp.SetDefaults()
	ecs.Set(r, e, tr)
	ecs.Set(r, e, sp)
	ecs.Set(r, e, component.Tile{ID: id})
}

// At returns the tile entity at a cell of a layer.
func (m *Tilemap) At(r *ecs.Registry, layer, col, row int) (ecs.Entity, bool) {
	pos := m.CellPosition(col, row)
	found := ecs.Null
	ecs.Each3(r, func(e ecs.Entity, _ *component.Tile, t *component.Transform, s *component.Sprite) {
		if found == ecs.Null && s.Layer == layer && t.Position == pos {
			found = e
		}
	})
	return found, found != ecs.Null
}

// OnLayer lists the tile entities of a layer.
func (m *Tilemap) OnLayer(r *ecs.Registry, layer int) []ecs.Entity {
	var out []ecs.Entity
	ecs.Each2(r, func(e ecs.Entity, _ *component.Tile, s *component.Sprite) {
		if s.Layer == layer {
			out = append(out, e)
		}
	})
	return out
}

// Relayer rewrites the layer of every tile through fn.
func Relayer(r *ecs.Registry, fn func(layer int) int) {
	ecs.Each2(r, func(_ ecs.Entity, _ *component.Tile, s *component.Sprite) {
		s.Layer = fn(s.Layer)
	})
}
