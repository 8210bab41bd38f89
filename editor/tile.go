package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// TileData is a full snapshot of a tile entity, enough to revive it at the
// same id.
type TileData struct {
	Entity    ecs.Entity
	ID        component.Identification
	Transform component.Transform
	Sprite    component.Sprite
	Tile      component.Tile
}

func snapshotTile(r *ecs.Registry, e ecs.Entity) (TileData, bool) {
	tile, ok1 := ecs.TryGet[component.Tile](r, e)
	tr, ok2 := ecs.TryGet[component.Transform](r, e)
	sp, ok3 := ecs.TryGet[component.Sprite](r, e)
	if !ok1 || !ok2 || !ok3 {
		return TileData{}, false
	}
	d := TileData{Entity: e, Transform: *tr, Sprite: *sp, Tile: *tile}
	if id, ok := ecs.TryGet[component.Identification](r, e); ok {
		d.ID = *id
	}
	return d, true
}

func (d TileData) revive(r *ecs.Registry) error {
	if _, err := r.CreateWithID(d.Entity); err != nil {
		return fmt.Errorf("revive tile: %w", err)
	}
	ecs.Set(r, d.Entity, d.ID)
	ecs.Set(r, d.Entity, d.Transform)
	ecs.Set(r, d.Entity, d.Sprite)
	ecs.Set(r, d.Entity, d.Tile)
	return nil
}

func (doc *Document) destroy(tiles []TileData) {
	for _, t := range tiles {
		if doc.Registry.Valid(t.Entity) {
			doc.Registry.DestroyNow(t.Entity)
		}
	}
}

func (doc *Document) revive(tiles []TileData) {
	for _, t := range tiles {
		if err := t.revive(doc.Registry); err != nil {
			doc.log.Error("editor: undo lost a tile", zap.Stringer("entity", t.Entity), zap.Error(err))
		}
	}
}

// place creates tiles for cells not yet holding one on layer and returns
// their snapshots.
func (doc *Document) place(layer, tileID int, cells []cell) []TileData {
	var out []TileData
	for _, c := range cells {
		if _, taken := doc.Tilemap.At(doc.Registry, layer, c.col, c.row); taken {
			continue
		}
		e := doc.Tilemap.Place(doc.Registry, layer, c.col, c.row, tileID)
		if d, ok := snapshotTile(doc.Registry, e); ok {
			out = append(out, d)
		}
	}
	return out
}

// free counts the cells without a tile on layer.
func (doc *Document) free(layer int, cells []cell) int {
	n := 0
	for _, c := range cells {
		if _, taken := doc.Tilemap.At(doc.Registry, layer, c.col, c.row); !taken {
			n++
		}
	}
	return n
}

// collect snapshots the existing tiles at cells on layer.
func (doc *Document) collect(layer int, cells []cell) []TileData {
	var out []TileData
	for _, c := range cells {
		e, ok := doc.Tilemap.At(doc.Registry, layer, c.col, c.row)
		if !ok {
			continue
		}
		if d, ok := snapshotTile(doc.Registry, e); ok {
			out = append(out, d)
		}
	}
	return out
}

type cell struct{ col, row int }

// cellRect lists the cells of the inclusive rectangle spanned by two
// corner cells.
func cellRect(c0, r0, c1, r1 int) []cell {
	if c1 < c0 {
		c0, c1 = c1, c0
	}
	if r1 < r0 {
		r0, r1 = r1, r0
	}
	out := make([]cell, 0, (c1-c0+1)*(r1-r0+1))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			out = append(out, cell{col, row})
		}
	}
	return out
}
