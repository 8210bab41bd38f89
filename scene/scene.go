// Package scene loads scenes and project manifests into a registry.
//
// A scene file is Lua that assigns a global table:
//
//	scene = {
//		name = "level1",
//		layers = { "ground", { name = "decor", visible = false } },
//		tilemap = {
//			texture = "tiles", tile_width = 16, tile_height = 16, columns = 8,
//			tiles = { { layer = "ground", col = 0, row = 0, id = 3 } },
//		},
//		objects = {
//			{ name = "hero", group = "players", components = {
//				transform = { position = { x = 10, y = 10 } },
//				sprite = { width = 16, height = 16, texture = "hero" },
//			} },
//		},
//	}
//
// Component tables use the field names of the component catalog.
package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/script"
)

// Scene is a loaded scene.
type Scene struct {
	Name    string
	Layers  *Layers
	Tilemap *Tilemap
	Objects []ecs.Entity
	Tiles   int
}

// LoadFile runs a scene script in a bare Lua state and loads its scene
// table into r.
func LoadFile(r *ecs.Registry, path string, log *zap.Logger) (*Scene, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("scion/scene: %s: %w", path, err)
	}
	tbl, ok := L.GetGlobal("scene").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scion/scene: %s: no scene table", path)
	}
	data, _ := script.ToGo(tbl).(map[string]any)
	return Load(r, data, log)
}

// Load creates the layers, tiles and objects of data in r. Bad objects and
// tiles are skipped; their errors are joined into the returned error and
// the scene is still returned.
func Load(r *ecs.Registry, data map[string]any, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if r.Catalog() == nil {
		return nil, errors.New("scion/scene: registry has no component catalog")
	}
	s := &Scene{Layers: NewLayers()}
	var errs []error
	var err error
	if s.Name, err = opt(data, "name", ""); err != nil {
		return nil, err
	}

	for i, v := range list(data["layers"]) {
		switch l := v.(type) {
		case string:
			s.Layers.Add(l)
		case map[string]any:
			name, err1 := opt(l, "name", "")
			visible, err2 := opt(l, "visible", true)
			if err := errors.Join(err1, err2); err != nil {
				errs = append(errs, fmt.Errorf("layer %d: %w", i+1, err))
				continue
			}
			s.Layers.Insert(s.Layers.Len(), Layer{Name: name, Visible: visible})
		default:
			errs = append(errs, fmt.Errorf("layer %d: unexpected %T", i+1, v))
		}
	}

	if tm, ok := data["tilemap"].(map[string]any); ok {
		if err := s.loadTilemap(r, tm); err != nil {
			errs = append(errs, err)
		}
	}

	for i, v := range list(data["objects"]) {
		obj, ok := v.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("object %d: unexpected %T", i+1, v))
			continue
		}
		e, err := loadObject(r, obj)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i+1, err))
			continue
		}
		s.Objects = append(s.Objects, e)
	}

	err = errors.Join(errs...)
	if err != nil {
		log.Error("scene loaded with errors", zap.String("scene", s.Name), zap.Error(err))
	}
	log.Info("scene loaded",
		zap.String("scene", s.Name),
		zap.Int("layers", s.Layers.Len()),
		zap.Int("tiles", s.Tiles),
		zap.Int("objects", len(s.Objects)))
	return s, err
}

func (s *Scene) loadTilemap(r *ecs.Registry, data map[string]any) error {
	m := &Tilemap{}
	var errs []error
	var err error
	if m.Texture, err = opt(data, "texture", ""); err != nil {
		errs = append(errs, err)
	}
	if m.TileWidth, err = opt(data, "tile_width", 16); err != nil {
		errs = append(errs, err)
	}
	if m.TileHeight, err = opt(data, "tile_height", m.TileWidth); err != nil {
		errs = append(errs, err)
	}
	if m.Columns, err = opt(data, "columns", 1); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("tilemap: %w", errors.Join(errs...))
	}
	s.Tilemap = m

	for i, v := range list(data["tiles"]) {
		t, ok := v.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("tile %d: unexpected %T", i+1, v))
			continue
		}
		layerName, err1 := opt(t, "layer", "")
		col, err2 := opt(t, "col", 0)
		row, err3 := opt(t, "row", 0)
		id, err4 := opt(t, "id", 0)
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			errs = append(errs, fmt.Errorf("tile %d: %w", i+1, err))
			continue
		}
		layer := s.Layers.Index(layerName)
		if layer < 0 {
			layer = s.Layers.Add(layerName)
		}
		m.Place(r, layer, col, row, id)
		s.Tiles++
	}
	return errors.Join(errs...)
}

func loadObject(r *ecs.Registry, obj map[string]any) (ecs.Entity, error) {
	name, err1 := opt(obj, "name", "")
	group, err2 := opt(obj, "group", "")
	if err := errors.Join(err1, err2); err != nil {
		return ecs.Null, err
	}
	comps, _ := obj["components"].(map[string]any)
	var err error
	if name, group, err = mergeID(name, group, comps); err != nil {
		return ecs.Null, err
	}

	// Build every component before creating the entity so a bad field
	// leaves nothing behind.
	cat := r.Catalog()
	type built struct {
		desc *ecs.Descriptor
		c    any
	}
	var parts []built
	for _, cname := range slices.Sorted(maps.Keys(comps)) {
		if cname == component.NameID {
			continue
		}
		desc, ok := cat.Lookup(cname)
		if !ok {
			return ecs.Null, fmt.Errorf("%s: %w: %q", name, ecs.ErrUnknownComponent, cname)
		}
		tbl, _ := comps[cname].(map[string]any)
		c, err := desc.FromTable(tbl)
		if err != nil {
			return ecs.Null, fmt.Errorf("%s: %w", name, err)
		}
		parts = append(parts, built{desc, c})
	}

	e := r.CreateEntity(name, group)
	for _, p := range parts {
		if _, err := p.desc.Add(r, e, p.c); err != nil {
			r.DestroyNow(e)
			return ecs.Null, fmt.Errorf("%s: %w", name, err)
		}
	}
	return e, nil
}

// mergeID folds an explicit id component into the object's name and group.
// The registry attaches Identification itself, so the entry is never added
// as a component. Conflicting values are an error.
func mergeID(name, group string, comps map[string]any) (string, string, error) {
	v, ok := comps[component.NameID]
	if !ok {
		return name, group, nil
	}
	tbl, _ := v.(map[string]any)
	for k := range tbl {
		if k != "name" && k != "group" {
			return "", "", fmt.Errorf("%s: id has no field %q", name, k)
		}
	}
	idName, err1 := opt(tbl, "name", name)
	idGroup, err2 := opt(tbl, "group", group)
	if err := errors.Join(err1, err2); err != nil {
		return "", "", fmt.Errorf("%s: id: %w", name, err)
	}
	if name != "" && idName != name {
		return "", "", fmt.Errorf("%s: id name %q conflicts with object name", name, idName)
	}
	if group != "" && idGroup != group {
		return "", "", fmt.Errorf("%s: id group %q conflicts with object group", name, idGroup)
	}
	return idName, idGroup, nil
}

// opt reads key from m as V, or def when absent.
func opt[V any](m map[string]any, key string, def V) (V, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	out, err := ecs.Coerce[V](v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}
