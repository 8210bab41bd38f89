package ecs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/phanxgames/scion"
)

func fmtUnknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Field reads and writes one named field of a component. Values cross the
// boundary as plain Go values: float64, int, bool, string, scion.Vec2,
// scion.Color, or nested map[string]any / []any tables.
type Field struct {
	Name string
	get  func(c any) any
	set  func(c any, v any) error
}

// FieldOf declares a field of component T whose Go type is V. Incoming
// values are converted with Coerce.
func FieldOf[T, V any](name string, get func(*T) V, set func(*T, V)) Field {
	return Field{
		Name: name,
		get:  func(c any) any { return get(c.(*T)) },
		set: func(c any, v any) error {
			val, err := Coerce[V](v)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			set(c.(*T), val)
			return nil
		},
	}
}

// Descriptor is the capability set of one component type: construction
// from a table, field access, and registry operations, all addressed by
// name. Scripting hosts and scene loaders bind against descriptors rather
// than against concrete types.
type Descriptor struct {
	Name   string
	Type   reflect.Type
	Fields []Field

	byName map[string]int
	zero   func() any
	add    func(r *Registry, e Entity, c any) (any, error)
	get    func(r *Registry, e Entity) (any, bool)
	has    func(r *Registry, e Entity) bool
	remove func(r *Registry, e Entity) error
}

// Defaulter is implemented by components whose useful zero state is not
// the Go zero value.
type Defaulter interface {
	SetDefaults()
}

// New returns a pointer to a new component with defaults applied.
func (d *Descriptor) New() any {
	return d.zero()
}

// FromTable builds a component pointer from named values. Unknown keys are
// reported; missing keys keep their defaults.
func (d *Descriptor) FromTable(tbl map[string]any) (any, error) {
	c := d.zero()
	keys := make([]string, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.SetField(c, k, tbl[k]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ToTable returns every field of c by name.
func (d *Descriptor) ToTable(c any) map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Name] = f.get(c)
	}
	return out
}

// HasField reports whether the component declares name.
func (d *Descriptor) HasField(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// GetField reads one field of the component pointer c.
func (d *Descriptor) GetField(c any, name string) (any, error) {
	i, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("ecs: %s has no field %q", d.Name, name)
	}
	return d.Fields[i].get(c), nil
}

// SetField writes one field of the component pointer c.
func (d *Descriptor) SetField(c any, name string, v any) error {
	i, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("ecs: %s has no field %q", d.Name, name)
	}
	if err := d.Fields[i].set(c, v); err != nil {
		return fmt.Errorf("ecs: %s: %w", d.Name, err)
	}
	return nil
}

// Add attaches the component pointer c (as returned by New or FromTable)
// to e and returns the stored pointer.
func (d *Descriptor) Add(r *Registry, e Entity, c any) (any, error) {
	return d.add(r, e, c)
}

// Get returns e's component pointer.
func (d *Descriptor) Get(r *Registry, e Entity) (any, bool) {
	return d.get(r, e)
}

func (d *Descriptor) Has(r *Registry, e Entity) bool {
	return d.has(r, e)
}

func (d *Descriptor) Remove(r *Registry, e Entity) error {
	return d.remove(r, e)
}

// Catalog maps component names to descriptors.
type Catalog struct {
	byName map[string]*Descriptor
	byType map[reflect.Type]*Descriptor
	names  []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]*Descriptor),
		byType: make(map[reflect.Type]*Descriptor),
	}
}

// Register adds a descriptor for T under name, replacing any previous
// registration of the same name.
func Register[T any](c *Catalog, name string, fields ...Field) *Descriptor {
	d := &Descriptor{
		Name:   name,
		Type:   reflect.TypeFor[T](),
		Fields: fields,
		byName: make(map[string]int, len(fields)),
		zero: func() any {
			p := new(T)
			if d, ok := any(p).(Defaulter); ok {
				d.SetDefaults()
			}
			return p
		},
		add: func(r *Registry, e Entity, c any) (any, error) {
			p, ok := c.(*T)
			if !ok {
				return nil, fmt.Errorf("ecs: %s: got %T, want *%s", name, c, typeName[T]())
			}
			return Add(r, e, *p)
		},
		get: func(r *Registry, e Entity) (any, bool) {
			return TryGet[T](r, e)
		},
		has: func(r *Registry, e Entity) bool {
			return Has[T](r, e)
		},
		remove: func(r *Registry, e Entity) error {
			return Remove[T](r, e)
		},
	}
	for i, f := range fields {
		d.byName[f.Name] = i
	}
	if _, exists := c.byName[name]; !exists {
		c.names = append(c.names, name)
	}
	c.byName[name] = d
	c.byType[d.Type] = d
	return d
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (*Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// LookupType returns the descriptor of a component type.
func (c *Catalog) LookupType(t reflect.Type) (*Descriptor, bool) {
	d, ok := c.byType[t]
	return d, ok
}

// Names returns registered names in registration order.
func (c *Catalog) Names() []string {
	return c.names
}

// Components returns the name -> component pointer map of everything e has
// that the catalog knows about.
func (c *Catalog) Components(r *Registry, e Entity) map[string]any {
	out := make(map[string]any)
	for _, n := range c.names {
		if p, ok := c.byName[n].Get(r, e); ok {
			out[n] = p
		}
	}
	return out
}

// --- Coercion ---

// Coerce converts a loosely typed value into V. Numbers convert between
// kinds; Vec2 accepts {x=, y=} maps and two-element lists; Color accepts
// {r=, g=, b=, a=} maps (a defaults to 1) and lists.
func Coerce[V any](v any) (V, error) {
	var zero V
	if x, ok := v.(V); ok {
		return x, nil
	}
	var out any
	switch any(zero).(type) {
	case float64:
		f, ok := toFloat(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = f
	case float32:
		f, ok := toFloat(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = float32(f)
	case int:
		f, ok := toFloat(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = int(f)
	case int32:
		f, ok := toFloat(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = int32(f)
	case uint32:
		f, ok := toFloat(v)
		if !ok || f < 0 {
			return zero, coerceErr[V](v)
		}
		out = uint32(f)
	case Entity:
		f, ok := toFloat(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = Entity(uint64(f))
	case bool:
		b, ok := v.(bool)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = b
	case string:
		s, ok := v.(string)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = s
	case scion.Vec2:
		vec, ok := toVec2(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = vec
	case scion.Color:
		col, ok := toColor(v)
		if !ok {
			return zero, coerceErr[V](v)
		}
		out = col
	default:
		return zero, coerceErr[V](v)
	}
	return out.(V), nil
}

func coerceErr[V any](v any) error {
	return fmt.Errorf("cannot use %T as %s", v, reflect.TypeFor[V]())
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case Entity:
		return float64(n), true
	}
	return 0, false
}

func toVec2(v any) (scion.Vec2, bool) {
	switch t := v.(type) {
	case map[string]any:
		x, okx := toFloat(t["x"])
		y, oky := toFloat(t["y"])
		return scion.Vec2{X: x, Y: y}, okx && oky
	case []any:
		if len(t) != 2 {
			return scion.Vec2{}, false
		}
		x, okx := toFloat(t[0])
		y, oky := toFloat(t[1])
		return scion.Vec2{X: x, Y: y}, okx && oky
	}
	return scion.Vec2{}, false
}

func toColor(v any) (scion.Color, bool) {
	c := scion.Color{A: 1}
	var ok [4]bool
	switch t := v.(type) {
	case map[string]any:
		c.R, ok[0] = toFloat(t["r"])
		c.G, ok[1] = toFloat(t["g"])
		c.B, ok[2] = toFloat(t["b"])
		ok[3] = true
		if a, has := t["a"]; has {
			c.A, ok[3] = toFloat(a)
		}
	case []any:
		if len(t) < 3 || len(t) > 4 {
			return c, false
		}
		c.R, ok[0] = toFloat(t[0])
		c.G, ok[1] = toFloat(t[1])
		c.B, ok[2] = toFloat(t[2])
		ok[3] = true
		if len(t) == 4 {
			c.A, ok[3] = toFloat(t[3])
		}
	default:
		return c, false
	}
	return c, ok[0] && ok[1] && ok[2] && ok[3]
}
