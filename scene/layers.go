package scene

import (
	"errors"
	"fmt"
	"slices"
)

// ErrLayerRange is returned for a layer index outside the list.
var ErrLayerRange = errors.New("scion/scene: layer index out of range")

// Layer is one tile layer. Its index in Layers is the draw layer of its
// tiles.
type Layer struct {
	Name    string
	Visible bool
}

// Layers is the ordered tile-layer list of a scene. Index 0 draws first.
type Layers struct {
	items []Layer
}

// NewLayers returns visible layers with the given names.
func NewLayers(names ...string) *Layers {
	l := &Layers{}
	for _, n := range names {
		l.items = append(l.items, Layer{Name: n, Visible: true})
	}
	return l
}

func (l *Layers) Len() int { return len(l.items) }

// At returns the layer at i.
func (l *Layers) At(i int) (Layer, bool) {
	if i < 0 || i >= len(l.items) {
		return Layer{}, false
	}
	return l.items[i], true
}

// Index returns the index of the first layer named name, or -1.
func (l *Layers) Index(name string) int {
	return slices.IndexFunc(l.items, func(x Layer) bool { return x.Name == name })
}

// Names lists layer names in draw order.
func (l *Layers) Names() []string {
	out := make([]string, len(l.items))
	for i, x := range l.items {
		out[i] = x.Name
	}
	return out
}

// Add appends a visible layer and returns its index.
func (l *Layers) Add(name string) int {
	l.items = append(l.items, Layer{Name: name, Visible: true})
	return len(l.items) - 1
}

// Insert places x at index i, shifting later layers up. i may equal Len.
func (l *Layers) Insert(i int, x Layer) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("%w: insert at %d of %d", ErrLayerRange, i, len(l.items))
	}
	l.items = slices.Insert(l.items, i, x)
	return nil
}

// Remove deletes the layer at i and returns it.
func (l *Layers) Remove(i int) (Layer, error) {
	x, ok := l.At(i)
	if !ok {
		return Layer{}, fmt.Errorf("%w: remove %d of %d", ErrLayerRange, i, len(l.items))
	}
	l.items = slices.Delete(l.items, i, i+1)
	return x, nil
}

// Rename sets the name of layer i and returns the previous name.
func (l *Layers) Rename(i int, name string) (string, error) {
	if _, ok := l.At(i); !ok {
		return "", fmt.Errorf("%w: rename %d of %d", ErrLayerRange, i, len(l.items))
	}
	old := l.items[i].Name
	l.items[i].Name = name
	return old, nil
}

// Move takes the layer at from and reinserts it at to.
func (l *Layers) Move(from, to int) error {
	n := len(l.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d of %d", ErrLayerRange, from, to, n)
	}
	x := l.items[from]
	l.items = slices.Insert(slices.Delete(l.items, from, from+1), to, x)
	return nil
}

// SetVisible shows or hides layer i.
func (l *Layers) SetVisible(i int, visible bool) {
	if i >= 0 && i < len(l.items) {
		l.items[i].Visible = visible
	}
}

// MovedIndex returns where index i ends up after Move(from, to).
func MovedIndex(i, from, to int) int {
	switch {
	case i == from:
		return to
	case from < to && i > from && i <= to:
		return i - 1
	case to < from && i >= to && i < from:
		return i + 1
	}
	return i
}
