// Package input keeps per-frame keyboard, mouse and gamepad state. State is
// polled once per frame from ebiten and read by scripts and editor tools;
// there are no input callbacks.
package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/scion"
)

// button tracks one digital input across two frames.
type button struct {
	down, prev bool
}

func (b *button) set(down bool) {
	b.prev = b.down
	b.down = down
}

func (b button) pressed() bool      { return b.down }
func (b button) justPressed() bool  { return b.down && !b.prev }
func (b button) justReleased() bool { return !b.down && b.prev }

// --- Keyboard ---

// Keyboard holds the state of every ebiten key.
type Keyboard struct {
	keys [ebiten.KeyMax + 1]button
}

// Update advances one frame, reading each key from down.
func (k *Keyboard) Update(down func(ebiten.Key) bool) {
	for i := range k.keys {
		k.keys[i].set(down(ebiten.Key(i)))
	}
}

func (k *Keyboard) valid(key ebiten.Key) bool {
	return key >= 0 && int(key) < len(k.keys)
}

func (k *Keyboard) IsKeyPressed(key ebiten.Key) bool {
	return k.valid(key) && k.keys[key].pressed()
}

func (k *Keyboard) IsKeyJustPressed(key ebiten.Key) bool {
	return k.valid(key) && k.keys[key].justPressed()
}

func (k *Keyboard) IsKeyJustReleased(key ebiten.Key) bool {
	return k.valid(key) && k.keys[key].justReleased()
}

// KeyByName resolves a key by its ebiten name, case-insensitively
// ("a", "space", "arrowup", "enter").
func KeyByName(name string) (ebiten.Key, bool) {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// --- Mouse ---

// MouseButton indexes the mouse buttons tracked by Mouse.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	mouseButtonCount
)

// Mouse holds cursor position, wheel delta and button state.
type Mouse struct {
	X, Y           float64
	WheelX, WheelY float64
	buttons        [mouseButtonCount]button
}

// MouseState is one frame of raw mouse input.
type MouseState struct {
	X, Y           float64
	WheelX, WheelY float64
	Left, Middle   bool
	Right          bool
}

// Update advances one frame.
func (m *Mouse) Update(s MouseState) {
	m.X, m.Y = s.X, s.Y
	m.WheelX, m.WheelY = s.WheelX, s.WheelY
	m.buttons[MouseLeft].set(s.Left)
	m.buttons[MouseMiddle].set(s.Middle)
	m.buttons[MouseRight].set(s.Right)
}

// Position returns the cursor in screen pixels.
func (m *Mouse) Position() scion.Vec2 {
	return scion.Vec2{X: m.X, Y: m.Y}
}

func (m *Mouse) valid(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount
}

func (m *Mouse) IsPressed(b MouseButton) bool {
	return m.valid(b) && m.buttons[b].pressed()
}

func (m *Mouse) IsJustPressed(b MouseButton) bool {
	return m.valid(b) && m.buttons[b].justPressed()
}

func (m *Mouse) IsJustReleased(b MouseButton) bool {
	return m.valid(b) && m.buttons[b].justReleased()
}

// --- Gamepad ---

// Gamepad holds the standard-layout state of one controller.
type Gamepad struct {
	ID      ebiten.GamepadID
	buttons [ebiten.StandardGamepadButtonMax + 1]button
	axes    [ebiten.StandardGamepadAxisMax + 1]float64
}

// GamepadState is one frame of raw gamepad input.
type GamepadState struct {
	Button func(ebiten.StandardGamepadButton) bool
	Axis   func(ebiten.StandardGamepadAxis) float64
}

// Update advances one frame.
func (g *Gamepad) Update(s GamepadState) {
	for i := range g.buttons {
		g.buttons[i].set(s.Button != nil && s.Button(ebiten.StandardGamepadButton(i)))
	}
	for i := range g.axes {
		if s.Axis != nil {
			g.axes[i] = s.Axis(ebiten.StandardGamepadAxis(i))
		}
	}
}

func (g *Gamepad) validButton(b ebiten.StandardGamepadButton) bool {
	return b >= 0 && int(b) < len(g.buttons)
}

func (g *Gamepad) IsPressed(b ebiten.StandardGamepadButton) bool {
	return g.validButton(b) && g.buttons[b].pressed()
}

func (g *Gamepad) IsJustPressed(b ebiten.StandardGamepadButton) bool {
	return g.validButton(b) && g.buttons[b].justPressed()
}

func (g *Gamepad) IsJustReleased(b ebiten.StandardGamepadButton) bool {
	return g.validButton(b) && g.buttons[b].justReleased()
}

// Axis returns an axis value in [-1, 1].
func (g *Gamepad) Axis(a ebiten.StandardGamepadAxis) float64 {
	if a < 0 || int(a) >= len(g.axes) {
		return 0
	}
	return g.axes[a]
}
