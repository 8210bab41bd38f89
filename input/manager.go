package input

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Manager owns the input devices of one application. It is stored in the
// registry context and polled once per frame before script updates.
type Manager struct {
	Keyboard Keyboard
	Mouse    Mouse

	gamepads []*Gamepad
	ids      []ebiten.GamepadID
}

func NewManager() *Manager {
	return &Manager{}
}

// Poll reads the current ebiten input state.
func (m *Manager) Poll() {
	m.Keyboard.Update(ebiten.IsKeyPressed)

	cx, cy := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	m.Mouse.Update(MouseState{
		X:      float64(cx),
		Y:      float64(cy),
		WheelX: wx,
		WheelY: wy,
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
	})

	m.ids = ebiten.AppendGamepadIDs(m.ids[:0])
	m.SyncGamepads(m.ids)
	for _, g := range m.gamepads {
		id := g.ID
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		g.Update(GamepadState{
			Button: func(b ebiten.StandardGamepadButton) bool {
				return ebiten.IsStandardGamepadButtonPressed(id, b)
			},
			Axis: func(a ebiten.StandardGamepadAxis) float64 {
				return ebiten.StandardGamepadAxisValue(id, a)
			},
		})
	}
}

// SyncGamepads keeps one Gamepad per connected id, preserving state of
// controllers that stay connected.
func (m *Manager) SyncGamepads(ids []ebiten.GamepadID) {
	kept := m.gamepads[:0]
	for _, g := range m.gamepads {
		if slices.Contains(ids, g.ID) {
			kept = append(kept, g)
		}
	}
	m.gamepads = kept
	for _, id := range ids {
		if m.Gamepad(int(id)) == nil {
			m.gamepads = append(m.gamepads, &Gamepad{ID: id})
		}
	}
}

// Gamepad returns the connected controller with id, or nil.
func (m *Manager) Gamepad(id int) *Gamepad {
	for _, g := range m.gamepads {
		if int(g.ID) == id {
			return g
		}
	}
	return nil
}

// GamepadCount returns the number of connected controllers.
func (m *Manager) GamepadCount() int {
	return len(m.gamepads)
}

// GamepadAt returns the i-th connected controller in connection order, or
// nil.
func (m *Manager) GamepadAt(i int) *Gamepad {
	if i < 0 || i >= len(m.gamepads) {
		return nil
	}
	return m.gamepads[i]
}
