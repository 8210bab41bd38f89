package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func keysDown(keys ...ebiten.Key) func(ebiten.Key) bool {
	return func(k ebiten.Key) bool {
		for _, d := range keys {
			if d == k {
				return true
			}
		}
		return false
	}
}

func TestKeyboardTransitions(t *testing.T) {
	var kb Keyboard
	kb.Update(keysDown(ebiten.KeySpace))
	if !kb.IsKeyPressed(ebiten.KeySpace) || !kb.IsKeyJustPressed(ebiten.KeySpace) {
		t.Error("space should be pressed and just pressed")
	}
	kb.Update(keysDown(ebiten.KeySpace))
	if kb.IsKeyJustPressed(ebiten.KeySpace) {
		t.Error("held key should not be just pressed")
	}
	kb.Update(keysDown())
	if kb.IsKeyPressed(ebiten.KeySpace) || !kb.IsKeyJustReleased(ebiten.KeySpace) {
		t.Error("space should be just released")
	}
	if kb.IsKeyPressed(-1) {
		t.Error("invalid key should read as released")
	}
}

func TestKeyByName(t *testing.T) {
	k, ok := KeyByName("space")
	if !ok || k != ebiten.KeySpace {
		t.Errorf("KeyByName(space) = %v, %v", k, ok)
	}
	if _, ok := KeyByName("A"); !ok {
		t.Error("KeyByName(A) failed")
	}
	if _, ok := KeyByName("not-a-key"); ok {
		t.Error("unexpected key for bogus name")
	}
}

func TestMouseButtons(t *testing.T) {
	var m Mouse
	m.Update(MouseState{X: 3, Y: 4, Left: true})
	if !m.IsJustPressed(MouseLeft) || m.IsPressed(MouseRight) {
		t.Error("left should be just pressed, right released")
	}
	if p := m.Position(); p.X != 3 || p.Y != 4 {
		t.Errorf("Position = %+v", p)
	}
	m.Update(MouseState{})
	if !m.IsJustReleased(MouseLeft) {
		t.Error("left should be just released")
	}
}

func TestGamepadSync(t *testing.T) {
	m := NewManager()
	m.SyncGamepads([]ebiten.GamepadID{0, 2})
	if m.GamepadCount() != 2 || m.Gamepad(2) == nil {
		t.Fatalf("gamepads = %d", m.GamepadCount())
	}
	g := m.Gamepad(0)
	g.Update(GamepadState{
		Button: func(b ebiten.StandardGamepadButton) bool { return b == ebiten.StandardGamepadButtonRightBottom },
		Axis:   func(a ebiten.StandardGamepadAxis) float64 { return 0.5 },
	})
	m.SyncGamepads([]ebiten.GamepadID{0})
	if m.Gamepad(2) != nil || m.Gamepad(0) != g {
		t.Error("sync should drop disconnected and keep connected pads")
	}
	if !g.IsJustPressed(ebiten.StandardGamepadButtonRightBottom) {
		t.Error("A button should be just pressed")
	}
	if g.Axis(ebiten.StandardGamepadAxisLeftStickHorizontal) != 0.5 {
		t.Error("axis value lost")
	}
}
