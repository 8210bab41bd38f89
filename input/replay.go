package input

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// replayStep is one action of a replay script.
type replayStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	Keys   []string `json:"keys,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	FromX  float64  `json:"fromX,omitempty"`
	FromY  float64  `json:"fromY,omitempty"`
	ToX    float64  `json:"toX,omitempty"`
	ToY    float64  `json:"toY,omitempty"`
	Frames int      `json:"frames,omitempty"`

	keys []ebiten.Key
}

type replayScript struct {
	Steps []replayStep `json:"steps"`
}

// replayFrame is the full device state for one synthetic frame.
type replayFrame struct {
	mouse MouseState
	keys  []ebiten.Key
}

// Replay feeds a Manager from a JSON script instead of the real devices,
// one frame per Step. Actions are "click", "drag", "key" (press then
// release a chord), "wait" and "screenshot":
//
//	{"steps": [
//		{"action": "click", "x": 100, "y": 200},
//		{"action": "key", "keys": ["ControlLeft", "Z"]},
//		{"action": "wait", "frames": 3},
//		{"action": "screenshot", "label": "after-undo"}
//	]}
type Replay struct {
	steps  []replayStep
	cursor int
	wait   int
	done   bool

	queue   []replayFrame
	pointer MouseState
}

// LoadReplay parses a replay script. Unknown actions and key names are
// rejected here rather than at playback.
func LoadReplay(data []byte) (*Replay, error) {
	var script replayScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "click", "drag", "wait", "screenshot":
		case "key":
			if len(st.Keys) == 0 {
				return nil, fmt.Errorf("parse replay: step %d: key without keys", i+1)
			}
			for _, name := range st.Keys {
				k, ok := KeyByName(name)
				if !ok {
					return nil, fmt.Errorf("parse replay: step %d: unknown key %q", i+1, name)
				}
				st.keys = append(st.keys, k)
			}
		default:
			return nil, fmt.Errorf("parse replay: step %d: unknown action %q", i+1, st.Action)
		}
	}
	return &Replay{steps: script.Steps}, nil
}

// Done reports whether every step has run and every queued frame has been
// fed.
func (r *Replay) Done() bool {
	return r.done
}

// Step advances the script by one frame and feeds the resulting device
// state into m. It returns the labels of screenshots requested this frame.
func (r *Replay) Step(m *Manager) []string {
	shots := r.advance()
	f := replayFrame{mouse: MouseState{X: r.pointer.X, Y: r.pointer.Y}}
	if len(r.queue) > 0 {
		f = r.queue[0]
		r.queue = r.queue[1:]
	}
	r.pointer = f.mouse
	m.Keyboard.Update(func(k ebiten.Key) bool { return slices.Contains(f.keys, k) })
	m.Mouse.Update(f.mouse)
	return shots
}

func (r *Replay) advance() []string {
	if r.done || len(r.queue) > 0 {
		return nil
	}
	if r.wait > 0 {
		r.wait--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	var shots []string
	st := r.steps[r.cursor]
	r.cursor++
	switch st.Action {
	case "screenshot":
		shots = append(shots, st.Label)
	case "click":
		r.press(st.X, st.Y)
		r.release(st.X, st.Y)
	case "drag":
		frames := max(st.Frames, 2)
		r.press(st.FromX, st.FromY)
		moves := frames - 2
		for i := 1; i <= moves; i++ {
			t := float64(i) / float64(moves+1)
			r.queue = append(r.queue, replayFrame{mouse: MouseState{
				X:    st.FromX + (st.ToX-st.FromX)*t,
				Y:    st.FromY + (st.ToY-st.FromY)*t,
				Left: true,
			}})
		}
		r.release(st.ToX, st.ToY)
	case "key":
		r.queue = append(r.queue,
			replayFrame{mouse: r.last(), keys: st.keys},
			replayFrame{mouse: r.last()})
	case "wait":
		if st.Frames > 0 {
			r.wait = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.wait == 0 && len(r.queue) == 0 {
		r.done = true
	}
	return shots
}

func (r *Replay) press(x, y float64) {
	r.queue = append(r.queue, replayFrame{mouse: MouseState{X: x, Y: y, Left: true}})
}

func (r *Replay) release(x, y float64) {
	r.queue = append(r.queue, replayFrame{mouse: MouseState{X: x, Y: y}})
}

// last returns the pointer position after every queued frame, with no
// buttons held.
func (r *Replay) last() MouseState {
	p := r.pointer
	if n := len(r.queue); n > 0 {
		p = r.queue[n-1].mouse
	}
	return MouseState{X: p.X, Y: p.Y}
}
