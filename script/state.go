package script

import (
	"fmt"

	"go.uber.org/zap"
)

// State is one state of a StateMachine or StateStack. Nil callbacks are
// skipped. A callback that returns an error or panics is logged and does
// not stop the callbacks after it.
type State struct {
	Enter        func(params any) error
	Exit         func() error
	Update       func(dt float64) error
	HandleInputs func() error
	Render       func() error
}

func guard(log *zap.Logger, state, callback string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("state callback panicked",
				zap.String("state", state),
				zap.String("callback", callback),
				zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	if err := fn(); err != nil {
		log.Error("state callback failed",
			zap.String("state", state),
			zap.String("callback", callback),
			zap.Error(err))
	}
}

// StateMachine switches between named states.
type StateMachine struct {
	log      *zap.Logger
	states   map[string]*State
	current  string
	removed  []string
	updating bool
}

func NewStateMachine(log *zap.Logger) *StateMachine {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateMachine{log: log, states: make(map[string]*State)}
}

// Add registers st under name, replacing any state of that name.
func (m *StateMachine) Add(name string, st *State) {
	m.states[name] = st
}

// Remove drops a state. During Update the state is only flagged and is
// purged once the update returns.
func (m *StateMachine) Remove(name string) {
	if m.updating {
		m.removed = append(m.removed, name)
		return
	}
	m.purge(name)
}

func (m *StateMachine) purge(name string) {
	delete(m.states, name)
	if m.current == name {
		m.current = ""
	}
}

// Has reports whether name is registered.
func (m *StateMachine) Has(name string) bool {
	_, ok := m.states[name]
	return ok
}

// Current returns the name of the active state, or "".
func (m *StateMachine) Current() string {
	return m.current
}

// Len returns the number of registered states.
func (m *StateMachine) Len() int {
	return len(m.states)
}

// Change exits the active state and enters name with params.
func (m *StateMachine) Change(name string, params any) error {
	next, ok := m.states[name]
	if !ok {
		return fmt.Errorf("script: no state %q", name)
	}
	if cur, ok := m.states[m.current]; ok && cur.Exit != nil {
		guard(m.log, m.current, "on_exit", cur.Exit)
	}
	m.current = name
	if next.Enter != nil {
		guard(m.log, name, "on_enter", func() error { return next.Enter(params) })
	}
	return nil
}

// Update runs the active state's Update and then purges states removed
// while it ran.
func (m *StateMachine) Update(dt float64) {
	if cur, ok := m.states[m.current]; ok && cur.Update != nil {
		m.updating = true
		guard(m.log, m.current, "update", func() error { return cur.Update(dt) })
		m.updating = false
	}
	for _, name := range m.removed {
		m.purge(name)
	}
	m.removed = m.removed[:0]
}

// Render runs the active state's Render.
func (m *StateMachine) Render() {
	if cur, ok := m.states[m.current]; ok && cur.Render != nil {
		guard(m.log, m.current, "render", cur.Render)
	}
}

type stackEntry struct {
	name   string
	state  *State
	killed bool
}

// StateStack runs the state on top of a stack. Pop only marks the top
// state; it exits on the next Update after its own update and input
// handling.
type StateStack struct {
	log     *zap.Logger
	entries []*stackEntry
}

func NewStateStack(log *zap.Logger) *StateStack {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateStack{log: log}
}

// Len returns the stack depth.
func (s *StateStack) Len() int {
	return len(s.entries)
}

// Top returns the name of the top state, or "".
func (s *StateStack) Top() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].name
}

// Push enters st on top of the stack. A top state marked by Pop exits
// first.
func (s *StateStack) Push(name string, st *State, params any) {
	s.exitKilled()
	s.entries = append(s.entries, &stackEntry{name: name, state: st})
	if st.Enter != nil {
		guard(s.log, name, "on_enter", func() error { return st.Enter(params) })
	}
}

// Pop marks the top state for exit.
func (s *StateStack) Pop() {
	if len(s.entries) == 0 {
		s.log.Warn("state stack: pop on empty stack")
		return
	}
	s.entries[len(s.entries)-1].killed = true
}

// Change exits the top state immediately and enters st in its place.
func (s *StateStack) Change(name string, st *State, params any) {
	if n := len(s.entries); n > 0 {
		top := s.entries[n-1]
		s.entries = s.entries[:n-1]
		s.exit(top)
	}
	s.Push(name, st, params)
}

// Update calls on_update and handle_inputs of the top state and, if it
// was popped, on_exit, in that order.
func (s *StateStack) Update(dt float64) {
	n := len(s.entries)
	if n == 0 {
		return
	}
	top := s.entries[n-1]
	if st := top.state; st.Update != nil {
		guard(s.log, top.name, "on_update", func() error { return st.Update(dt) })
	}
	if st := top.state; st.HandleInputs != nil {
		guard(s.log, top.name, "handle_inputs", st.HandleInputs)
	}
	s.exitKilled()
}

// Render draws the top state.
func (s *StateStack) Render() {
	if n := len(s.entries); n > 0 {
		top := s.entries[n-1]
		if top.state.Render != nil {
			guard(s.log, top.name, "render", top.state.Render)
		}
	}
}

func (s *StateStack) exitKilled() {
	for n := len(s.entries); n > 0 && s.entries[n-1].killed; n = len(s.entries) {
		top := s.entries[n-1]
		s.entries = s.entries[:n-1]
		s.exit(top)
	}
}

func (s *StateStack) exit(e *stackEntry) {
	if e.state.Exit != nil {
		guard(s.log, e.name, "on_exit", e.state.Exit)
	}
}
