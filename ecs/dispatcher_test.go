package ecs

import "testing"

type hit struct{ Damage int }

func TestDispatcherDeliversOnProcess(t *testing.T) {
	d := NewDispatcher(nil)
	if HasHandlers[hit](d) {
		t.Error("HasHandlers before subscribing")
	}
	var got []int
	AddHandler(d, func(h hit) { got = append(got, h.Damage) })
	if !HasHandlers[hit](d) {
		t.Error("HasHandlers after subscribing = false")
	}

	Emit(d, hit{1})
	Emit(d, hit{2})
	if len(got) != 0 {
		t.Fatal("events delivered before Process")
	}
	d.Process()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}
}

func TestDispatcherRecoversPanickingHandler(t *testing.T) {
	d := NewDispatcher(nil)
	ran := false
	AddHandler(d, func(hit) { panic("boom") })
	AddHandler(d, func(hit) { ran = true })
	Emit(d, hit{})
	d.Process()
	if !ran {
		t.Error("second handler should run after the first panicked")
	}
}
