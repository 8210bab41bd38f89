package ecs

import (
	"fmt"
	"reflect"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"go.uber.org/zap"
)

// Dispatcher routes typed events to handlers. Events are queued by Emit and
// delivered by Process, once per frame, through Donburi event types. A
// handler that panics is logged and skipped; later handlers still run.
type Dispatcher struct {
	log      *zap.Logger
	world    donburi.World
	types    map[reflect.Type]any
	handlers map[reflect.Type]int
	process  []func(donburi.World)
}

// NewDispatcher creates an empty dispatcher. A nil logger discards output.
func NewDispatcher(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		log:      log,
		world:    donburi.NewWorld(),
		types:    make(map[reflect.Type]any),
		handlers: make(map[reflect.Type]int),
	}
}

func eventType[T any](d *Dispatcher) *events.EventType[T] {
	t := reflect.TypeFor[T]()
	if et, ok := d.types[t]; ok {
		return et.(*events.EventType[T])
	}
	et := events.NewEventType[T]()
	d.types[t] = et
	d.process = append(d.process, et.ProcessEvents)
	return et
}

// AddHandler subscribes fn to events of type T.
func AddHandler[T any](d *Dispatcher, fn func(T)) {
	name := typeName[T]()
	eventType[T](d).Subscribe(d.world, func(_ donburi.World, ev T) {
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error("ecs: event handler panicked",
					zap.String("event", name),
					zap.String("panic", fmt.Sprint(rec)),
					zap.Stack("stack"))
			}
		}()
		fn(ev)
	})
	d.handlers[reflect.TypeFor[T]()]++
}

// HasHandlers reports whether anything subscribed to T.
func HasHandlers[T any](d *Dispatcher) bool {
	return d.handlers[reflect.TypeFor[T]()] > 0
}

// Emit queues ev for the next Process.
func Emit[T any](d *Dispatcher, ev T) {
	eventType[T](d).Publish(d.world, ev)
}

// Process delivers every queued event, grouped by event type in the order
// the types were first used.
func (d *Dispatcher) Process() {
	for _, p := range d.process {
		p(d.world)
	}
}
