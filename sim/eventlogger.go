package sim

import (
	"log"
	"reflect"
)

// A LogHook records information from the simulation as it runs.
type LogHook interface {
	Hook
}

// LogHookBase holds the logger shared by LogHook implementations.
type LogHookBase struct {
	*log.Logger
}

// EventLogger prints a line for every event the engine triggers, useful
// when debugging event ordering.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger creates an EventLogger writing to the given logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := &EventLogger{}
	h.Logger = logger
	return h
}

// Func logs the event time, type, and handling component.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if comp, ok := evt.Handler().(Component); ok {
		h.Logger.Printf("%.10f, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), comp.Name())
		return
	}

	h.Logger.Printf("%.10f, %s", evt.Time(), reflect.TypeOf(evt))
}
