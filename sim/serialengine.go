package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine triggers events one at a time, in time order. Events at the
// same time fire in two rounds: all primary events first, then the secondary
// ones, so that components settle before connections move messages.
type SerialEngine struct {
	HookableBase

	nowLock sync.RWMutex
	now     VTimeInSec

	primaryEvents   EventQueue
	secondaryEvents EventQueue

	paused     bool
	pausedLock sync.Mutex
	stepLock   sync.Mutex

	runLock sync.Mutex

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine with empty event queues.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		primaryEvents:   NewEventQueue(),
		secondaryEvents: NewEventQueue(),
	}
}

// Schedule puts an event into the queue it belongs to. Scheduling into the
// past is a programming error and panics.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.CurrentTime() {
		log.Panic("scheduling an event earlier than current time")
	}

	if evt.IsSecondary() {
		e.secondaryEvents.Push(evt)
		return
	}

	e.primaryEvents.Push(evt)
}

// Run triggers all scheduled events until both queues drain.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for {
		e.stepLock.Lock()

		evt := e.popEarliest()
		if evt == nil {
			e.stepLock.Unlock()
			return nil
		}

		e.triggerEvent(evt)
		e.stepLock.Unlock()
	}
}

// popEarliest removes and returns the event that must fire next, preferring
// the primary queue when both heads carry the same time. It returns nil when
// no event is left.
func (e *SerialEngine) popEarliest() Event {
	switch {
	case e.primaryEvents.Len() == 0 && e.secondaryEvents.Len() == 0:
		return nil
	case e.primaryEvents.Len() == 0:
		return e.secondaryEvents.Pop()
	case e.secondaryEvents.Len() == 0:
		return e.primaryEvents.Pop()
	case e.primaryEvents.Peek().Time() <= e.secondaryEvents.Peek().Time():
		return e.primaryEvents.Pop()
	default:
		return e.secondaryEvents.Pop()
	}
}

func (e *SerialEngine) triggerEvent(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		log.Panicf("cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now)
	}
	e.advanceTo(evt.Time())

	ctx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(ctx)

	_ = evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)
}

func (e *SerialEngine) advanceTo(t VTimeInSec) {
	e.nowLock.Lock()
	e.now = t
	e.nowLock.Unlock()
}

// CurrentTime returns the time of the event being triggered, or of the last
// one triggered.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.nowLock.RLock()
	defer e.nowLock.RUnlock()

	return e.now
}

// Pause blocks the engine before the next event. It is safe to call from
// another goroutine while Run is in progress.
func (e *SerialEngine) Pause() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if e.paused {
		return
	}

	e.stepLock.Lock()
	e.paused = true
}

// Continue lets a paused engine trigger events again.
func (e *SerialEngine) Continue() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if !e.paused {
		return
	}

	e.stepLock.Unlock()
	e.paused = false
}

// RegisterSimulationEndHandler adds a handler to run when the simulation
// completes.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished runs all the registered SimulationEndHandlers.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
