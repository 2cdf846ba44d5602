package sim

// VTimeInSec is a point on the simulated clock, measured in seconds.
type VTimeInSec float64

// An Event is a scheduled piece of work the engine triggers at a fixed
// simulated time.
type Event interface {
	// Time returns when the event fires.
	Time() VTimeInSec

	// Handler returns who processes the event when it fires.
	Handler() Handler

	// IsSecondary marks events that fire only after every primary event
	// scheduled at the same time has been handled.
	IsSecondary() bool
}

// EventBase supplies the common fields of an event. Concrete events embed
// it and add their payload.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates an EventBase firing at time t, handled by handler.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event fires.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns who processes the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary reports whether the event fires after same-time primary
// events.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler processes events. An event is scheduled by its own handler and
// must only mutate that handler's state, which keeps the simulation
// deterministic.
type Handler interface {
	Handle(e Event) error
}
