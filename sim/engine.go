package sim

// TimeTeller reports the current virtual time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events to be triggered in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs once, after the last event has been processed.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine drives a discrete-event simulation. It owns virtual time and
// decides when each scheduled event fires.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run triggers scheduled events, in time order, until no event is left.
	Run() error

	// Pause stops event processing until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler adds a handler to run when the
	// simulation completes.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished runs all the registered SimulationEndHandlers.
	Finished()
}
