package sim

import (
	"sync"
)

// A TickEvent marks one clock edge of a component.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent for the handler at the given time.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time

	return evt
}

// A Ticker advances its state by one cycle per Tick call. It reports whether
// the cycle changed anything, so the scheduler knows whether to keep ticking.
type Ticker interface {
	Tick() bool
}

// A TickScheduler turns tick requests into at most one TickEvent per cycle.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	Freq      Freq
	Engine    Engine
	secondary bool

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a TickScheduler that emits primary tick events.
func NewTickScheduler(handler Handler, engine Engine, freq Freq) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
		Freq:    freq,
		// Negative so that the very first tick request always schedules.
		nextTickTime: -1,
	}
}

// NewSecondaryTickScheduler creates a TickScheduler whose tick events are
// secondary, firing after all primary events of the same time.
func NewSecondaryTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	s := NewTickScheduler(handler, engine, freq)
	s.secondary = true

	return s
}

// TickNow requests a tick on the current cycle.
func (t *TickScheduler) TickNow() {
	t.scheduleTickAt(t.Freq.ThisTick(t.CurrentTime()))
}

// TickLater requests a tick on the cycle after the current time.
func (t *TickScheduler) TickLater() {
	t.scheduleTickAt(t.Freq.NextTick(t.CurrentTime()))
}

// scheduleTickAt schedules a tick event at the given time unless one is
// already pending at that time or later.
func (t *TickScheduler) scheduleTickAt(time VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time

	tick := MakeTickEvent(t.handler, time)
	tick.secondary = t.secondary
	t.Engine.Schedule(tick)
}

// CurrentTime returns the engine's current time.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// A TickingComponent is a Component whose behavior is written as a single
// per-cycle Tick function. It keeps ticking as long as Tick reports progress
// and goes idle otherwise, to be woken again by port notifications.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NotifyPortFree wakes the component when an outgoing buffer drains.
func (c *TickingComponent) NotifyPortFree(_ Port) {
	c.TickLater()
}

// NotifyRecv wakes the component when a message arrives.
func (c *TickingComponent) NotifyRecv(_ Port) {
	c.TickLater()
}

// Handle runs one cycle and reschedules if the cycle made progress.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}

// NewTickingComponent creates a TickingComponent that ticks with primary
// events.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// NewSecondaryTickingComponent creates a TickingComponent that ticks with
// secondary events. Connections use this so they move messages after the
// components of the same cycle have settled.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewSecondaryTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}
