package dualportram

import (
	"github.com/sarchlab/bramsim/bram"
	"github.com/sarchlab/bramsim/sim"
)

// Builder can build dual-port RAM components.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	portBufSize int
	storage     *bram.WordArray
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.GHz,
		portBufSize: 2,
	}
}

// WithEngine sets the engine of the RAM.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the RAM.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPortBufSize sets the incoming buffer capacity of the ports.
func (b Builder) WithPortBufSize(n int) Builder {
	b.portBufSize = n
	return b
}

// WithStorage sets the backing word array of the RAM. Mainly useful for
// pre-loading content in tests.
func (b Builder) WithStorage(storage *bram.WordArray) Builder {
	b.storage = storage
	return b
}

// Build creates a new Comp.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	if b.storage == nil {
		c.Storage = bram.NewWordArray()
	} else {
		c.Storage = b.storage
	}

	c.writePort = sim.NewPort(c, b.portBufSize, b.portBufSize,
		sim.BuildName(name, "Write"))
	c.readPort = sim.NewPort(c, b.portBufSize, b.portBufSize,
		sim.BuildName(name, "Read"))
	c.ctrlPort = sim.NewPort(c, 1, 1, sim.BuildName(name, "Ctrl"))

	c.AddPort("Write", c.writePort)
	c.AddPort("Read", c.readPort)
	c.AddPort("Ctrl", c.ctrlPort)

	return c
}
