package verifyagent

import (
	"github.com/sarchlab/bramsim/bram"
	"github.com/sarchlab/bramsim/monitoring"
	"github.com/sarchlab/bramsim/sim"
)

// Builder can build verification agents.
type Builder struct {
	engine       sim.Engine
	freq         sim.Freq
	writeLeft    int
	readLeft     int
	ramWritePort sim.Port
	ramReadPort  sim.Port
	ramCtrlPort  sim.Port
	monitor      *monitoring.Monitor
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:      1 * sim.GHz,
		writeLeft: 1000,
		readLeft:  1000,
	}
}

// WithEngine sets the engine of the agent.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the agent.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithWriteLeft sets the number of writes the agent issues.
func (b Builder) WithWriteLeft(n int) Builder {
	b.writeLeft = n
	return b
}

// WithReadLeft sets the number of reads the agent issues.
func (b Builder) WithReadLeft(n int) Builder {
	b.readLeft = n
	return b
}

// WithRAMPorts sets the Write, Read and Ctrl ports of the RAM under test.
func (b Builder) WithRAMPorts(write, read, ctrl sim.Port) Builder {
	b.ramWritePort = write
	b.ramReadPort = read
	b.ramCtrlPort = ctrl
	return b
}

// WithMonitor lets the agent report its access progress to a monitor.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// Build creates a new Agent.
func (b Builder) Build(name string) *Agent {
	a := &Agent{
		WriteLeft:       b.writeLeft,
		ReadLeft:        b.readLeft,
		KnownWords:      make(map[uint64][]byte, bram.NumWords),
		PendingReadReq:  make(map[string]*pendingRead),
		PendingWriteReq: make(map[string]*pendingWrite),
	}

	a.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, a)

	a.RAMWritePort = b.ramWritePort
	a.RAMReadPort = b.ramReadPort
	a.RAMCtrlPort = b.ramCtrlPort

	a.writePort = sim.NewPort(a, 1, 1, sim.BuildName(name, "Write"))
	a.readPort = sim.NewPort(a, 1, 1, sim.BuildName(name, "Read"))
	a.ctrlPort = sim.NewPort(a, 1, 1, sim.BuildName(name, "Ctrl"))

	a.AddPort("Write", a.writePort)
	a.AddPort("Read", a.readPort)
	a.AddPort("Ctrl", a.ctrlPort)

	if b.monitor != nil {
		a.monitor = b.monitor
		a.progressBar = b.monitor.CreateProgressBar(
			name+" accesses", uint64(b.writeLeft+b.readLeft))
	}

	return a
}
