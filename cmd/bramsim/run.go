package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bramsim/bram/dualportram"
	"github.com/sarchlab/bramsim/bram/trace"
	"github.com/sarchlab/bramsim/bram/verifyagent"
	"github.com/sarchlab/bramsim/datarecording"
	"github.com/sarchlab/bramsim/monitoring"
	"github.com/sarchlab/bramsim/sim"
	"github.com/sarchlab/bramsim/sim/directconnection"
	"github.com/sarchlab/bramsim/tracing"
)

var runFlags = struct {
	seed        int64
	numWrite    int
	numRead     int
	freqGHz     float64
	traceFile   string
	traceDB     string
	logEvents   bool
	monitor     bool
	monitorPort int
	openBrowser bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run randomized verification traffic against the RAM model.",
	Run: func(_ *cobra.Command, _ []string) {
		runSimulation()
	},
}

func init() {
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 0,
		"Seed of the random number generator. 0 uses a fixed seed.")
	runCmd.Flags().IntVar(&runFlags.numWrite, "num-write", 1000,
		"Number of write requests to issue.")
	runCmd.Flags().IntVar(&runFlags.numRead, "num-read", 1000,
		"Number of read requests to issue.")
	runCmd.Flags().Float64Var(&runFlags.freqGHz, "freq", 1.0,
		"Clock frequency in GHz.")
	runCmd.Flags().StringVar(&runFlags.traceFile, "trace-file", "",
		"Write a text trace of all RAM transactions to the file.")
	runCmd.Flags().StringVar(&runFlags.traceDB, "trace-db", "",
		"Record all RAM transactions in a SQLite database at the path.")
	runCmd.Flags().BoolVar(&runFlags.logEvents, "log-events", false,
		"Print every simulation event to stderr.")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"Start the monitoring server.")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"Port of the monitoring server. 0 uses a random port.")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open-browser", false,
		"Open the monitoring page in the default browser.")

	rootCmd.AddCommand(runCmd)
}

func runSimulation() {
	rand.Seed(runFlags.seed)

	engine := sim.NewSerialEngine()
	freq := sim.Freq(runFlags.freqGHz) * sim.GHz
	monitor := makeMonitor()

	ram := dualportram.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("RAM")

	agentBuilder := verifyagent.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithWriteLeft(runFlags.numWrite).
		WithReadLeft(runFlags.numRead).
		WithRAMPorts(
			ram.GetPortByName("Write"),
			ram.GetPortByName("Read"),
			ram.GetPortByName("Ctrl"),
		)
	if monitor != nil {
		agentBuilder = agentBuilder.WithMonitor(monitor)
	}
	agent := agentBuilder.Build("Agent")

	connectPorts(engine, freq, ram, agent)
	setupTracing(engine, ram)
	startMonitor(monitor, engine, ram, agent)

	agent.TickLater()

	err := engine.Run()
	if err != nil {
		log.Panic(err)
	}

	reportResult(engine, freq, agent)
	atexit.Exit(0)
}

func connectPorts(
	engine sim.Engine,
	freq sim.Freq,
	ram *dualportram.Comp,
	agent *verifyagent.Agent,
) {
	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("Conn")

	conn.PlugIn(ram.GetPortByName("Write"), 1)
	conn.PlugIn(ram.GetPortByName("Read"), 1)
	conn.PlugIn(ram.GetPortByName("Ctrl"), 1)
	conn.PlugIn(agent.GetPortByName("Write"), 1)
	conn.PlugIn(agent.GetPortByName("Read"), 1)
	conn.PlugIn(agent.GetPortByName("Ctrl"), 1)
}

func setupTracing(engine sim.Engine, ram *dualportram.Comp) {
	if runFlags.logEvents {
		engine.AcceptHook(sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	if runFlags.traceFile != "" {
		file, err := os.Create(runFlags.traceFile)
		if err != nil {
			log.Panic(err)
		}

		logger := log.New(file, "", 0)
		tracer := trace.NewTracer(logger, engine)
		tracing.CollectTrace(ram, tracer)
	}

	if runFlags.traceDB != "" {
		recorder := datarecording.New(runFlags.traceDB)
		tracer := trace.NewDBTracer(recorder, engine)
		tracing.CollectTrace(ram, tracer)
	}
}

func makeMonitor() *monitoring.Monitor {
	if !runFlags.monitor {
		return nil
	}

	monitor := monitoring.NewMonitor()
	if runFlags.monitorPort > 0 {
		monitor.WithPortNumber(runFlags.monitorPort)
	}

	if runFlags.openBrowser {
		monitor.OpenBrowser()
	}

	return monitor
}

func startMonitor(
	monitor *monitoring.Monitor,
	engine sim.Engine,
	ram *dualportram.Comp,
	agent *verifyagent.Agent,
) {
	if monitor == nil {
		return
	}

	monitor.RegisterEngine(engine)
	monitor.RegisterComponent(ram)
	monitor.RegisterComponent(agent)
	monitor.StartServer()
}

func reportResult(engine sim.Engine, freq sim.Freq, agent *verifyagent.Agent) {
	if agent.WriteLeft > 0 || agent.ReadLeft > 0 ||
		len(agent.PendingWriteReq) > 0 || len(agent.PendingReadReq) > 0 {
		log.Panicf("simulation ended with unfinished accesses, "+
			"%d writes and %d reads left, %d writes and %d reads in flight",
			agent.WriteLeft, agent.ReadLeft,
			len(agent.PendingWriteReq), len(agent.PendingReadReq))
	}

	fmt.Printf("All accesses verified. Simulated time: %.10f s (%d cycles).\n",
		float64(engine.CurrentTime()), freq.Cycle(engine.CurrentTime()))

	if agent.ResetCount > 0 {
		fmt.Printf("Output register reset %d times during the run.\n",
			agent.ResetCount)
	}
}
