// Package dualportram models a synchronous dual-port block RAM with
// byte-masked writes. The RAM holds 128 words of 512 bits. The write port
// commits on the accepting clock edge. The read port latches the addressed
// word into an output register and returns it one cycle later.
package dualportram

import (
	"log"
	"reflect"

	"github.com/sarchlab/bramsim/bram"
	"github.com/sarchlab/bramsim/sim"
	"github.com/sarchlab/bramsim/tracing"
)

// readLatencyCycles is the number of cycles between accepting a read request
// and the output becoming valid. The modeled primitive registers its output
// once, so the latency is fixed at 1.
const readLatencyCycles = 1

type readRespondEvent struct {
	*sim.EventBase
	req *bram.ReadReq

	// data is the word sampled on the edge that accepted the request.
	data []byte
}

func newReadRespondEvent(time sim.VTimeInSec, handler sim.Handler,
	req *bram.ReadReq, data []byte,
) *readRespondEvent {
	return &readRespondEvent{sim.NewEventBase(time, handler), req, data}
}

type writeRespondEvent struct {
	*sim.EventBase
	req *bram.WriteReq
}

func newWriteRespondEvent(time sim.VTimeInSec, handler sim.Handler,
	req *bram.WriteReq,
) *writeRespondEvent {
	return &writeRespondEvent{sim.NewEventBase(time, handler), req}
}

// Comp is a dual-port byte-masked RAM. One tick is one clock edge shared by
// both ports. Each port accepts at most one request per edge.
//
// When a read and a write to the same word are accepted on the same edge,
// the read observes the pre-write content of the word (read-before-write).
type Comp struct {
	*sim.TickingComponent

	writePort sim.Port
	readPort  sim.Port
	ctrlPort  sim.Port

	Storage *bram.WordArray

	outputReg [bram.WordBytes]byte
}

// Handle defines how the Comp handles events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *readRespondEvent:
		return c.handleReadRespondEvent(e)
	case *writeRespondEvent:
		return c.handleWriteRespondEvent(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

// Tick updates the RAM state by one clock edge. Reads are sampled before
// writes are committed, which pins down the same-address collision policy.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.processCtrlSignals() || madeProgress
	madeProgress = c.acceptRead() || madeProgress
	madeProgress = c.acceptWrite() || madeProgress

	return madeProgress
}

// OutputRegister returns a copy of the registered read output.
func (c *Comp) OutputRegister() []byte {
	data := make([]byte, bram.WordBytes)
	copy(data, c.outputReg[:])

	return data
}

func (c *Comp) processCtrlSignals() bool {
	msg := c.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	ctrlMsg, ok := msg.(*bram.ControlMsg)
	if !ok {
		log.Panicf("cannot handle control message of type %s",
			reflect.TypeOf(msg))
	}

	rsp := sim.GeneralRspBuilder{}.
		WithSrc(c.ctrlPort).
		WithDst(ctrlMsg.Src).
		WithOriginalReq(ctrlMsg).
		Build()

	err := c.ctrlPort.Send(rsp)
	if err != nil {
		return false
	}

	if ctrlMsg.Reset {
		// Reset clears the output register only. The array keeps its
		// content, mirroring a primitive whose reset pin drives the
		// output register and nothing else.
		c.outputReg = [bram.WordBytes]byte{}
	}

	c.ctrlPort.RetrieveIncoming()

	return true
}

func (c *Comp) acceptRead() bool {
	msg := c.readPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	req, ok := msg.(*bram.ReadReq)
	if !ok {
		log.Panicf("cannot handle request of type %s on the read port",
			reflect.TypeOf(msg))
	}

	tracing.TraceReqReceive(req, c)

	data := c.Storage.Read(bram.WordIndex(req.Address))
	copy(c.outputReg[:], data)
	tracing.AddTaskStep(tracing.MsgIDAtReceiver(req, c), c, "latch")

	now := c.CurrentTime()
	respondTime := c.Freq.NCyclesLater(readLatencyCycles, now)
	c.Engine.Schedule(newReadRespondEvent(respondTime, c, req, data))

	return true
}

func (c *Comp) acceptWrite() bool {
	msg := c.writePort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	req, ok := msg.(*bram.WriteReq)
	if !ok {
		log.Panicf("cannot handle request of type %s on the write port",
			reflect.TypeOf(msg))
	}

	tracing.TraceReqReceive(req, c)

	c.Storage.Write(bram.WordIndex(req.Address), req.Data, req.ByteEnable)
	tracing.AddTaskStep(tracing.MsgIDAtReceiver(req, c), c, "commit")

	now := c.CurrentTime()
	respondTime := c.Freq.NCyclesLater(1, now)
	c.Engine.Schedule(newWriteRespondEvent(respondTime, c, req))

	return true
}

func (c *Comp) handleReadRespondEvent(e *readRespondEvent) error {
	req := e.req

	rsp := bram.DataReadyRspBuilder{}.
		WithSrc(c.readPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithData(e.data).
		Build()

	err := c.readPort.Send(rsp)
	if err != nil {
		now := e.Time()
		retry := newReadRespondEvent(c.Freq.NextTick(now), c, req, e.data)
		c.Engine.Schedule(retry)
		return nil
	}

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}

func (c *Comp) handleWriteRespondEvent(e *writeRespondEvent) error {
	req := e.req

	rsp := bram.WriteDoneRspBuilder{}.
		WithSrc(c.writePort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		Build()

	err := c.writePort.Send(rsp)
	if err != nil {
		now := e.Time()
		retry := newWriteRespondEvent(c.Freq.NextTick(now), c, req)
		c.Engine.Schedule(retry)
		return nil
	}

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}
