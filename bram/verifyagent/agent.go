// Package verifyagent provides a component that exercises the dual-port RAM
// with randomized masked writes and reads, and checks every read response
// against a software mirror of the expected contents.
package verifyagent

import (
	"bytes"
	"log"
	"math/rand"
	"reflect"

	"github.com/sarchlab/bramsim/bram"
	"github.com/sarchlab/bramsim/monitoring"
	"github.com/sarchlab/bramsim/sim"
	"github.com/sarchlab/bramsim/tracing"
)

var dumpLog = false

type pendingRead struct {
	req      *bram.ReadReq
	expected []byte
}

type pendingWrite struct {
	req *bram.WriteReq
}

// An Agent is a Component that helps testing the RAM by generating a large
// number of read and write requests on its two ports.
type Agent struct {
	*sim.TickingComponent

	// RAMWritePort, RAMReadPort and RAMCtrlPort are the ports of the RAM
	// under test.
	RAMWritePort sim.Port
	RAMReadPort  sim.Port
	RAMCtrlPort  sim.Port

	WriteLeft int
	ReadLeft  int

	// KnownWords mirrors the words that have been written at least once.
	KnownWords      map[uint64][]byte
	PendingReadReq  map[string]*pendingRead
	PendingWriteReq map[string]*pendingWrite

	ResetCount  int
	MismatchMsg string

	writePort   sim.Port
	readPort    sim.Port
	ctrlPort    sim.Port
	ctrlPending bool

	monitor     *monitoring.Monitor
	progressBar *monitoring.ProgressBar
}

// Tick updates the states of the agent and issues new read and write
// requests.
func (a *Agent) Tick() bool {
	madeProgress := false

	madeProgress = a.processRsps() || madeProgress

	if a.ReadLeft == 0 && a.WriteLeft == 0 {
		return madeProgress
	}

	if a.shouldRead() {
		madeProgress = a.doRead() || madeProgress
	} else {
		madeProgress = a.doWrite() || madeProgress
	}

	madeProgress = a.maybeReset() || madeProgress

	return madeProgress
}

func (a *Agent) processRsps() bool {
	madeProgress := false

	madeProgress = a.processWriteRsp() || madeProgress
	madeProgress = a.processReadRsp() || madeProgress
	madeProgress = a.processCtrlRsp() || madeProgress

	return madeProgress
}

func (a *Agent) processWriteRsp() bool {
	msg := a.writePort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*bram.WriteDoneRsp)
	if !ok {
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	pending := a.PendingWriteReq[rsp.RespondTo]
	delete(a.PendingWriteReq, rsp.RespondTo)

	a.commitMirror(pending.req)
	tracing.TraceReqFinalize(pending.req, a)
	a.reportCompleted()

	if dumpLog {
		log.Printf("%.10f, agent, write complete, 0x%X\n",
			a.CurrentTime(), pending.req.Address)
	}

	return true
}

func (a *Agent) processReadRsp() bool {
	msg := a.readPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*bram.DataReadyRsp)
	if !ok {
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	pending := a.PendingReadReq[rsp.RespondTo]
	delete(a.PendingReadReq, rsp.RespondTo)

	a.checkReadResult(pending, rsp)
	tracing.TraceReqFinalize(pending.req, a)
	a.reportCompleted()

	if dumpLog {
		log.Printf("%.10f, agent, read complete, 0x%X, %v\n",
			a.CurrentTime(), pending.req.Address, rsp.Data)
	}

	return true
}

func (a *Agent) processCtrlRsp() bool {
	msg := a.ctrlPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	if _, ok := msg.(*sim.GeneralRsp); !ok {
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	a.ctrlPending = false
	a.ResetCount++

	return true
}

func (a *Agent) reportIssued() {
	if a.progressBar != nil {
		a.progressBar.IncrementInProgress(1)
	}
}

func (a *Agent) reportCompleted() {
	if a.progressBar == nil {
		return
	}

	a.progressBar.MoveInProgressToFinished(1)

	done := a.WriteLeft == 0 && a.ReadLeft == 0 &&
		len(a.PendingWriteReq) == 0 && len(a.PendingReadReq) == 0
	if done {
		a.monitor.CompleteProgressBar(a.progressBar)
		a.progressBar = nil
	}
}

func (a *Agent) checkReadResult(pending *pendingRead, rsp *bram.DataReadyRsp) {
	if bytes.Equal(pending.expected, rsp.Data) {
		return
	}

	log.Panicf("mismatch at word %d, expected %v, got %v",
		bram.WordIndex(pending.req.Address), pending.expected, rsp.Data)
}

// commitMirror applies the byte-enable mask of a completed write to the
// mirror, the same way the RAM applies it to the array.
func (a *Agent) commitMirror(req *bram.WriteReq) {
	wordIndex := bram.WordIndex(req.Address)

	word, written := a.KnownWords[wordIndex]
	if !written {
		word = make([]byte, bram.WordBytes)
	}

	for i := 0; i < bram.WordBytes; i++ {
		if req.ByteEnable&(1<<uint(i)) != 0 {
			word[i] = req.Data[i]
		}
	}

	a.KnownWords[wordIndex] = word
}

func (a *Agent) shouldRead() bool {
	if len(a.KnownWords) == 0 {
		return false
	}

	if a.ReadLeft == 0 {
		return false
	}

	if a.WriteLeft == 0 {
		return true
	}

	dice := rand.Float64()

	return dice > 0.5
}

func (a *Agent) doRead() bool {
	wordIndex := a.randomKnownWord()

	if a.isWordInPendingReq(wordIndex) {
		return false
	}

	readReq := bram.ReadReqBuilder{}.
		WithSrc(a.readPort).
		WithDst(a.RAMReadPort).
		WithAddress(wordIndex << bram.ByteOffsetBits).
		Build()

	err := a.readPort.Send(readReq)
	if err != nil {
		return false
	}

	expected := make([]byte, bram.WordBytes)
	copy(expected, a.KnownWords[wordIndex])

	a.PendingReadReq[readReq.ID] = &pendingRead{
		req:      readReq,
		expected: expected,
	}
	a.ReadLeft--
	a.reportIssued()

	tracing.TraceReqInitiate(readReq, a, "")

	if dumpLog {
		log.Printf("%.10f, agent, read, 0x%X\n",
			a.CurrentTime(), readReq.Address)
	}

	return true
}

func (a *Agent) doWrite() bool {
	if a.WriteLeft == 0 {
		return false
	}

	wordIndex := rand.Uint64() % bram.NumWords

	if a.isWordInPendingReq(wordIndex) {
		return false
	}

	data := make([]byte, bram.WordBytes)
	rand.Read(data)

	writeReq := bram.WriteReqBuilder{}.
		WithSrc(a.writePort).
		WithDst(a.RAMWritePort).
		WithAddress(wordIndex << bram.ByteOffsetBits).
		WithData(data).
		WithByteEnable(a.randomByteEnable()).
		Build()

	err := a.writePort.Send(writeReq)
	if err != nil {
		return false
	}

	a.PendingWriteReq[writeReq.ID] = &pendingWrite{req: writeReq}
	a.WriteLeft--
	a.reportIssued()

	tracing.TraceReqInitiate(writeReq, a, "")

	if dumpLog {
		log.Printf("%.10f, agent, write, 0x%X, mask 0x%016X\n",
			a.CurrentTime(), writeReq.Address, writeReq.ByteEnable)
	}

	return true
}

// maybeReset occasionally asserts the reset signal of the RAM, which clears
// the output register but not the array. The later reads must still return
// the stored data.
func (a *Agent) maybeReset() bool {
	if a.ctrlPending {
		return false
	}

	if rand.Float64() > 0.01 {
		return false
	}

	ctrlMsg := bram.ControlMsgBuilder{}.
		WithSrc(a.ctrlPort).
		WithDst(a.RAMCtrlPort).
		WithReset(true).
		Build()

	err := a.ctrlPort.Send(ctrlMsg)
	if err != nil {
		return false
	}

	a.ctrlPending = true

	return true
}

// randomByteEnable biases toward the full mask so that whole-word updates
// stay common while partial updates are still well exercised.
func (a *Agent) randomByteEnable() uint64 {
	if rand.Float64() < 0.5 {
		return bram.FullByteEnable
	}

	return rand.Uint64()
}

func (a *Agent) randomKnownWord() uint64 {
	for {
		wordIndex := rand.Uint64() % bram.NumWords
		if _, written := a.KnownWords[wordIndex]; written {
			return wordIndex
		}
	}
}

func (a *Agent) isWordInPendingReq(wordIndex uint64) bool {
	return a.isWordInPendingWrite(wordIndex) ||
		a.isWordInPendingRead(wordIndex)
}

func (a *Agent) isWordInPendingWrite(wordIndex uint64) bool {
	for _, write := range a.PendingWriteReq {
		if bram.WordIndex(write.req.Address) == wordIndex {
			return true
		}
	}

	return false
}

func (a *Agent) isWordInPendingRead(wordIndex uint64) bool {
	for _, read := range a.PendingReadReq {
		if bram.WordIndex(read.req.Address) == wordIndex {
			return true
		}
	}

	return false
}
