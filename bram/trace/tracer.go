// Package trace provides tracers that can record RAM port transactions.
package trace

import (
	"log"

	"github.com/sarchlab/bramsim/bram"
	"github.com/sarchlab/bramsim/datarecording"
	"github.com/sarchlab/bramsim/sim"
	"github.com/sarchlab/bramsim/tracing"
)

// accessEntry represents one RAM port transaction in the database
type accessEntry struct {
	ID        string  `json:"id"`
	Location  string  `json:"location"`
	What      string  `json:"what"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Address   uint64  `json:"address"`
	WordIndex uint64  `json:"word_index"`
}

// A tracer is a hook that records the transactions of the RAM into a log.
type tracer struct {
	timeTeller sim.TimeTeller
	logger     *log.Logger
}

// StartTask marks the start of a RAM transaction
func (t *tracer) StartTask(task tracing.Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	req, ok := task.Detail.(bram.AccessReq)
	if !ok {
		return
	}

	t.logger.Printf(
		"start, %.12f, %s, %s, %s, 0x%x, %d\n",
		task.StartTime,
		task.Where,
		task.ID,
		task.What,
		req.GetAddress(),
		bram.WordIndex(req.GetAddress()),
	)
}

// StepTask records a milestone within a RAM transaction
func (t *tracer) StepTask(task tracing.Task) {
	if len(task.Steps) == 0 {
		return
	}

	t.logger.Printf("step, %.12f, %s, %s\n",
		t.timeTeller.CurrentTime(), task.ID, task.Steps[0].What)
}

// EndTask marks the end of a RAM transaction
func (t *tracer) EndTask(task tracing.Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.logger.Printf("end, %.12f, %s\n", task.EndTime, task.ID)
}

// NewTracer creates a new Tracer that writes into a logger.
func NewTracer(logger *log.Logger, timeTeller sim.TimeTeller) tracing.Tracer {
	t := new(tracer)
	t.logger = logger
	t.timeTeller = timeTeller

	return t
}

// A dbTracer records the transactions of the RAM into a database through the
// data recorder.
type dbTracer struct {
	timeTeller          sim.TimeTeller
	dataRecorder        datarecording.DataRecorder
	pendingTransactions map[string]*accessEntry
}

// NewDBTracer creates a new database-based Tracer.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	timeTeller sim.TimeTeller,
) tracing.Tracer {
	t := &dbTracer{
		timeTeller:          timeTeller,
		dataRecorder:        dataRecorder,
		pendingTransactions: make(map[string]*accessEntry),
	}

	t.dataRecorder.CreateTable("ram_transactions", accessEntry{})

	return t
}

// StartTask marks the start of a RAM transaction
func (t *dbTracer) StartTask(task tracing.Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	req, ok := task.Detail.(bram.AccessReq)
	if !ok {
		return
	}

	entry := &accessEntry{
		ID:        task.ID,
		Location:  task.Where,
		What:      task.What,
		StartTime: float64(task.StartTime),
		Address:   req.GetAddress(),
		WordIndex: bram.WordIndex(req.GetAddress()),
	}

	t.pendingTransactions[task.ID] = entry
}

// StepTask does nothing. Steps do not change the recorded row.
func (t *dbTracer) StepTask(_ tracing.Task) {
	// Do nothing
}

// EndTask marks the end of a RAM transaction
func (t *dbTracer) EndTask(task tracing.Task) {
	entry, exists := t.pendingTransactions[task.ID]
	if !exists {
		return
	}

	if task.EndTime == 0 {
		task.EndTime = t.timeTeller.CurrentTime()
	}

	entry.EndTime = float64(task.EndTime)
	t.dataRecorder.InsertData("ram_transactions", *entry)

	delete(t.pendingTransactions, task.ID)
}
