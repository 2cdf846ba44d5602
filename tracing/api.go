// Package tracing records what a simulated component is working on. A
// component reports tasks as it processes them; tracers attach to the
// component through hooks and persist the tasks they see.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/bramsim/sim"
)

// A NamedHookable is a domain that tasks can be reported on.
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// Hook positions for the three task lifecycle points.
var (
	HookPosTaskStart = &sim.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &sim.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &sim.HookPos{Name: "HookPosTaskEnd"}
)

func invokeTaskHook(domain NamedHookable, task Task, pos *sim.HookPos) {
	ctx := sim.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    pos,
	}
	domain.InvokeHook(ctx)
}

// StartTask reports that the domain has started working on a task. It is a
// no-op when no tracer is attached.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail interface{},
) {
	if domain.NumHooks() == 0 {
		return
	}

	taskFieldsMustBeFilled(id, domain, kind, what)

	invokeTaskHook(domain, Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
		Detail:   detail,
	}, HookPosTaskStart)
}

func taskFieldsMustBeFilled(
	id string,
	domain NamedHookable,
	kind string,
	what string,
) {
	if id == "" {
		panic("id must not be empty")
	}

	if domain == nil {
		panic("domain must not be nil")
	}

	if domain.Name() == "" {
		panic("domain must have a name")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

// AddTaskStep reports a milestone inside a running task.
func AddTaskStep(id string, domain NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	invokeTaskHook(domain, Task{
		ID:    id,
		Steps: []TaskStep{{What: what}},
	}, HookPosTaskStep)
}

// EndTask reports that the task identified by id is finished.
func EndTask(id string, domain NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	invokeTaskHook(domain, Task{ID: id}, HookPosTaskEnd)
}

// MsgIDAtReceiver is the task ID of a message being handled at its receiver.
// The sender-side task for the same message uses the plain message ID with a
// "_req_out" suffix, so the two sides stay distinguishable.
func MsgIDAtReceiver(msg sim.Msg, domain NamedHookable) string {
	return fmt.Sprintf("%s@%s", msg.Meta().ID, domain.Name())
}

// TraceReqInitiate starts the sender-side task of a request. Call it when the
// request is issued.
func TraceReqInitiate(
	msg sim.Msg,
	domain NamedHookable,
	taskParentID string,
) {
	StartTask(
		msg.Meta().ID+"_req_out",
		taskParentID,
		domain,
		"req_out",
		reflect.TypeOf(msg).String(),
		msg,
	)
}

// TraceReqReceive starts the receiver-side task of a request, parented to the
// sender-side task.
func TraceReqReceive(msg sim.Msg, domain NamedHookable) {
	StartTask(
		MsgIDAtReceiver(msg, domain),
		msg.Meta().ID+"_req_out",
		domain,
		"req_in",
		reflect.TypeOf(msg).String(),
		msg,
	)
}

// TraceReqComplete ends the receiver-side task of a request. Call it when the
// response is issued.
func TraceReqComplete(msg sim.Msg, domain NamedHookable) {
	EndTask(MsgIDAtReceiver(msg, domain), domain)
}

// TraceReqFinalize ends the sender-side task of a request. Call it when the
// response arrives back at the sender.
func TraceReqFinalize(msg sim.Msg, domain NamedHookable) {
	EndTask(msg.Meta().ID+"_req_out", domain)
}
