package sim

import (
	"sync"
)

// HookPosPortMsgSend is invoked when a component pushes a message into the
// outgoing buffer of a port.
var HookPosPortMsgSend = &HookPos{Name: "Port Msg Send"}

// HookPosPortMsgRecvd is invoked when a connection delivers a message into
// the incoming buffer of a port.
var HookPosPortMsgRecvd = &HookPos{Name: "Port Msg Recv"}

// HookPosPortMsgRetrieveIncoming is invoked when the owning component takes
// a message out of the incoming buffer.
var HookPosPortMsgRetrieveIncoming = &HookPos{
	Name: "Port Msg Retrieve Incoming",
}

// HookPosPortMsgRetrieveOutgoing is invoked when the connection takes a
// message out of the outgoing buffer.
var HookPosPortMsgRetrieveOutgoing = &HookPos{
	Name: "Port Msg Retrieve Outgoing",
}

// A Port is the endpoint through which a component exchanges messages with
// a connection. Each port belongs to one component and attaches to one
// connection.
type Port interface {
	Named
	Hookable

	SetConnection(conn Connection)
	Component() Component

	// Connection-facing half.
	Deliver(msg Msg) *SendError
	NotifyAvailable()
	RetrieveOutgoing() Msg
	PeekOutgoing() Msg

	// Component-facing half.
	CanSend() bool
	Send(msg Msg) *SendError
	RetrieveIncoming() Msg
	PeekIncoming() Msg
}

type defaultPort struct {
	HookableBase

	lock  sync.Mutex
	name  string
	owner Component
	conn  Connection

	inBuf  Buffer
	outBuf Buffer
}

// NewPort creates a port with buffered incoming and outgoing queues of the
// given capacities.
func NewPort(
	comp Component,
	incomingBufCap, outgoingBufCap int,
	name string,
) Port {
	NameMustBeValid(name)

	return &defaultPort{
		name:   name,
		owner:  comp,
		inBuf:  NewBuffer(name+".IncomingBuf", incomingBufCap),
		outBuf: NewBuffer(name+".OutgoingBuf", outgoingBufCap),
	}
}

// SetConnection attaches the port to a connection. A port attaches to
// exactly one connection over its lifetime.
func (p *defaultPort) SetConnection(conn Connection) {
	if p.conn != nil {
		panic("connection already set on port " + p.name)
	}

	p.conn = conn
}

// Component returns the component that owns the port.
func (p *defaultPort) Component() Component {
	return p.owner
}

// Name returns the name of the port.
func (p *defaultPort) Name() string {
	return p.name
}

// CanSend reports whether the outgoing buffer has room for one more message.
func (p *defaultPort) CanSend() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.outBuf.CanPush()
}

// Send queues a message for the connection to pick up. It returns a
// SendError when the outgoing buffer is full, in which case the component
// should retry after NotifyPortFree.
func (p *defaultPort) Send(msg Msg) *SendError {
	p.lock.Lock()

	p.msgMustBeValid(msg)

	if !p.outBuf.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	wasEmpty := p.outBuf.Size() == 0
	p.outBuf.Push(msg)
	p.invokePortHook(HookPosPortMsgSend, msg)
	p.lock.Unlock()

	// The connection only needs a wake-up on the empty-to-non-empty
	// transition. While the buffer stays non-empty, the connection keeps
	// draining it on its own.
	if wasEmpty {
		p.conn.NotifySend()
	}

	return nil
}

// Deliver places an inbound message into the incoming buffer. It returns a
// SendError when the buffer is full, in which case the connection should
// retry after NotifyAvailable.
func (p *defaultPort) Deliver(msg Msg) *SendError {
	p.lock.Lock()

	if !p.inBuf.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	wasEmpty := p.inBuf.Size() == 0
	p.invokePortHook(HookPosPortMsgRecvd, msg)
	p.inBuf.Push(msg)
	p.lock.Unlock()

	if p.owner != nil && wasEmpty {
		p.owner.NotifyRecv(p)
	}

	return nil
}

// RetrieveIncoming removes and returns the oldest inbound message, or nil
// when there is none.
func (p *defaultPort) RetrieveIncoming() Msg {
	p.lock.Lock()

	item := p.inBuf.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	// Popping out of a previously full buffer frees the slot the
	// connection may be waiting on.
	if p.inBuf.Size() == p.inBuf.Capacity()-1 {
		p.conn.NotifyAvailable(p)
	}

	p.lock.Unlock()

	msg := item.(Msg)
	p.invokePortHook(HookPosPortMsgRetrieveIncoming, msg)

	return msg
}

// RetrieveOutgoing removes and returns the oldest outbound message, or nil
// when there is none.
func (p *defaultPort) RetrieveOutgoing() Msg {
	p.lock.Lock()

	item := p.outBuf.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	if p.outBuf.Size() == p.outBuf.Capacity()-1 {
		p.owner.NotifyPortFree(p)
	}

	p.lock.Unlock()

	msg := item.(Msg)
	p.invokePortHook(HookPosPortMsgRetrieveOutgoing, msg)

	return msg
}

// PeekIncoming returns the oldest inbound message without removing it, or
// nil when there is none.
func (p *defaultPort) PeekIncoming() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.inBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// PeekOutgoing returns the oldest outbound message without removing it, or
// nil when there is none.
func (p *defaultPort) PeekOutgoing() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// NotifyAvailable forwards the connection's free-slot notification to the
// owning component.
func (p *defaultPort) NotifyAvailable() {
	if p.owner != nil {
		p.owner.NotifyPortFree(p)
	}
}

func (p *defaultPort) invokePortHook(pos *HookPos, msg Msg) {
	p.InvokeHook(HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   msg,
	})
}

func (p *defaultPort) msgMustBeValid(msg Msg) {
	meta := msg.Meta()

	if meta.Src != p {
		panic("sending port is not msg src")
	}

	if meta.Dst == nil {
		panic("dst is not given")
	}

	if meta.Src == meta.Dst {
		panic("sending back to src")
	}
}
