package sim

import "log"

// HookPosBufPush is invoked when an element enters a buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop is invoked when an element leaves a buffer.
var HookPosBufPop = &HookPos{Name: "Buf Pop"}

// A Buffer is a bounded FIFO queue of arbitrary elements.
type Buffer interface {
	Named
	Hookable

	CanPush() bool
	Push(e interface{})
	Pop() interface{}
	Peek() interface{}
	Capacity() int
	Size() int

	// Clear discards every buffered element.
	Clear()
}

// NewBuffer creates a buffer that holds at most capacity elements.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	return &bufferImpl{
		name:     name,
		capacity: capacity,
	}
}

type bufferImpl struct {
	HookableBase

	name     string
	capacity int
	items    []interface{}
}

func (b *bufferImpl) Name() string {
	return b.name
}

func (b *bufferImpl) CanPush() bool {
	return len(b.items) < b.capacity
}

func (b *bufferImpl) Push(e interface{}) {
	if len(b.items) >= b.capacity {
		log.Panic("buffer overflow")
	}

	b.items = append(b.items, e)
	b.invokeBufHook(HookPosBufPush, e)
}

func (b *bufferImpl) Pop() interface{} {
	if len(b.items) == 0 {
		return nil
	}

	e := b.items[0]
	b.items = b.items[1:]
	b.invokeBufHook(HookPosBufPop, e)

	return e
}

func (b *bufferImpl) Peek() interface{} {
	if len(b.items) == 0 {
		return nil
	}

	return b.items[0]
}

func (b *bufferImpl) Capacity() int {
	return b.capacity
}

func (b *bufferImpl) Size() int {
	return len(b.items)
}

func (b *bufferImpl) Clear() {
	b.items = nil
}

func (b *bufferImpl) invokeBufHook(pos *HookPos, e interface{}) {
	// Buffers sit on hot paths, so skip building the context when nothing
	// listens.
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(HookCtx{
		Domain: b,
		Pos:    pos,
		Item:   e,
	})
}
