package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueueImpl", func() {
	var queue *EventQueueImpl

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop events in time order", func() {
		evt1 := NewEventBase(3, nil)
		evt2 := NewEventBase(1, nil)
		evt3 := NewEventBase(2, nil)

		queue.Push(evt1)
		queue.Push(evt2)
		queue.Push(evt3)

		Expect(queue.Len()).To(Equal(3))
		Expect(queue.Pop().Time()).To(BeNumerically("~", 1, 1e-12))
		Expect(queue.Pop().Time()).To(BeNumerically("~", 2, 1e-12))
		Expect(queue.Pop().Time()).To(BeNumerically("~", 3, 1e-12))
	})

	It("should peek without removing", func() {
		evt := NewEventBase(1, nil)
		queue.Push(evt)

		Expect(queue.Peek()).To(BeIdenticalTo(Event(evt)))
		Expect(queue.Len()).To(Equal(1))
	})
})
