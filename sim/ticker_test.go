package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickScheduler", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *MockEngine
		handler   *MockHandler
		scheduler *TickScheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		handler = NewMockHandler(mockCtrl)
		scheduler = NewTickScheduler(handler, engine, 1*GHz)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule a tick at the next cycle", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(0))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt Event) {
			Expect(evt.Time()).To(BeNumerically("~", 1e-9, 1e-15))
			Expect(evt.IsSecondary()).To(BeFalse())
		})

		scheduler.TickLater()
	})

	It("should schedule a tick at the current cycle", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(1e-9))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt Event) {
			Expect(evt.Time()).To(BeNumerically("~", 1e-9, 1e-15))
		})

		scheduler.TickNow()
	})

	It("should only schedule one tick event per cycle", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(0)).Times(2)
		engine.EXPECT().Schedule(gomock.Any())

		scheduler.TickLater()
		scheduler.TickLater()
	})

	It("should schedule secondary ticks when created as secondary", func() {
		secondary := NewSecondaryTickScheduler(handler, engine, 1*GHz)

		engine.EXPECT().CurrentTime().Return(VTimeInSec(0))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt Event) {
			Expect(evt.IsSecondary()).To(BeTrue())
		})

		secondary.TickLater()
	})
})

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		comp = NewTickingComponent("Comp", engine, 1*GHz, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick again when progress is made", func() {
		tick := MakeTickEvent(comp, 1e-9)

		ticker.EXPECT().Tick().Return(true)
		engine.EXPECT().CurrentTime().Return(VTimeInSec(1e-9))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt Event) {
			Expect(evt.Time()).To(BeNumerically("~", 2e-9, 1e-15))
		})

		err := comp.Handle(tick)

		Expect(err).To(BeNil())
	})

	It("should stop ticking when no progress is made", func() {
		tick := MakeTickEvent(comp, 1e-9)

		ticker.EXPECT().Tick().Return(false)

		err := comp.Handle(tick)

		Expect(err).To(BeNil())
	})
})
