package directconnection

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/bramsim/sim"
)

type sampleMsg struct {
	sim.MsgMeta
}

func (m *sampleMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

var _ = Describe("DirectConnection", func() {
	var (
		mockCtrl   *gomock.Controller
		port1      *MockPort
		port2      *MockPort
		engine     *MockEngine
		connection *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		port1 = NewMockPort(mockCtrl)
		port2 = NewMockPort(mockCtrl)
		engine = NewMockEngine(mockCtrl)

		connection = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn")

		port1.EXPECT().SetConnection(connection)
		connection.PlugIn(port1, 1)

		port2.EXPECT().SetConnection(connection)
		connection.PlugIn(port2, 1)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule a tick when notified of a send", func() {
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(10))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt sim.Event) {
			Expect(evt.Time()).To(BeNumerically("~", 10, 1e-12))
			Expect(evt.IsSecondary()).To(BeTrue())
		})

		connection.NotifySend()
	})

	It("should forward messages when ticking", func() {
		msg := &sampleMsg{}
		msg.Src = port1
		msg.Dst = port2

		port1.EXPECT().PeekOutgoing().Return(msg)
		port1.EXPECT().PeekOutgoing().Return(nil)
		port1.EXPECT().RetrieveOutgoing().Return(msg)
		port2.EXPECT().Deliver(msg).Return(nil)
		port2.EXPECT().PeekOutgoing().Return(nil)

		madeProgress := connection.Tick()

		Expect(madeProgress).To(BeTrue())
	})

	It("should stop forwarding when the destination is busy", func() {
		msg := &sampleMsg{}
		msg.Src = port1
		msg.Dst = port2

		port1.EXPECT().PeekOutgoing().Return(msg)
		port2.EXPECT().Deliver(msg).Return(sim.NewSendError())
		port2.EXPECT().PeekOutgoing().Return(nil)

		madeProgress := connection.Tick()

		Expect(madeProgress).To(BeFalse())
	})

	It("should notify the other ports when one port drains", func() {
		port2.EXPECT().NotifyAvailable()
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(10))
		engine.EXPECT().Schedule(gomock.Any())

		connection.NotifyAvailable(port1)
	})
})
