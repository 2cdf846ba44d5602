package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

type sampleMsg struct {
	MsgMeta
}

func (m *sampleMsg) Meta() *MsgMeta {
	return &m.MsgMeta
}

var _ = Describe("Port", func() {
	var (
		mockCtrl *gomock.Controller
		comp     *MockComponent
		conn     *MockConnection
		otherEnd *MockPort
		port     Port
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		comp = NewMockComponent(mockCtrl)
		conn = NewMockConnection(mockCtrl)
		otherEnd = NewMockPort(mockCtrl)

		port = NewPort(comp, 2, 2, "Port")
		port.SetConnection(conn)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic if the sending port is not the msg src", func() {
		msg := &sampleMsg{}
		msg.Src = otherEnd
		msg.Dst = otherEnd

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should panic if the msg dst is not given", func() {
		msg := &sampleMsg{}
		msg.Src = port

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should panic if the msg src and dst are the same", func() {
		msg := &sampleMsg{}
		msg.Src = port
		msg.Dst = port

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should buffer the msg and notify the connection", func() {
		msg := &sampleMsg{}
		msg.Src = port
		msg.Dst = otherEnd

		conn.EXPECT().NotifySend()

		err := port.Send(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekOutgoing()).To(BeIdenticalTo(msg))
	})

	It("should only notify the connection when the buffer was empty", func() {
		msg1 := &sampleMsg{}
		msg1.Src = port
		msg1.Dst = otherEnd

		msg2 := &sampleMsg{}
		msg2.Src = port
		msg2.Dst = otherEnd

		conn.EXPECT().NotifySend()

		Expect(port.Send(msg1)).To(BeNil())
		Expect(port.Send(msg2)).To(BeNil())
	})

	It("should fail sending when the outgoing buffer is full", func() {
		conn.EXPECT().NotifySend()

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = port
			msg.Dst = otherEnd
			Expect(port.Send(msg)).To(BeNil())
		}

		msg := &sampleMsg{}
		msg.Src = port
		msg.Dst = otherEnd

		err := port.Send(msg)

		Expect(err).NotTo(BeNil())
	})

	It("should deliver the msg and notify the component", func() {
		msg := &sampleMsg{}
		msg.Src = otherEnd
		msg.Dst = port

		comp.EXPECT().NotifyRecv(port)

		err := port.Deliver(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekIncoming()).To(BeIdenticalTo(msg))
	})

	It("should fail delivering when the incoming buffer is full", func() {
		comp.EXPECT().NotifyRecv(port)

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = otherEnd
			msg.Dst = port
			Expect(port.Deliver(msg)).To(BeNil())
		}

		msg := &sampleMsg{}
		msg.Src = otherEnd
		msg.Dst = port

		err := port.Deliver(msg)

		Expect(err).NotTo(BeNil())
	})

	It("should notify the connection when a full incoming buffer drains", func() {
		comp.EXPECT().NotifyRecv(port)

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = otherEnd
			msg.Dst = port
			Expect(port.Deliver(msg)).To(BeNil())
		}

		conn.EXPECT().NotifyAvailable(port)

		retrieved := port.RetrieveIncoming()

		Expect(retrieved).NotTo(BeNil())
	})

	It("should return nil when retrieving from an empty buffer", func() {
		Expect(port.RetrieveIncoming()).To(BeNil())
		Expect(port.PeekIncoming()).To(BeNil())
	})
})
