package sim

// SendError reports that a send or delivery could not be completed because
// the receiving side had no room. The caller retries later.
type SendError struct{}

// NewSendError creates a SendError.
func NewSendError() *SendError {
	return &SendError{}
}

// A Connection moves messages between the ports plugged into it.
type Connection interface {
	Named
	Hookable

	PlugIn(port Port, sourceSideBufSize int)
	Unplug(port Port)
	NotifyAvailable(port Port)
	NotifySend()
}

// HookPosConnStartSend fires when a connection accepts a message for
// sending.
var HookPosConnStartSend = &HookPos{Name: "Conn Start Send"}

// HookPosConnStartTrans fires when a connection starts transmitting a
// message.
var HookPosConnStartTrans = &HookPos{Name: "Conn Start Trans"}

// HookPosConnDoneTrans fires when a connection finishes transmitting a
// message.
var HookPosConnDoneTrans = &HookPos{Name: "Conn Done Trans"}

// HookPosConnDeliver fires when a connection delivers a message to the
// destination port.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}
