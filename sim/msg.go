package sim

// A Msg is a unit of information carried between components over a
// connection.
type Msg interface {
	Meta() *MsgMeta
}

// MsgMeta carries the fields every message shares: a unique ID, the source
// and destination ports, and the number of bytes the message occupies on
// the wire.
type MsgMeta struct {
	ID           string
	Src, Dst     Port
	TrafficBytes int
}

// Rsp is a message that answers an earlier request.
type Rsp interface {
	Msg
	GetRspTo() string
}

// GeneralRsp acknowledges a request without carrying any payload of its
// own.
type GeneralRsp struct {
	MsgMeta

	OriginalReq Msg
}

// Meta returns the meta data of the response.
func (r *GeneralRsp) Meta() *MsgMeta {
	return &r.MsgMeta
}

// GetRspTo returns the ID of the request being acknowledged.
func (r *GeneralRsp) GetRspTo() string {
	return r.OriginalReq.Meta().ID
}

// GeneralRspBuilder assembles GeneralRsp messages.
type GeneralRspBuilder struct {
	Src, Dst     Port
	TrafficBytes int
	OriginalReq  Msg
}

// WithSrc sets the port the response departs from.
func (c GeneralRspBuilder) WithSrc(src Port) GeneralRspBuilder {
	c.Src = src
	return c
}

// WithDst sets the port the response is delivered to.
func (c GeneralRspBuilder) WithDst(dst Port) GeneralRspBuilder {
	c.Dst = dst
	return c
}

// WithTrafficBytes sets the wire size of the response.
func (c GeneralRspBuilder) WithTrafficBytes(
	trafficBytes int,
) GeneralRspBuilder {
	c.TrafficBytes = trafficBytes
	return c
}

// WithOriginalReq sets the request being acknowledged.
func (c GeneralRspBuilder) WithOriginalReq(originalReq Msg) GeneralRspBuilder {
	c.OriginalReq = originalReq
	return c
}

// Build creates the response with a freshly generated ID.
func (c GeneralRspBuilder) Build() *GeneralRsp {
	return &GeneralRsp{
		MsgMeta: MsgMeta{
			ID:           GetIDGenerator().Generate(),
			Src:          c.Src,
			Dst:          c.Dst,
			TrafficBytes: c.TrafficBytes,
		},
		OriginalReq: c.OriginalReq,
	}
}
