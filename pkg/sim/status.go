package sim

import (
	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
)

// PortStatus is the state of one bench port.
type PortStatus struct {
	Name           string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	RxState        string `protobuf:"bytes,2,opt,name=rx_state,json=rxState,proto3" json:"rx_state,omitempty"`
	TxState        string `protobuf:"bytes,3,opt,name=tx_state,json=txState,proto3" json:"tx_state,omitempty"`
	Queued         uint32 `protobuf:"varint,4,opt,name=queued,proto3" json:"queued,omitempty"`
	Paused         bool   `protobuf:"varint,5,opt,name=paused,proto3" json:"paused,omitempty"`
	Echo           bool   `protobuf:"varint,6,opt,name=echo,proto3" json:"echo,omitempty"`
	BytesSent      uint64 `protobuf:"varint,7,opt,name=bytes_sent,json=bytesSent,proto3" json:"bytes_sent,omitempty"`
	BytesReceived  uint64 `protobuf:"varint,8,opt,name=bytes_received,json=bytesReceived,proto3" json:"bytes_received,omitempty"`
	FramingErrors  uint64 `protobuf:"varint,9,opt,name=framing_errors,json=framingErrors,proto3" json:"framing_errors,omitempty"`
	OverflowErrors uint64 `protobuf:"varint,10,opt,name=overflow_errors,json=overflowErrors,proto3" json:"overflow_errors,omitempty"`
	Resets         uint64 `protobuf:"varint,11,opt,name=resets,proto3" json:"resets,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *PortStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PortStatus) Reset() { *m = PortStatus{} }

// String implements proto.Message.
func (m *PortStatus) String() string { return proto.CompactTextString(m) }

// Status is a snapshot of the bench.
type Status struct {
	Mode       string        `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
	ClockRate  uint32        `protobuf:"varint,2,opt,name=clock_rate,json=clockRate,proto3" json:"clock_rate,omitempty"`
	SymbolRate uint32        `protobuf:"varint,3,opt,name=symbol_rate,json=symbolRate,proto3" json:"symbol_rate,omitempty"`
	Divisor    uint32        `protobuf:"varint,4,opt,name=divisor,proto3" json:"divisor,omitempty"`
	Tick       uint64        `protobuf:"varint,5,opt,name=tick,proto3" json:"tick,omitempty"`
	Ports      []*PortStatus `protobuf:"bytes,6,rep,name=ports,proto3" json:"ports,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// Port finds the status of a port.
func (m *Status) Port(name string) *PortStatus {
	for _, p := range m.Ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// JSON encodes the status.
func (m *Status) JSON() (string, error) {
	marshaler := &jsonpb.Marshaler{OrigName: true, EmitDefaults: true}
	return marshaler.MarshalToString(m)
}

// StatusFromJSON decodes a status encoded by JSON.
func StatusFromJSON(s string) (*Status, error) {
	st := &Status{}
	if err := jsonpb.UnmarshalString(s, st); err != nil {
		return nil, err
	}
	return st, nil
}

// sameState compares everything but the tick.
func sameState(a, b *Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	x.Tick, y.Tick = 0, 0
	return proto.Equal(&x, &y)
}
