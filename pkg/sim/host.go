package sim

import (
	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/uart"
)

// Stats counts what happened on a port.
type Stats struct {
	BytesSent      uint64
	BytesReceived  uint64
	FramingErrors  uint64
	OverflowErrors uint64
	Resets         uint64
}

// Host drives one transceiver at byte level: it feeds queued bytes to the
// transmitter whenever it accepts one, and acknowledges received bytes
// as soon as they are ready unless paused.
type Host struct {
	Name string
	// Echo queues every received byte for transmission.
	Echo bool
	// AutoReset resets the transceiver after a receive error, once the
	// transmitter finished the frame in progress.
	AutoReset bool
	// Paused stalls the consumer: ready bytes are not acknowledged.
	Paused bool

	u            *uart.Transceiver
	txQueue      []byte
	received     []byte
	errors       []error
	resetPending bool
	stats        Stats
}

// NewHost creates a Host around the transceiver.
func NewHost(name string, u *uart.Transceiver) *Host {
	return &Host{Name: name, u: u}
}

// Transceiver returns the driven transceiver.
func (h *Host) Transceiver() *uart.Transceiver {
	return h.u
}

// Stats returns the counters.
func (h *Host) Stats() Stats {
	return h.stats
}

// Send queues bytes for transmission.
func (h *Host) Send(data ...byte) {
	h.txQueue = append(h.txQueue, data...)
}

// Queued returns the number of bytes waiting for the transmitter.
func (h *Host) Queued() int {
	return len(h.txQueue)
}

// LineTx is the current serial output level.
func (h *Host) LineTx() bool {
	return h.u.Outputs().LineTx
}

// Idle indicates nothing is queued or in flight.
func (h *Host) Idle() bool {
	return len(h.txQueue) == 0 &&
		h.u.TxState() == uart.TxIdle &&
		(h.u.RxState() == uart.RxIdle || h.u.RxState() == uart.RxError)
}

// Reset resets the transceiver right away. Queued bytes are kept.
func (h *Host) Reset() {
	h.u.Reset()
	h.resetPending = false
	h.stats.Resets++
	glog.V(2).Infof("%s: reset", h.Name)
}

// Drain returns and clears the bytes and errors collected since last call.
func (h *Host) Drain() ([]byte, []error) {
	data, errs := h.received, h.errors
	h.received, h.errors = nil, nil
	return data, errs
}

// Tick evaluates one clock tick with the given serial input level.
func (h *Host) Tick(tick uint64, lineRx bool) {
	out := h.u.Outputs()
	in := uart.Inputs{LineRx: lineRx}
	if out.RxReady && !h.Paused {
		in.RxAck = true
		h.received = append(h.received, out.RxData)
		h.stats.BytesReceived++
		if h.Echo {
			h.txQueue = append(h.txQueue, out.RxData)
		}
	}
	if h.resetPending {
		if out.TxReady {
			h.Reset()
			return
		}
	} else if out.TxReady && len(h.txQueue) > 0 {
		in.TxSend, in.TxData = true, h.txQueue[0]
		h.txQueue = h.txQueue[1:]
		h.stats.BytesSent++
	}

	prev := h.u.RxState()
	h.u.Tick(in)
	if prev != uart.RxError && h.u.RxState() == uart.RxError {
		err := &LinkError{Port: h.Name, Tick: tick, Err: ErrFraming}
		if prev == uart.RxFull {
			err.Err = ErrOverflow
			h.stats.OverflowErrors++
		} else {
			h.stats.FramingErrors++
		}
		h.errors = append(h.errors, err)
		glog.V(2).Info(err)
		h.resetPending = h.AutoReset
	}
}
