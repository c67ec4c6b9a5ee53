package uart

import "github.com/golang/glog"

// Inputs are the transceiver inputs sampled on one tick.
type Inputs struct {
	// LineRx is the serial input level.
	LineRx bool
	// RxAck acknowledges the ready byte.
	RxAck bool
	// TxData is the byte to send with TxSend.
	TxData byte
	// TxSend requests transmission of TxData.
	TxSend bool
}

// Outputs are the transceiver outputs during one tick.
type Outputs struct {
	// LineTx is the serial output level, idles high.
	LineTx bool
	// RxData is valid only while RxReady.
	RxData  byte
	RxReady bool
	RxError bool
	// TxReady indicates a send request is accepted on this tick.
	TxReady bool

	RxStrobe bool
	TxStrobe bool
}

// Transceiver composes the receive and transmit state machines.
type Transceiver struct {
	divisor Divisor
	rx      Receiver
	tx      Transmitter
}

// MinCenteredDivisor is the smallest divisor for which receive strobes
// land inside the bit cells of a transmitter using the same divisor.
const MinCenteredDivisor Divisor = 3

// New creates a Transceiver from the configuration.
func New(conf *Config) (*Transceiver, error) {
	d, err := conf.Divisor()
	if err != nil {
		return nil, err
	}
	if d < MinCenteredDivisor {
		glog.Warningf("divisor %d below %d, receive sampling can't be centered", d, MinCenteredDivisor)
	}
	return NewWithDivisor(d), nil
}

// NewWithDivisor creates a Transceiver from an already validated divisor.
func NewWithDivisor(d Divisor) *Transceiver {
	return &Transceiver{
		divisor: d,
		rx:      NewReceiver(d),
		tx:      NewTransmitter(d),
	}
}

// Divisor returns the shared divisor.
func (t *Transceiver) Divisor() Divisor {
	return t.divisor
}

// RxState returns the receive state.
func (t *Transceiver) RxState() RxState {
	return t.rx.State()
}

// TxState returns the transmit state.
func (t *Transceiver) TxState() TxState {
	return t.tx.State()
}

// Receiver returns a copy of the receive state machine.
func (t *Transceiver) Receiver() Receiver {
	return t.rx
}

// Transmitter returns a copy of the transmit state machine.
func (t *Transceiver) Transmitter() Transmitter {
	return t.tx
}

// Outputs returns the outputs of the current tick.
func (t *Transceiver) Outputs() Outputs {
	return combine(t.rx.Outputs(), t.tx.Outputs())
}

// Tick evaluates both machines against the current state and commits
// them together. It returns the outputs of the evaluated tick.
func (t *Transceiver) Tick(in Inputs) Outputs {
	rx, rxOut := t.rx.Step(in.LineRx, in.RxAck)
	tx, txOut := t.tx.Step(in.TxSend, in.TxData)
	t.rx, t.tx = rx, tx
	return combine(rxOut, txOut)
}

// Reset forces both machines idle and reloads both tick generators.
func (t *Transceiver) Reset() {
	t.rx = t.rx.Reset()
	t.tx = t.tx.Reset()
}

func combine(rx RxOutputs, tx TxOutputs) Outputs {
	return Outputs{
		LineTx:   tx.Line,
		RxData:   rx.Data,
		RxReady:  rx.Ready,
		RxError:  rx.Error,
		TxReady:  tx.Ready,
		RxStrobe: rx.Strobe,
		TxStrobe: tx.Strobe,
	}
}
