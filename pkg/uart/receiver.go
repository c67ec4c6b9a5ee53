package uart

// RxState is the state of the receive state machine.
type RxState int

// Receive states.
const (
	RxIdle  RxState = iota // waiting for a start edge
	RxStart                // start edge seen, waiting for mid start bit
	RxData                 // shifting in data bits
	RxStop                 // waiting for the stop bit
	RxFull                 // byte complete, waiting for ack
	RxError                // framing or overflow error, waiting for reset
)

var rxStateNames = [...]string{"idle", "start", "data", "stop", "full", "error"}

// String implements fmt.Stringer.
func (s RxState) String() string {
	if s >= 0 && int(s) < len(rxStateNames) {
		return rxStateNames[s]
	}
	return "unknown"
}

// RxOutputs are the receiver outputs during one tick.
type RxOutputs struct {
	Data   byte
	Ready  bool
	Error  bool
	Strobe bool
}

// Receiver is the receive state machine.
type Receiver struct {
	state    RxState
	shift    byte
	bitIndex uint8
	ticker   Ticker
}

// NewReceiver creates a Receiver in its reset state.
func NewReceiver(d Divisor) Receiver {
	return Receiver{ticker: NewTicker(d)}
}

// State returns the current state.
func (r Receiver) State() RxState {
	return r.state
}

// BitIndex returns the number of data bits sampled so far, modulo 8.
func (r Receiver) BitIndex() int {
	return int(r.bitIndex)
}

// Ticker returns the receive bit-tick generator.
func (r Receiver) Ticker() Ticker {
	return r.ticker
}

// Outputs returns the outputs of the current tick.
func (r Receiver) Outputs() RxOutputs {
	return RxOutputs{
		Data:   r.shift,
		Ready:  r.state == RxFull,
		Error:  r.state == RxError,
		Strobe: r.ticker.Strobe(),
	}
}

// Step evaluates one tick with the sampled line level and the consumer
// acknowledge, and returns the receiver for the next tick along with the
// outputs of this tick.
func (r Receiver) Step(line, ack bool) (Receiver, RxOutputs) {
	out := r.Outputs()
	strobe := r.ticker.Strobe()
	next := r
	next.ticker = r.ticker.Next()

	switch r.state {
	case RxIdle:
		// start edge is taken on the tick it is seen, regardless of strobe.
		if !line {
			next.ticker = r.ticker.Load(r.ticker.divisor.HalfPeriod())
			next.state = RxStart
		}
	case RxStart:
		if strobe {
			next.state = RxData
		}
	case RxData:
		if strobe {
			next.shift = r.shift >> 1
			if line {
				next.shift |= 0x80
			}
			next.bitIndex = (r.bitIndex + 1) & 7
			if r.bitIndex == 7 {
				next.state = RxStop
			}
		}
	case RxStop:
		if strobe {
			if line {
				next.state = RxFull
			} else {
				next.state = RxError
			}
		}
	case RxFull:
		if ack {
			next.state = RxIdle
		} else if !line {
			next.state = RxError
		}
	case RxError:
	}
	return next, out
}

// Reset returns the receiver in its reset state.
func (r Receiver) Reset() Receiver {
	return NewReceiver(r.ticker.divisor)
}
