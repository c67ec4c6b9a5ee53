package uart

// TxState is the state of the transmit state machine.
type TxState int

// Transmit states.
const (
	TxIdle  TxState = iota // accepting a byte
	TxStart                // driving the start bit
	TxData                 // driving data bits, LSB first
	TxStop                 // driving the stop bit
)

var txStateNames = [...]string{"idle", "start", "data", "stop"}

// String implements fmt.Stringer.
func (s TxState) String() string {
	if s >= 0 && int(s) < len(txStateNames) {
		return txStateNames[s]
	}
	return "unknown"
}

// TxOutputs are the transmitter outputs during one tick.
type TxOutputs struct {
	Line   bool
	Ready  bool
	Strobe bool
}

// Transmitter is the transmit state machine.
type Transmitter struct {
	state    TxState
	shift    byte
	bitIndex uint8
	line     bool
	ticker   Ticker
}

// NewTransmitter creates a Transmitter in its reset state.
func NewTransmitter(d Divisor) Transmitter {
	return Transmitter{line: true, ticker: NewTicker(d)}
}

// State returns the current state.
func (t Transmitter) State() TxState {
	return t.state
}

// BitIndex returns the number of data bits shifted out so far, modulo 8.
func (t Transmitter) BitIndex() int {
	return int(t.bitIndex)
}

// Ticker returns the transmit bit-tick generator.
func (t Transmitter) Ticker() Ticker {
	return t.ticker
}

// Outputs returns the outputs of the current tick.
func (t Transmitter) Outputs() TxOutputs {
	return TxOutputs{
		Line:   t.line,
		Ready:  t.state == TxIdle,
		Strobe: t.ticker.Strobe(),
	}
}

// Step evaluates one tick with the caller's send request and returns the
// transmitter for the next tick along with the outputs of this tick.
// A send request is honored only in TxIdle.
func (t Transmitter) Step(send bool, data byte) (Transmitter, TxOutputs) {
	out := t.Outputs()
	strobe := t.ticker.Strobe()
	next := t
	next.ticker = t.ticker.Next()

	switch t.state {
	case TxIdle:
		if send {
			next.shift = data
			next.bitIndex = 0
			next.ticker = t.ticker.Load(int(t.ticker.divisor) - 1)
			next.state = TxStart
			next.line = false
		} else {
			next.line = true
		}
	case TxStart:
		if strobe {
			next.state = TxData
			next.line = t.shift&1 != 0
		}
	case TxData:
		if strobe {
			next.shift = t.shift >> 1
			next.bitIndex = (t.bitIndex + 1) & 7
			if t.bitIndex == 7 {
				next.state = TxStop
				next.line = true
			} else {
				next.line = next.shift&1 != 0
			}
		}
	case TxStop:
		if strobe {
			next.state = TxIdle
			next.line = true
		}
	}
	return next, out
}

// Reset returns the transmitter in its reset state.
func (t Transmitter) Reset() Transmitter {
	return NewTransmitter(t.ticker.divisor)
}
