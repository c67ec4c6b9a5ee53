package uart

// Ticker is a free-running countdown emitting a strobe every divisor ticks.
type Ticker struct {
	divisor Divisor
	counter int
}

// NewTicker creates a Ticker in its reset state.
func NewTicker(d Divisor) Ticker {
	return Ticker{divisor: d, counter: int(d) - 1}
}

// Strobe is asserted on the tick the counter reaches 0.
func (t Ticker) Strobe() bool {
	return t.counter == 0
}

// Counter returns the current counter value.
func (t Ticker) Counter() int {
	return t.counter
}

// Next returns the generator as it is on the following tick.
func (t Ticker) Next() Ticker {
	if t.counter == 0 {
		t.counter = int(t.divisor) - 1
	} else {
		t.counter--
	}
	return t
}

// Load returns the generator with the counter forced to v for the following tick.
func (t Ticker) Load(v int) Ticker {
	if top := int(t.divisor) - 1; v > top {
		v = top
	}
	if v < 0 {
		v = 0
	}
	t.counter = v
	return t
}

// Reset returns the generator in its reset state.
func (t Ticker) Reset() Ticker {
	return NewTicker(t.divisor)
}
