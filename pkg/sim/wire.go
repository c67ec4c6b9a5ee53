package sim

// Wire carries the serial output of one host to the input of another.
type Wire struct {
	From *Host

	breakTicks int
}

// Break holds the line low for the given number of ticks.
func (w *Wire) Break(ticks int) {
	if ticks > w.breakTicks {
		w.breakTicks = ticks
	}
}

// Breaking indicates the line is held low.
func (w *Wire) Breaking() bool {
	return w.breakTicks > 0
}

// Level is the line level on the current tick.
func (w *Wire) Level() bool {
	if w.breakTicks > 0 {
		return false
	}
	return w.From.LineTx()
}

func (w *Wire) advance() {
	if w.breakTicks > 0 {
		w.breakTicks--
	}
}
