package sim

// Messages posted to the loop by other goroutines. An empty Port means
// the local port.

// SendMsg queues bytes for transmission on a port.
type SendMsg struct {
	Port string
	Data []byte
}

// ResetMsg resets a port, or all ports when Port is empty.
type ResetMsg struct {
	Port string
}

// BreakMsg holds the line received by a port low for Ticks ticks.
type BreakMsg struct {
	Port  string
	Ticks int
}

// PauseMsg stalls or resumes the consumer on a port.
type PauseMsg struct {
	Port   string
	Paused bool
}

// StatusMsg queries the bench status. The reply is delivered once
// without blocking, so Result should be buffered.
type StatusMsg struct {
	Result chan *Status
}

// RecvMsg drains the bytes collected on a port. The reply is delivered
// once without blocking, so Result should be buffered.
type RecvMsg struct {
	Port   string
	Result chan []byte
}
