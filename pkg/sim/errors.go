package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming indicates a stop bit was sampled low.
	ErrFraming = errors.New("framing error")
	// ErrOverflow indicates a new frame started before the previous byte was consumed.
	ErrOverflow = errors.New("overflow")
	// ErrUnknownPort indicates a message addressed a port the bench doesn't have.
	ErrUnknownPort = errors.New("unknown port")
	// ErrSoakMismatch indicates a soak run received different bytes than it sent.
	ErrSoakMismatch = errors.New("soak mismatch")
)

// LinkError is a receive error detected on a port.
type LinkError struct {
	Port string
	Tick uint64
	Err  error
}

// Error implements error.
func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: %v at tick %d", e.Port, e.Err, e.Tick)
}

// Unwrap returns ErrFraming or ErrOverflow.
func (e *LinkError) Unwrap() error {
	return e.Err
}
