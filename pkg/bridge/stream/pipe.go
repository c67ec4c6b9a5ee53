package stream

import (
	"io"

	"github.com/robotalks/uart.go/pkg/bridge"
)

// NewPipe creates a bridge.Pipe over a raw stream owned by the pipe.
func NewPipe(name, port string, s io.ReadWriteCloser) *bridge.Pipe {
	return bridge.NewPipe(name, port, New(s))
}
