// Package serial bridges a bench port to a real serial port.
package serial

import (
	"flag"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	tarm "github.com/tarm/serial"

	"github.com/robotalks/uart.go/pkg/bridge"
	"github.com/robotalks/uart.go/pkg/bridge/stream"
)

// Config defines the serial port to open.
type Config struct {
	// Device is the serial device, empty disables the bridge.
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

var defaultConfig = Config{
	Baud:        115200,
	ReadTimeout: 100 * time.Millisecond,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "serial", defaultConfig.Device, "Bridge the local port to this serial device.")
	flag.IntVar(&defaultConfig.Baud, "serial-baud", defaultConfig.Baud, "Baud rate of the serial device.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with default values.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled indicates a device is configured.
func (c *Config) Enabled() bool {
	return c.Device != ""
}

// Open opens the device.
func (c *Config) Open() (*ReadWriter, error) {
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", c.Device, err)
	}
	return NewReadWriter(port), nil
}

// NewPipe opens the device and creates a bridge.Pipe for the bench port.
func (c *Config) NewPipe(port string) (*bridge.Pipe, error) {
	rw, err := c.Open()
	if err != nil {
		return nil, err
	}
	return bridge.NewPipe("serial:"+c.Device, port, rw), nil
}

// ReadWriter implements bridge.ChunkReadWriter on a port read with a
// timeout, where an expired read shows up as io.EOF.
type ReadWriter struct {
	*stream.ReadWriter
	closed int32
}

// NewReadWriter wraps the port.
func NewReadWriter(port io.ReadWriteCloser) *ReadWriter {
	return &ReadWriter{ReadWriter: stream.New(port)}
}

// ReadChunk implements ChunkReader.
func (p *ReadWriter) ReadChunk() ([]byte, error) {
	chunk, err := p.ReadWriter.ReadChunk()
	if err == io.EOF && atomic.LoadInt32(&p.closed) == 0 {
		return nil, nil
	}
	return chunk, err
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	atomic.StoreInt32(&p.closed, 1)
	return p.ReadWriter.Close()
}
