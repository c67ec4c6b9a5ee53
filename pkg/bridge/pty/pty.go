// Package pty exposes a bench port as a pseudo-terminal, so programs
// can open the simulated UART like a serial device.
package pty

import (
	"flag"
	"os"

	creack "github.com/creack/pty"
	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/bridge"
	"github.com/robotalks/uart.go/pkg/bridge/stream"
)

// Config defines the pseudo-terminal.
type Config struct {
	Enable bool
	// Link creates a symlink to the terminal device.
	Link string
}

var defaultConfig Config

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enable, "pty", defaultConfig.Enable, "Expose the local port as a pseudo-terminal.")
	flag.StringVar(&defaultConfig.Link, "pty-link", defaultConfig.Link, "Symlink to the pseudo-terminal device.")
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

// Terminal is an open pseudo-terminal pair.
type Terminal struct {
	*stream.ReadWriter

	ptmx *os.File
	tty  *os.File
	link string
}

// Open allocates a pseudo-terminal in raw mode.
func (c *Config) Open() (*Terminal, error) {
	ptmx, tty, err := creack.Open()
	if err != nil {
		return nil, err
	}
	if err := makeRaw(tty); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, err
	}
	t := &Terminal{ReadWriter: stream.New(ptmx), ptmx: ptmx, tty: tty}
	if c.Link != "" {
		os.Remove(c.Link)
		if err := os.Symlink(tty.Name(), c.Link); err != nil {
			t.Close()
			return nil, err
		}
		t.link = c.Link
	}
	glog.Infof("pty: %s", t.TTYName())
	return t, nil
}

// NewPipe opens a terminal and creates a bridge.Pipe for the bench port.
func (c *Config) NewPipe(port string) (*bridge.Pipe, error) {
	t, err := c.Open()
	if err != nil {
		return nil, err
	}
	return bridge.NewPipe("pty:"+t.TTYName(), port, t), nil
}

// TTYName is the device path programs open.
func (t *Terminal) TTYName() string {
	return t.tty.Name()
}

// TTY is the terminal side.
func (t *Terminal) TTY() *os.File {
	return t.tty
}

// Close implements io.Closer.
func (t *Terminal) Close() error {
	if t.link != "" {
		os.Remove(t.link)
	}
	t.tty.Close()
	return t.ptmx.Close()
}
