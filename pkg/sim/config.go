package sim

import (
	"flag"
	"os"

	"github.com/robotalks/uart.go/pkg/uart"
)

// Config defines the bench configuration.
type Config struct {
	Mode string
	// TicksPerIteration overrides the default of 16 frames per iteration.
	TicksPerIteration int
	AutoReset         bool
	// Trace is the VCD file to write, empty disables tracing.
	Trace string
}

var defaultConfig = Config{
	Mode: string(ModeLoopback),
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Mode, "mode", defaultConfig.Mode, "Bench mode: loopback or echo.")
	flag.IntVar(&defaultConfig.TicksPerIteration, "ticks-per-iteration", defaultConfig.TicksPerIteration, "Clock ticks per loop iteration, 0 for 16 frames.")
	flag.BoolVar(&defaultConfig.AutoReset, "auto-reset", defaultConfig.AutoReset, "Reset a port automatically after a receive error.")
	flag.StringVar(&defaultConfig.Trace, "trace", defaultConfig.Trace, "Write waveforms to this VCD file.")
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

// NewBench creates the bench. The returned close func flushes the
// trace, if any.
func (c *Config) NewBench(uconf *uart.Config) (*Bench, func() error, error) {
	b, err := NewBench(uconf, Mode(c.Mode))
	if err != nil {
		return nil, nil, err
	}
	if c.TicksPerIteration > 0 {
		b.TicksPerIteration = c.TicksPerIteration
	}
	b.SetAutoReset(c.AutoReset)
	closer := func() error { return nil }
	if c.Trace != "" {
		f, err := os.Create(c.Trace)
		if err != nil {
			return nil, nil, err
		}
		tracer := NewTracer(f, uconf.ClockRate)
		b.SetTracer(tracer)
		closer = func() error {
			err := tracer.Flush()
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			return err
		}
	}
	return b, closer, nil
}
