package uart

import "flag"

// Config defines the transceiver timing.
type Config struct {
	ClockRate  int
	SymbolRate int
	// MaxDeviationPPM bounds the achieved rate error; negative disables the check.
	MaxDeviationPPM int
}

// Defaults
const (
	DefaultClockRate       = 12000000
	DefaultSymbolRate      = 115200
	DefaultMaxDeviationPPM = 50000
)

var defaultConfig = Config{
	ClockRate:       DefaultClockRate,
	SymbolRate:      DefaultSymbolRate,
	MaxDeviationPPM: DefaultMaxDeviationPPM,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.ClockRate, "clock", defaultConfig.ClockRate, "Clock rate (Hz).")
	flag.IntVar(&defaultConfig.SymbolRate, "baud", defaultConfig.SymbolRate, "Symbol rate (baud).")
	flag.IntVar(&defaultConfig.MaxDeviationPPM, "max-ppm", defaultConfig.MaxDeviationPPM, "Maximum symbol rate deviation (ppm), negative disables the check.")
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

// Divisor validates the configuration and derives the divisor.
func (c *Config) Divisor() (Divisor, error) {
	if c.MaxDeviationPPM < 0 {
		return Compute(c.ClockRate, c.SymbolRate)
	}
	return ComputeWithin(c.ClockRate, c.SymbolRate, c.MaxDeviationPPM)
}

// NewTransceiver creates a Transceiver from the config.
func (c *Config) NewTransceiver() (*Transceiver, error) {
	return New(c)
}
