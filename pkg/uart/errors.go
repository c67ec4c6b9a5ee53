package uart

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRate indicates the symbol rate can't be derived from the clock rate.
	ErrInvalidRate = errors.New("invalid rate")
	// ErrRateDeviationTooHigh indicates the achievable symbol rate deviates
	// more than allowed from the requested one.
	ErrRateDeviationTooHigh = errors.New("rate deviation too high")
)

// RateError describes a rejected clock/symbol rate pair.
type RateError struct {
	ClockRate    int
	SymbolRate   int
	Divisor      Divisor
	DeviationPPM float64
	Err          error
}

// Error implements error.
func (e *RateError) Error() string {
	if e.Err == ErrRateDeviationTooHigh {
		return fmt.Sprintf("%v: %d Hz / %d = %.1f baud, %.0f ppm off %d baud",
			e.Err, e.ClockRate, e.Divisor, e.Divisor.Rate(e.ClockRate), e.DeviationPPM, e.SymbolRate)
	}
	return fmt.Sprintf("%v: %d baud from %d Hz clock", e.Err, e.SymbolRate, e.ClockRate)
}

// Unwrap returns the sentinel error.
func (e *RateError) Unwrap() error {
	return e.Err
}
