package uart

import "math"

// Divisor is the number of clock ticks per symbol.
type Divisor int

// Compute derives the divisor for symbolRate from clockRate.
func Compute(clockRate, symbolRate int) (Divisor, error) {
	if clockRate <= 0 || symbolRate <= 0 {
		return 0, &RateError{ClockRate: clockRate, SymbolRate: symbolRate, Err: ErrInvalidRate}
	}
	d := Divisor(clockRate / symbolRate)
	if d <= 0 {
		return 0, &RateError{ClockRate: clockRate, SymbolRate: symbolRate, Err: ErrInvalidRate}
	}
	return d, nil
}

// ComputeWithin is Compute which also rejects divisors whose achieved rate
// is more than maxDeviationPPM parts-per-million off symbolRate.
func ComputeWithin(clockRate, symbolRate, maxDeviationPPM int) (Divisor, error) {
	d, err := Compute(clockRate, symbolRate)
	if err != nil {
		return d, err
	}
	// exact integer comparison of 1e6*|clk/d - sym|/sym > max.
	diff := int64(clockRate) - int64(d)*int64(symbolRate)
	if diff < 0 {
		diff = -diff
	}
	if diff*1000000 > int64(maxDeviationPPM)*int64(d)*int64(symbolRate) {
		return d, &RateError{
			ClockRate:    clockRate,
			SymbolRate:   symbolRate,
			Divisor:      d,
			DeviationPPM: d.DeviationPPM(clockRate, symbolRate),
			Err:          ErrRateDeviationTooHigh,
		}
	}
	return d, nil
}

// Rate returns the symbol rate achieved with clockRate.
func (d Divisor) Rate(clockRate int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(clockRate) / float64(d)
}

// DeviationPPM returns how far the achieved rate is off symbolRate,
// in parts-per-million.
func (d Divisor) DeviationPPM(clockRate, symbolRate int) float64 {
	if symbolRate <= 0 {
		return 0
	}
	return 1e6 * math.Abs(d.Rate(clockRate)-float64(symbolRate)) / float64(symbolRate)
}

// HalfPeriod is the counter value loaded at a start edge so the following
// strobes land in the middle of each bit cell.
func (d Divisor) HalfPeriod() int {
	if h := int(d)/2 - 1; h > 0 {
		return h
	}
	return 0
}
