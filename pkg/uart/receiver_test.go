package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// rxBench drives a Receiver with divisor 4, one bit cell per 4 ticks.
type rxBench struct {
	t         *testing.T
	rx        Receiver
	sawReady  bool
	sawError  bool
}

const rxBenchDivisor Divisor = 4

func newRxBench(t *testing.T) *rxBench {
	return &rxBench{t: t, rx: NewReceiver(rxBenchDivisor)}
}

func (b *rxBench) hold(line bool, ticks int) *rxBench {
	for i := 0; i < ticks; i++ {
		var out RxOutputs
		b.rx, out = b.rx.Step(line, false)
		b.sawReady = b.sawReady || out.Ready
		b.sawError = b.sawError || out.Error
	}
	return b
}

func (b *rxBench) cell(line bool) *rxBench {
	return b.hold(line, int(rxBenchDivisor))
}

func (b *rxBench) frame(bits ...bool) *rxBench {
	b.cell(false)
	for _, bit := range bits {
		b.cell(bit)
	}
	return b.cell(true)
}

func (b *rxBench) expectByte(value byte) *rxBench {
	require.Equal(b.t, RxFull, b.rx.State())
	out := b.rx.Outputs()
	require.True(b.t, out.Ready)
	require.False(b.t, out.Error)
	require.Equal(b.t, value, out.Data)
	return b
}

func (b *rxBench) ack() *rxBench {
	var out RxOutputs
	b.rx, out = b.rx.Step(true, true)
	require.True(b.t, out.Ready)
	require.Equal(b.t, RxIdle, b.rx.State())
	require.False(b.t, b.rx.Outputs().Ready)
	b.sawReady, b.sawError = false, false
	return b
}

func (b *rxBench) expectError() *rxBench {
	require.Equal(b.t, RxError, b.rx.State())
	require.True(b.t, b.rx.Outputs().Error)
	require.False(b.t, b.rx.Outputs().Ready)
	return b
}

func bitsOf(s string) []bool {
	bits := make([]bool, 0, len(s))
	for _, c := range s {
		bits = append(bits, c == '1')
	}
	return bits
}

func TestReceiverBytes(t *testing.T) {
	testCases := []struct {
		bits   string
		expect byte
	}{
		{"10101010", 0x55},
		{"11000011", 0xC3},
		{"10000001", 0x81},
		{"10100101", 0xA5},
		{"11111111", 0xFF},
		{"00000000", 0x00},
		{"10000000", 0x01},
		{"00000001", 0x80},
	}

	b := newRxBench(t).hold(true, 7)
	for _, tc := range testCases {
		b.frame(bitsOf(tc.bits)...).expectByte(tc.expect).ack()
	}
	require.False(t, b.sawError)
}

func TestReceiverStartEdgeResync(t *testing.T) {
	b := newRxBench(t).hold(true, 3)
	b.rx, _ = b.rx.Step(false, false)
	require.Equal(t, RxStart, b.rx.State())
	require.Equal(t, rxBenchDivisor.HalfPeriod(), b.rx.Ticker().Counter())
}

func TestReceiverHoldsByteUntilAck(t *testing.T) {
	b := newRxBench(t).frame(bitsOf("10100101")...).expectByte(0xA5)
	b.hold(true, 100).expectByte(0xA5)
	require.False(t, b.sawError)
	b.ack()
}

func TestReceiverAckWinsOverStartEdge(t *testing.T) {
	b := newRxBench(t).frame(bitsOf("11110000")...).expectByte(0x0F)
	b.rx, _ = b.rx.Step(false, true)
	require.Equal(t, RxIdle, b.rx.State())
	b.rx, _ = b.rx.Step(false, false)
	require.Equal(t, RxStart, b.rx.State())
}

func TestReceiverFramingError(t *testing.T) {
	b := newRxBench(t).hold(true, 5)
	b.cell(false)
	for i := 0; i < 8; i++ {
		b.cell(true)
	}
	b.cell(false).expectError()
	require.False(t, b.sawReady)

	// sticky until reset.
	b.hold(true, 50).expectError()
	b.frame(bitsOf("10101010")...).expectError()

	b.rx = b.rx.Reset()
	require.Equal(t, RxIdle, b.rx.State())
	require.Equal(t, byte(0), b.rx.Outputs().Data)
	require.False(t, b.rx.Outputs().Error)
	b.hold(true, 4).frame(bitsOf("10101010")...).expectByte(0x55)
}

func TestReceiverOverflow(t *testing.T) {
	b := newRxBench(t).frame(bitsOf("11111111")...).expectByte(0xFF)
	b.hold(false, 1).expectError()
	b.rx = b.rx.Reset()
	b.hold(true, 2).frame(bitsOf("11000011")...).expectByte(0xC3)
}
