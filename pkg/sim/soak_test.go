package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/uart"
)

func TestSoak(t *testing.T) {
	testCases := []struct {
		name string
		conf *uart.Config
		mode Mode
	}{
		{"loopback divisor 4", testConfig(), ModeLoopback},
		{"echo divisor 4", testConfig(), ModeEcho},
		{"echo divisor 3", &uart.Config{ClockRate: 900, SymbolRate: 300, MaxDeviationPPM: 0}, ModeEcho},
		{"loopback icebreaker", uart.NewConfig(), ModeLoopback},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Soak(tc.conf, tc.mode, 300, 42)
			require.NoError(t, err)
			require.Equal(t, 300, report.Bytes)
			require.Equal(t, 300, report.Received)
			require.Equal(t, report.SentCRC, report.ReceivedCRC)
			require.Empty(t, report.Errors)
		})
	}
}

func TestChecksum(t *testing.T) {
	// CRC-8 (poly 0x07) check value.
	require.Equal(t, uint8(0xf4), Checksum([]byte("123456789")))
}
