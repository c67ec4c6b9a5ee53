package uart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// link ticks two transceivers with each one's LineTx wired to the other's LineRx.
func link(a, b *Transceiver, inA, inB Inputs) (Outputs, Outputs) {
	inA.LineRx = b.Outputs().LineTx
	inB.LineRx = a.Outputs().LineTx
	return a.Tick(inA), b.Tick(inB)
}

func TestTransceiverRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		clock int
		baud  int
	}{
		{"divisor 3", 1000, 300},
		{"divisor 4", 4800, 1200},
		{"divisor 10", 10000, 1000},
		{"icebreaker", 12000000, 115200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := &Config{ClockRate: tc.clock, SymbolRate: tc.baud, MaxDeviationPPM: -1}
			a, err := New(conf)
			require.NoError(t, err)
			b, err := conf.NewTransceiver()
			require.NoError(t, err)
			limit := 10 * int(a.Divisor())

			for v := 0; v < 256; v++ {
				value := byte(v)
				require.True(t, a.Outputs().TxReady)
				link(a, b, Inputs{TxSend: true, TxData: value}, Inputs{})
				ticks := 1
				for ; !b.Outputs().RxReady; ticks++ {
					require.Truef(t, ticks < limit, "value %02x not received in %d ticks", value, limit)
					_, outB := link(a, b, Inputs{}, Inputs{})
					require.False(t, outB.RxError)
				}
				require.Equal(t, value, b.Outputs().RxData)
				// ack, and let the transmitter finish its stop bit.
				link(a, b, Inputs{}, Inputs{RxAck: true})
				for !a.Outputs().TxReady {
					link(a, b, Inputs{}, Inputs{})
				}
				require.False(t, b.Outputs().RxError)
				require.False(t, a.Outputs().RxError)
			}
		})
	}
}

func TestTransceiverLoopback(t *testing.T) {
	u, err := New(&Config{ClockRate: 4800, SymbolRate: 1200, MaxDeviationPPM: 0})
	require.NoError(t, err)
	for _, value := range []byte("hello, uart") {
		in := Inputs{LineRx: u.Outputs().LineTx, TxSend: true, TxData: value}
		u.Tick(in)
		for !u.Outputs().RxReady {
			u.Tick(Inputs{LineRx: u.Outputs().LineTx})
		}
		out := u.Tick(Inputs{LineRx: u.Outputs().LineTx, RxAck: true})
		require.Equal(t, value, out.RxData)
		for !u.Outputs().TxReady {
			u.Tick(Inputs{LineRx: u.Outputs().LineTx})
		}
	}
}

func TestTransceiverIdle(t *testing.T) {
	u, err := New(NewConfig())
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		out := u.Tick(Inputs{LineRx: true})
		require.True(t, out.TxReady)
		require.True(t, out.LineTx)
		require.False(t, out.RxReady)
		require.False(t, out.RxError)
	}
	require.Equal(t, RxIdle, u.RxState())
	require.Equal(t, TxIdle, u.TxState())
}

func TestTransceiverStrobes(t *testing.T) {
	u := NewWithDivisor(5)
	var rx, tx int
	for i := 0; i < 50; i++ {
		out := u.Tick(Inputs{LineRx: true})
		if out.RxStrobe {
			rx++
		}
		if out.TxStrobe {
			tx++
		}
	}
	require.Equal(t, 10, rx)
	require.Equal(t, 10, tx)
}

func TestTransceiverReset(t *testing.T) {
	u := NewWithDivisor(4)
	// framing error on the receiver while the transmitter is busy.
	u.Tick(Inputs{LineRx: false, TxSend: true, TxData: 0x42})
	for i := 0; i < 38; i++ {
		u.Tick(Inputs{LineRx: false})
	}
	require.True(t, u.Outputs().RxError)
	require.Equal(t, TxStop, u.TxState())

	u.Reset()
	out := u.Outputs()
	require.False(t, out.RxError)
	require.False(t, out.RxReady)
	require.True(t, out.TxReady)
	require.True(t, out.LineTx)
	require.Equal(t, byte(0), out.RxData)
	require.Equal(t, 3, u.Receiver().Ticker().Counter())
	require.Equal(t, 3, u.Transmitter().Ticker().Counter())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(&Config{ClockRate: 4800, SymbolRate: 1000000})
	require.True(t, errors.Is(err, ErrInvalidRate))
	_, err = New(&Config{ClockRate: 12000000, SymbolRate: 115200, MaxDeviationPPM: 100})
	require.True(t, errors.Is(err, ErrRateDeviationTooHigh))
}
