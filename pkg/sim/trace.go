package sim

import (
	"io"

	"github.com/robotalks/uart.go/pkg/sim/vcd"
)

// Tracer dumps the signals of every host as a VCD waveform.
type Tracer struct {
	w         *vcd.Writer
	clockRate int
	ports     []tracedPort
}

type tracedPort struct {
	host *Host
	rx, tx, rxReady, rxError, txReady, rxStrobe, txStrobe *vcd.Var
}

// NewTracer creates a Tracer writing to w. Time is in nanoseconds of
// the clock rate.
func NewTracer(w io.Writer, clockRate int) *Tracer {
	return &Tracer{w: vcd.NewWriter(w, "1ns"), clockRate: clockRate}
}

// Attach declares the signals of hosts.
func (t *Tracer) Attach(hosts ...*Host) {
	for _, h := range hosts {
		t.ports = append(t.ports, tracedPort{
			host:     h,
			rx:       t.w.Var(h.Name, "rx"),
			tx:       t.w.Var(h.Name, "tx"),
			rxReady:  t.w.Var(h.Name, "rx_ready"),
			rxError:  t.w.Var(h.Name, "rx_error"),
			txReady:  t.w.Var(h.Name, "tx_ready"),
			rxStrobe: t.w.Var(h.Name, "rx_strobe"),
			txStrobe: t.w.Var(h.Name, "tx_strobe"),
		})
	}
}

// Sample records the signals on a tick, levels[i] is the line into
// the i-th attached host.
func (t *Tracer) Sample(tick uint64, levels []bool) {
	ts := int64(tick * 1000000000 / uint64(t.clockRate))
	for i, p := range t.ports {
		out := p.host.u.Outputs()
		t.w.Set(ts, p.rx, levels[i])
		t.w.Set(ts, p.tx, out.LineTx)
		t.w.Set(ts, p.rxReady, out.RxReady)
		t.w.Set(ts, p.rxError, out.RxError)
		t.w.Set(ts, p.txReady, out.TxReady)
		t.w.Set(ts, p.rxStrobe, out.RxStrobe)
		t.w.Set(ts, p.txStrobe, out.TxStrobe)
	}
}

// Flush writes buffered changes.
func (t *Tracer) Flush() error {
	return t.w.Flush()
}
