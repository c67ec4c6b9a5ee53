package sim

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// Mode selects how the bench wires its ports.
type Mode string

// Modes
const (
	// ModeLoopback connects the local transmitter to the local receiver.
	ModeLoopback Mode = "loopback"
	// ModeEcho connects the local port to a peer echoing every byte.
	ModeEcho Mode = "echo"
)

// Port names
const (
	LocalPort = "local"
	PeerPort  = "peer"
)

// InboxSize bounds the bytes kept per port for RecvMsg.
const InboxSize = 4096

// Bench wires hosts together and advances them one clock tick at a time.
type Bench struct {
	Mode Mode
	// TicksPerIteration is the number of ticks stepped per loop iteration.
	TicksPerIteration int

	ListenerCaster

	conf   uart.Config
	hosts  []*Host
	wires  []*Wire // wires[i] feeds hosts[i]
	inbox  map[string][]byte
	tick   uint64
	tracer *Tracer

	queries    []interface{}
	lastStatus *Status
}

// NewBench creates a bench with transceivers built from conf.
func NewBench(conf *uart.Config, mode Mode) (*Bench, error) {
	b := &Bench{Mode: mode, conf: *conf, inbox: make(map[string][]byte)}
	local, err := b.addHost(LocalPort)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeLoopback:
		b.wires = append(b.wires, &Wire{From: local})
	case ModeEcho:
		peer, err := b.addHost(PeerPort)
		if err != nil {
			return nil, err
		}
		peer.Echo = true
		b.wires = append(b.wires, &Wire{From: peer}, &Wire{From: local})
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	b.TicksPerIteration = 16 * 10 * int(local.u.Divisor())
	return b, nil
}

func (b *Bench) addHost(name string) (*Host, error) {
	u, err := b.conf.NewTransceiver()
	if err != nil {
		return nil, err
	}
	h := NewHost(name, u)
	b.hosts = append(b.hosts, h)
	return h, nil
}

// Local returns the local host.
func (b *Bench) Local() *Host {
	return b.hosts[0]
}

// Host finds a host by port name, empty means local.
func (b *Bench) Host(port string) *Host {
	if port == "" {
		return b.Local()
	}
	for _, h := range b.hosts {
		if h.Name == port {
			return h
		}
	}
	return nil
}

// Hosts returns all hosts.
func (b *Bench) Hosts() []*Host {
	return b.hosts
}

// Divisor is the divisor shared by all transceivers.
func (b *Bench) Divisor() uart.Divisor {
	return b.Local().u.Divisor()
}

// Tick is the number of ticks stepped so far.
func (b *Bench) Tick() uint64 {
	return b.tick
}

// SetAutoReset sets AutoReset on all hosts.
func (b *Bench) SetAutoReset(on bool) {
	for _, h := range b.hosts {
		h.AutoReset = on
	}
}

// SetTracer records waveforms of all hosts.
func (b *Bench) SetTracer(t *Tracer) {
	b.tracer = t
	if t != nil {
		t.Attach(b.hosts...)
	}
}

// Break holds the line received by port low.
func (b *Bench) Break(port string, ticks int) error {
	for i, h := range b.hosts {
		if h.Name == port || (port == "" && i == 0) {
			b.wires[i].Break(ticks)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPort, port)
}

// Idle indicates no host has anything queued or in flight.
func (b *Bench) Idle() bool {
	for i, h := range b.hosts {
		if !h.Idle() || b.wires[i].Breaking() {
			return false
		}
	}
	return true
}

// Step advances all hosts by n ticks. All line levels are sampled
// before any host is clocked.
func (b *Bench) Step(n int) {
	levels := make([]bool, len(b.hosts))
	for ; n > 0; n-- {
		for i, w := range b.wires {
			levels[i] = w.Level()
		}
		if b.tracer != nil {
			b.tracer.Sample(b.tick, levels)
		}
		for i, h := range b.hosts {
			h.Tick(b.tick, levels[i])
		}
		for _, w := range b.wires {
			w.advance()
		}
		b.tick++
	}
}

// RunUntilIdle steps until Idle or limit ticks elapsed, and returns
// the number of ticks stepped.
func (b *Bench) RunUntilIdle(limit int) int {
	n := 0
	for ; n < limit && !b.Idle(); n++ {
		b.Step(1)
	}
	return n
}

// Status snapshots the bench.
func (b *Bench) Status() *Status {
	st := &Status{
		Mode:       string(b.Mode),
		ClockRate:  uint32(b.conf.ClockRate),
		SymbolRate: uint32(b.conf.SymbolRate),
		Divisor:    uint32(b.Divisor()),
		Tick:       b.tick,
	}
	for _, h := range b.hosts {
		stats := h.Stats()
		st.Ports = append(st.Ports, &PortStatus{
			Name:           h.Name,
			RxState:        h.u.RxState().String(),
			TxState:        h.u.TxState().String(),
			Queued:         uint32(h.Queued()),
			Paused:         h.Paused,
			Echo:           h.Echo,
			BytesSent:      stats.BytesSent,
			BytesReceived:  stats.BytesReceived,
			FramingErrors:  stats.FramingErrors,
			OverflowErrors: stats.OverflowErrors,
			Resets:         stats.Resets,
		})
	}
	return st
}

// AddToLoop implements LoopAdder.
func (b *Bench) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvInput, fx.ControlFunc(b.HandleMessages))
	l.AddController(fx.PrLvClock, fx.ControlFunc(b.Execute))
	l.AddController(fx.PrLvOutput, fx.ControlFunc(b.Report))
}

// HandleMessages is a controller applying posted messages.
func (b *Bench) HandleMessages(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch m := mctx.CurrentMessage().(type) {
		case *SendMsg:
			mctx.MessageTaken()
			if h := b.Host(m.Port); h != nil {
				h.Send(m.Data...)
				glog.V(2).Infof("%s: queued %d bytes", h.Name, len(m.Data))
			} else {
				errs.Add(fmt.Errorf("send: %w: %s", ErrUnknownPort, m.Port))
			}
		case *ResetMsg:
			mctx.MessageTaken()
			if m.Port == "" {
				for _, h := range b.hosts {
					h.Reset()
				}
			} else if h := b.Host(m.Port); h != nil {
				h.Reset()
			} else {
				errs.Add(fmt.Errorf("reset: %w: %s", ErrUnknownPort, m.Port))
			}
		case *BreakMsg:
			mctx.MessageTaken()
			errs.Add(b.Break(m.Port, m.Ticks))
		case *PauseMsg:
			mctx.MessageTaken()
			if h := b.Host(m.Port); h != nil {
				h.Paused = m.Paused
			} else {
				errs.Add(fmt.Errorf("pause: %w: %s", ErrUnknownPort, m.Port))
			}
		case *StatusMsg, *RecvMsg:
			mctx.MessageTaken()
			b.queries = append(b.queries, m)
		}
	}))
	return errs.Aggregate()
}

// Execute is a controller stepping the clock.
func (b *Bench) Execute(cc fx.ControlContext) error {
	b.Step(b.TicksPerIteration)
	return nil
}

// Report is a controller delivering collected bytes, errors and
// query replies.
func (b *Bench) Report(cc fx.ControlContext) error {
	for _, h := range b.hosts {
		data, errs := h.Drain()
		if len(data) > 0 {
			b.collect(h.Name, data)
			b.BytesReceived(cc, h.Name, data)
		}
		for _, err := range errs {
			b.ErrorDetected(cc, h.Name, err)
		}
	}

	queries := b.queries
	b.queries = nil
	for _, q := range queries {
		switch m := q.(type) {
		case *StatusMsg:
			select {
			case m.Result <- b.Status():
			default:
				glog.Warning("status reply dropped")
			}
		case *RecvMsg:
			port := m.Port
			if port == "" {
				port = LocalPort
			}
			data := b.inbox[port]
			delete(b.inbox, port)
			select {
			case m.Result <- data:
			default:
				glog.Warningf("%s: recv reply dropped, %d bytes lost", port, len(data))
			}
		}
	}

	if b.wantsStatus() {
		if st := b.Status(); !sameState(st, b.lastStatus) {
			b.lastStatus = st
			b.StatusChanged(cc, st)
		}
	}
	return nil
}

func (b *Bench) collect(port string, data []byte) {
	buf := append(b.inbox[port], data...)
	if over := len(buf) - InboxSize; over > 0 {
		glog.Warningf("%s: inbox full, dropped %d bytes", port, over)
		buf = buf[over:]
	}
	b.inbox[port] = buf
}
