package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

type recorder struct {
	data     map[string][]byte
	errs     []error
	statuses []*Status
}

func newRecorder() *recorder {
	return &recorder{data: make(map[string][]byte)}
}

func (r *recorder) BytesReceived(cc fx.ControlContext, port string, data []byte) {
	r.data[port] = append(r.data[port], data...)
}

func (r *recorder) ErrorDetected(cc fx.ControlContext, port string, err error) {
	r.errs = append(r.errs, err)
}

func (r *recorder) StatusChanged(cc fx.ControlContext, st *Status) {
	r.statuses = append(r.statuses, st)
}

func benchLoop(t *testing.T, mode Mode) (*Bench, *fx.Loop, *recorder) {
	b, err := NewBench(testConfig(), mode)
	require.NoError(t, err)
	rec := newRecorder()
	b.Subscribe(rec)
	return b, fx.NewLoop().Add(b), rec
}

func TestBenchLoopMessages(t *testing.T) {
	b, loop, rec := benchLoop(t, ModeLoopback)
	require.Equal(t, 16*10*4, b.TicksPerIteration)
	ctx := context.Background()

	loop.PostMessage(&SendMsg{Data: []byte("abc")})
	loop.Iterate(ctx)
	require.Equal(t, "abc", string(rec.data[LocalPort]))

	recv := &RecvMsg{Result: make(chan []byte, 1)}
	status := &StatusMsg{Result: make(chan *Status, 1)}
	loop.PostMessage(recv)
	loop.PostMessage(status)
	loop.Iterate(ctx)
	require.Equal(t, "abc", string(<-recv.Result))
	st := <-status.Result
	require.Equal(t, "loopback", st.Mode)
	require.Equal(t, uint32(4), st.Divisor)
	require.Equal(t, uint64(2*640), st.Tick)
	port := st.Port(LocalPort)
	require.NotNil(t, port)
	require.Equal(t, uint64(3), port.BytesReceived)
	require.Equal(t, "idle", port.RxState)

	// inbox was drained.
	loop.PostMessage(recv)
	loop.Iterate(ctx)
	require.Empty(t, <-recv.Result)
}

func TestBenchLoopControl(t *testing.T) {
	b, loop, rec := benchLoop(t, ModeLoopback)
	ctx := context.Background()

	loop.PostMessage(&PauseMsg{Paused: true})
	loop.PostMessage(&SendMsg{Port: LocalPort, Data: []byte{1, 2}})
	loop.Iterate(ctx)
	require.True(t, b.Local().Paused)
	require.Len(t, rec.errs, 1)
	require.True(t, errors.Is(rec.errs[0], ErrOverflow))
	require.Equal(t, uart.RxError, b.Local().Transceiver().RxState())

	loop.PostMessage(&PauseMsg{Paused: false})
	loop.PostMessage(&ResetMsg{})
	loop.PostMessage(&SendMsg{Data: []byte{3}})
	loop.Iterate(ctx)
	require.Equal(t, []byte{3}, rec.data[LocalPort])

	loop.PostMessage(&BreakMsg{Ticks: 48})
	loop.Iterate(ctx)
	require.Len(t, rec.errs, 2)
	require.True(t, errors.Is(rec.errs[1], ErrFraming))

	// unknown ports are reported, not fatal.
	var err error
	loop.PreRunAt(fx.PrLvTop, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().AddMessages(&SendMsg{Port: PeerPort})
		err = b.HandleMessages(cc)
		return nil
	}))
	loop.Iterate(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown port")
}

func TestBenchStatusChanges(t *testing.T) {
	_, loop, rec := benchLoop(t, ModeEcho)
	ctx := context.Background()
	loop.Iterate(ctx)
	require.Len(t, rec.statuses, 1)
	require.Len(t, rec.statuses[0].Ports, 2)
	require.True(t, rec.statuses[0].Port(PeerPort).Echo)

	loop.Iterate(ctx)
	require.Len(t, rec.statuses, 1)

	loop.PostMessage(&SendMsg{Data: []byte("x")})
	loop.Iterate(ctx)
	require.Len(t, rec.statuses, 2)
	require.Equal(t, uint64(1), rec.statuses[1].Port(PeerPort).BytesSent)
	require.Equal(t, "x", string(rec.data[LocalPort]))
	require.Equal(t, "x", string(rec.data[PeerPort]))
}

func TestBenchInboxBounded(t *testing.T) {
	b := loopbackBench(t)
	b.collect(LocalPort, bytes.Repeat([]byte{1}, InboxSize))
	b.collect(LocalPort, []byte{2, 3})
	require.Len(t, b.inbox[LocalPort], InboxSize)
	require.Equal(t, []byte{1, 2, 3}, b.inbox[LocalPort][InboxSize-3:])
}

func TestBenchTrace(t *testing.T) {
	b := loopbackBench(t)
	var buf bytes.Buffer
	tracer := NewTracer(&buf, 4800)
	b.SetTracer(tracer)
	b.Local().Send(0x55)
	b.RunUntilIdle(100)
	require.NoError(t, tracer.Flush())
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "$timescale 1ns $end\n$scope module local $end\n"))
	require.Contains(t, out, "$var wire 1 ! rx $end\n")
	require.Contains(t, out, "$enddefinitions $end\n#0\n1!\n")
	// tick 1 is 208333ns at 4800 Hz, where the start bit shows on the line.
	require.Contains(t, out, "#208333\n0!\n")
}
