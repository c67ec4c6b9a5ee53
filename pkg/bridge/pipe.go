package bridge

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// DefaultBacklog is the number of chunks buffered towards a slow writer.
const DefaultBacklog = 64

// Pipe moves bytes between a ChunkReadWriter and a bench port: chunks
// read are posted to the loop as sim.SendMsg, bytes received by the
// port are written back.
type Pipe struct {
	Name       string
	Port       string
	ReadWriter ChunkReadWriter

	outCh chan []byte
}

// NewPipe creates a Pipe for the port.
func NewPipe(name, port string, rw ChunkReadWriter) *Pipe {
	return &Pipe{Name: name, Port: port, ReadWriter: rw, outCh: make(chan []byte, DefaultBacklog)}
}

// AddToLoop implements LoopAdder.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(fx.NamedRun(p.Name+":read", fx.RunFunc(p.readLoop)))
	loop.AddRunnable(fx.NamedRun(p.Name+":write", fx.RunFunc(p.writeLoop)))
}

// BytesReceived implements sim.Listener.
func (p *Pipe) BytesReceived(cc fx.ControlContext, port string, data []byte) {
	if !p.accepts(port) {
		return
	}
	select {
	case p.outCh <- data:
	default:
		glog.Warningf("%s: backlog full, dropped %d bytes", p.Name, len(data))
	}
}

// ErrorDetected implements sim.Listener.
func (p *Pipe) ErrorDetected(cc fx.ControlContext, port string, err error) {
	if p.accepts(port) {
		glog.Warningf("%s: %v", p.Name, err)
	}
}

func (p *Pipe) accepts(port string) bool {
	return port == p.Port || (p.Port == "" && port == sim.LocalPort)
}

func (p *Pipe) readLoop(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	fn := func() error {
		for {
			chunk, err := p.ReadWriter.ReadChunk()
			if err != nil {
				return err
			}
			if len(chunk) == 0 {
				continue
			}
			glog.V(2).Infof("%s: %d bytes in", p.Name, len(chunk))
			loopCtl.PostMessage(&sim.SendMsg{Port: p.Port, Data: chunk})
			loopCtl.TriggerNext()
		}
	}
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (p *Pipe) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-p.outCh:
			if err := p.ReadWriter.WriteChunk(data); err != nil {
				return err
			}
		}
	}
}
