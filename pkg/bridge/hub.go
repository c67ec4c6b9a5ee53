package bridge

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// Hub connects any number of clients to a bench port. Every client may
// send, and bytes received by the port are broadcast to all of them.
type Hub struct {
	Name string
	Port string

	lock    sync.RWMutex
	clients map[*hubClient]struct{}
}

type hubClient struct {
	rw    ChunkReadWriter
	outCh chan []byte
}

// NewHub creates a Hub for the port.
func NewHub(name, port string) *Hub {
	return &Hub{Name: name, Port: port, clients: make(map[*hubClient]struct{})}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// BytesReceived implements sim.Listener.
func (h *Hub) BytesReceived(cc fx.ControlContext, port string, data []byte) {
	if port != h.Port && !(h.Port == "" && port == sim.LocalPort) {
		return
	}
	h.lock.RLock()
	defer h.lock.RUnlock()
	for c := range h.clients {
		select {
		case c.outCh <- data:
		default:
			glog.Warningf("%s: client backlog full, dropped %d bytes", h.Name, len(data))
		}
	}
}

// ErrorDetected implements sim.Listener.
func (h *Hub) ErrorDetected(cc fx.ControlContext, port string, err error) {
	glog.V(2).Infof("%s: %v", h.Name, err)
}

// Serve runs a client until it fails or ctx is done; the caller closes
// rw afterwards. ctx must carry the loop control, e.g. be derived from
// the context passed to a Runnable added to the loop.
func (h *Hub) Serve(ctx context.Context, rw ChunkReadWriter) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	c := &hubClient{rw: rw, outCh: make(chan []byte, DefaultBacklog)}
	h.lock.Lock()
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	defer func() {
		h.lock.Lock()
		delete(h.clients, c)
		h.lock.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-c.outCh:
				if err := rw.WriteChunk(data); err != nil {
					glog.V(2).Infof("%s: write error: %v", h.Name, err)
					cancel()
					return
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		for {
			chunk, err := rw.ReadChunk()
			if err != nil {
				errCh <- err
				return
			}
			if len(chunk) > 0 {
				loopCtl.PostMessage(&sim.SendMsg{Port: h.Port, Data: chunk})
				loopCtl.TriggerNext()
			}
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
