package stream

import (
	"context"
	"io"
	"net"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/bridge"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// Server accepts TCP clients on Addr and connects them to a port.
type Server struct {
	Addr string
	// Framed selects length-prefixed chunks instead of a raw stream.
	Framed bool

	*bridge.Hub
}

// NewServer creates a Server for the port.
func NewServer(addr, port string) *Server {
	return &Server{Addr: addr, Hub: bridge.NewHub("tcp", port)}
}

// Subscribe the server to s.
func (s *Server) Subscribe(sub sim.Subscriber) *Server {
	sub.Subscribe(s.Hub)
	return s
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(l *fx.Loop) {
	l.AddRunnable(s)
}

// Name implements Named.
func (s *Server) Name() string {
	return "tcp:" + s.Addr
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("tcp listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go s.serveConn(ctx, conn)
		}
	})
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	glog.Infof("tcp client %s connected", conn.RemoteAddr())
	var rw bridge.ChunkReadWriter = New(conn)
	if s.Framed {
		rw = NewFramed(conn)
	}
	err := s.Serve(ctx, rw)
	if err == io.EOF {
		err = nil
	}
	glog.Infof("tcp client %s disconnected: %v", conn.RemoteAddr(), err)
}
