// Package websocket exposes a bench port to websocket clients.
package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uart.go/pkg/bridge"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// DefaultPath is where clients connect.
const DefaultPath = "/uart"

// Server accepts websocket clients on Addr. Each message from a client
// is sent on the port, received bytes are broadcast as binary messages.
type Server struct {
	Addr string
	Path string

	*bridge.Hub
}

// NewServer creates a Server for the port.
func NewServer(addr, port string) *Server {
	return &Server{Addr: addr, Path: DefaultPath, Hub: bridge.NewHub("websocket", port)}
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
	return "websocket:" + s.Addr
}

// Handler returns the http.Handler serving clients with ctx.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		glog.Infof("websocket client %s connected", conn.Request().RemoteAddr)
		err := s.Serve(ctx, New(conn))
		glog.Infof("websocket client %s disconnected: %v", conn.Request().RemoteAddr, err)
	}))
	return mux
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s%s", ln.Addr(), s.Path)
	server := &http.Server{Handler: s.Handler(ctx)}
	return fx.RunWithContextCloser(ctx, server, func() error {
		if err := server.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
