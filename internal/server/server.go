// Package server is the daemon's transport layer: JSON-RPC over a local
// socket for the CLI and native host, an HTTP surface for the extension
// WebSocket bridge, and a token-guarded HTTP RPC endpoint.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/ckzvault/ckzvault/pkg/logger"
)

// Server accepts CLI connections on the local socket and serves the shared
// JSON-RPC method map on each, one jrpc2 server per connection.
type Server struct {
	log      logger.Logger
	rs       *RPCServer
	ws       *WebServer
	listener net.Listener
	mu       sync.Mutex
}

// NewServer builds the socket server. ws may be nil when the HTTP surface is
// disabled.
func NewServer(log logger.Logger, rs *RPCServer, ws *WebServer) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Server{log: log, rs: rs, ws: ws}
}

// Start begins listening and blocks until the context is cancelled. The HTTP
// surface runs alongside on its own listener.
func (s *Server) Start(ctx context.Context) error {
	if s.ws != nil {
		go func() {
			if err := s.ws.Start(); err != nil {
				s.log.Error("web server: %v", err)
			}
		}()
	}

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Error("accept: %v", err)
			continue
		}
		go s.serveConn(conn)
	}
}

// serveConn runs one jrpc2 server over a newline-delimited JSON channel
// until the client hangs up.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	srv := jrpc2.NewServer(s.rs.Methods(), nil)
	srv.Start(channel.Line(conn, conn))
	if err := srv.Wait(); err != nil {
		s.log.Warning("connection closed: %v", err)
	}
}

// Shutdown closes the listener, stops the HTTP surface and removes the
// socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Warning("close listener: %v", err)
		}
		s.listener = nil
	}

	if s.ws != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.ws.Shutdown(ctx); err != nil {
			s.log.Warning("web server shutdown: %v", err)
		}
	}

	if err := cleanupSocket(); err != nil {
		s.log.Warning("remove socket: %v", err)
	}
	return nil
}
