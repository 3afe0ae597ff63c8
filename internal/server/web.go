package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/creachadair/jrpc2/jhttp"

	"github.com/ckzvault/ckzvault/pkg/logger"
)

// WebServer is the daemon's local HTTP surface: the extension WebSocket at
// /extension and a token-guarded JSON-RPC POST endpoint at /rpc. It binds to
// loopback only.
type WebServer struct {
	port   int
	log    logger.Logger
	bridge *Bridge
	rpc    jhttp.Bridge
	secret string
	server *http.Server
	mu     sync.Mutex
}

// NewWebServer builds the HTTP surface around the shared method map.
func NewWebServer(log logger.Logger, rs *RPCServer, bridge *Bridge, cfg *RPCConfig, port int) *WebServer {
	return &WebServer{
		port:   port,
		log:    log,
		bridge: bridge,
		rpc:    jhttp.NewBridge(rs.Methods(), nil),
		secret: cfg.Secret,
	}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/extension", s.bridge)
	mux.Handle("/rpc", requireToken(s.secret, s.rpc))
	return mux
}

func (s *WebServer) addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Start runs the HTTP server until Shutdown is called.
func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server and releases the jhttp bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	_ = s.rpc.Close()
	s.server = nil
	return err
}
