package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// ErrExtensionNotConnected is returned when a cookie-store operation needs
// the extension and no WebSocket connection is up.
var ErrExtensionNotConnected = errors.New("browser extension is not connected")

// Extension-side callback methods the daemon invokes over the WebSocket.
const (
	methodCookiesGetAll = "cookies.getAll"
	methodCookiesSet    = "cookies.set"
)

// Bridge is the extension's WebSocket attachment point. The extension calls
// the daemon's regular JSON-RPC methods over the connection, and the daemon
// reaches back into the extension's cookie store with server pushes, which
// makes the bridge a browser cookie store for the pipelines.
//
// One extension connection is active at a time; a new connection replaces
// the previous one.
type Bridge struct {
	methods jrpc2.Assigner
	log     logger.Logger

	mu     sync.Mutex
	active *jrpc2.Server
}

// NewBridge wires the bridge to the shared method map.
func NewBridge(methods jrpc2.Assigner, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Bridge{methods: methods, log: log}
}

// ServeHTTP upgrades the request to a WebSocket and serves JSON-RPC on it
// until the extension disconnects.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		// Browser extensions present chrome-extension:// or moz-extension://
		// origins, which never match a host pattern.
		InsecureSkipVerify: true,
	})
	if err != nil {
		b.log.Warning("bridge: accept: %v", err)
		return
	}

	srv := jrpc2.NewServer(b.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	b.setActive(srv)
	b.log.Info("bridge: extension connected")

	if err := srv.Wait(); err != nil {
		b.log.Warning("bridge: connection closed: %v", err)
	}
	b.clearActive(srv)
	b.log.Info("bridge: extension disconnected")
}

func (b *Bridge) setActive(srv *jrpc2.Server) {
	b.mu.Lock()
	prev := b.active
	b.active = srv
	b.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

func (b *Bridge) clearActive(srv *jrpc2.Server) {
	b.mu.Lock()
	if b.active == srv {
		b.active = nil
	}
	b.mu.Unlock()
}

func (b *Bridge) current() *jrpc2.Server {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Connected reports whether an extension connection is up.
func (b *Bridge) Connected() bool {
	return b.current() != nil
}

// Cookies asks the connected extension for a full cookie dump.
func (b *Bridge) Cookies(ctx context.Context) (ckzlib.Snapshot, error) {
	srv := b.current()
	if srv == nil {
		return nil, ErrExtensionNotConnected
	}
	rsp, err := srv.Callback(ctx, methodCookiesGetAll, nil)
	if err != nil {
		return nil, err
	}
	var snap ckzlib.Snapshot
	if err := rsp.UnmarshalResult(&snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SetCookie writes one cookie into the connected extension's store.
func (b *Bridge) SetCookie(ctx context.Context, req ckzlib.SetCookieRequest) error {
	srv := b.current()
	if srv == nil {
		return ErrExtensionNotConnected
	}
	_, err := srv.Callback(ctx, methodCookiesSet, req)
	return err
}

var (
	_ ckzlib.CookieSource = (*Bridge)(nil)
	_ ckzlib.CookieWriter = (*Bridge)(nil)
)
