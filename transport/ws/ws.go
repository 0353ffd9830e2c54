// Package ws provides a WebSocket Transport for serving dispatch requests
// over HTTP connections.
package ws

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/agoralabs/agora/transport"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Transport accepts WebSocket connections and serves one request/response
// exchange per text frame.
type Transport struct {
	transport.BaseTransport
	addr   string
	server *http.Server

	connsMu sync.Mutex
	conns   map[net.Conn]bool
}

// NewTransport creates a WebSocket transport listening on addr.
func NewTransport(addr string) *Transport {
	return &Transport{
		addr:  addr,
		conns: make(map[net.Conn]bool),
	}
}

// Start listens for WebSocket upgrades and blocks until Stop.
func (t *Transport) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", t.handleUpgrade)

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	t.Logger().Info("websocket transport listening", "addr", t.addr)
	if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes all connections and shuts the server down.
func (t *Transport) Stop() error {
	t.connsMu.Lock()
	for conn := range t.conns {
		conn.Close()
	}
	t.conns = make(map[net.Conn]bool)
	t.connsMu.Unlock()

	if t.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return t.server.Shutdown(ctx)
}

func (t *Transport) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		t.Logger().Warn("websocket upgrade failed", "error", err)
		return
	}

	t.connsMu.Lock()
	t.conns[conn] = true
	t.connsMu.Unlock()

	// The request context dies when this handler returns; the hijacked
	// connection outlives it.
	go t.serveConn(context.Background(), conn)
}

// serveConn processes frames from one client until it disconnects.
func (t *Transport) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		t.connsMu.Lock()
		delete(t.conns, conn)
		t.connsMu.Unlock()
	}()

	for {
		msg, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			return
		}
		if op == ws.OpClose {
			return
		}
		if op != ws.OpText && op != ws.OpBinary {
			continue
		}

		response, err := t.HandleMessage(ctx, msg)
		if err != nil {
			t.Logger().Error("message handling failed", "error", err)
			continue
		}
		if len(response) == 0 {
			continue
		}
		if err := wsutil.WriteServerMessage(conn, ws.OpText, response); err != nil {
			t.Logger().Warn("failed to write response", "error", err)
			return
		}
	}
}
