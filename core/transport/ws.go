package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// WSConfig contains configuration options for the WebSocket transport.
type WSConfig struct {
	Config
	// Path is the HTTP path both sides meet on. Defaults to "/".
	Path string
	// TLSConfig upgrades the carrying HTTP server/client to HTTPS.
	TLSConfig *tls.Config
}

// WSTransport carries steg frames as binary WebSocket messages. An
// observer sees ordinary WebSocket traffic; the envelope layer sits
// inside the messages.
type WSTransport struct {
	path      string
	tlsConfig *tls.Config
}

// NewWSTransport creates a new WSTransport with the given
// configuration.
func NewWSTransport(cfg *WSConfig) (*WSTransport, error) {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	return &WSTransport{path: path, tlsConfig: cfg.TLSConfig}, nil
}

// DialContext connects to a WebSocket endpoint and exposes the
// message stream as a net.Conn.
func (t *WSTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	scheme := "ws"
	opts := &websocket.DialOptions{}
	if t.tlsConfig != nil {
		scheme = "wss"
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{TLSClientConfig: t.tlsConfig},
		}
	}

	conn, resp, err := websocket.Dial(ctx, fmt.Sprintf("%s://%s%s", scheme, address, t.path), opts)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", address, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	// The conn outlives the dial context; its own Close ends it.
	return websocket.NetConn(context.Background(), conn, websocket.MessageBinary), nil
}

// Listen serves WebSocket upgrades on the address and yields each
// accepted session as a net.Conn.
func (t *WSTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	inner, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("websocket listen %s: %w", address, err)
	}
	if t.tlsConfig != nil {
		inner = tls.NewListener(inner, t.tlsConfig)
	}

	listener := &wsListener{
		inner:   inner,
		pending: make(chan net.Conn, 8),
		done:    make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(t.path, listener.handleUpgrade)
	listener.server = &http.Server{Handler: mux}
	go func() {
		_ = listener.server.Serve(inner)
	}()

	return listener, nil
}

// Close is a no-op; listeners are closed individually.
func (t *WSTransport) Close() error {
	return nil
}

type wsListener struct {
	inner     net.Listener
	server    *http.Server
	pending   chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

// handleUpgrade accepts one WebSocket session and parks the HTTP
// handler until its net.Conn is closed; returning earlier would tear
// the session down.
func (l *wsListener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	conn := websocket.NetConn(r.Context(), wsConn, websocket.MessageBinary)
	closed := make(chan struct{})
	tracked := &notifyingConn{Conn: conn, closed: closed}

	select {
	case l.pending <- tracked:
	case <-l.done:
		_ = conn.Close()
		return
	}

	select {
	case <-closed:
	case <-l.done:
		_ = conn.Close()
	case <-r.Context().Done():
	}
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.pending:
		return conn, nil
	case <-l.done:
		return nil, ErrClosed
	}
}

func (l *wsListener) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	_ = l.server.Close()
	return l.inner.Close()
}

func (l *wsListener) Addr() net.Addr {
	return l.inner.Addr()
}

// notifyingConn signals its handler goroutine when closed.
type notifyingConn struct {
	net.Conn
	closed    chan struct{}
	closeOnce sync.Once
}

func (c *notifyingConn) Close() error {
	err := c.Conn.Close()
	c.closeOnce.Do(func() { close(c.closed) })
	return err
}
