// Package transport delivers already-encoded steganographic buffers
// between endpoints. Each Write on a steg Conn becomes one or more
// sealed envelopes on the wire; the codec engine never sees the
// network and the transports never see a raw payload.
package transport

import (
	"context"
	"errors"
	"net"
	"time"
)

// Transport is the interface for byte delivery channels. It abstracts
// the underlying protocol (memory pipe, TCP, QUIC, WebSocket).
type Transport interface {
	// DialContext connects to the given address.
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
	// Listen creates a listener on the specified network address.
	Listen(ctx context.Context, network, address string) (net.Listener, error)
	// Close closes the transport, releasing any resources.
	Close() error
}

// Middleware is a function that wraps a Transport to add functionality.
type Middleware func(transport Transport) Transport

// Config holds the common knobs shared by concrete transports.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ErrClosed is returned by operations on a transport that has been
// shut down.
var ErrClosed = errors.New("transport closed")
