package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	quic "github.com/refraction-networking/uquic"
	utls "github.com/refraction-networking/utls"
)

// QUICConfig contains configuration options for the QUIC transport.
// The TLS config is mandatory: QUIC has no cleartext mode.
type QUICConfig struct {
	TLSConfig  *utls.Config
	QUICConfig *quic.Config
}

// QUICTransport implements the Transport interface over a single QUIC
// stream per connection.
type QUICTransport struct {
	tlsConfig  *utls.Config
	quicConfig *quic.Config
}

// NewQUICTransport creates a new QUICTransport with the given
// configuration.
func NewQUICTransport(cfg *QUICConfig) (*QUICTransport, error) {
	if cfg.TLSConfig == nil {
		return nil, errors.New("TLSConfig is required for QUIC transport")
	}
	return &QUICTransport{
		tlsConfig:  cfg.TLSConfig,
		quicConfig: cfg.QUICConfig,
	}, nil
}

// DialContext connects to the given address and opens the carrying
// stream.
func (t *QUICTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := quic.DialAddr(ctx, address, t.tlsConfig, t.quicConfig)
	if err != nil {
		return nil, fmt.Errorf("quic dial failed: %w", err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return nil, fmt.Errorf("quic open stream failed: %w", err)
	}
	return &quicStreamConn{Stream: stream, conn: conn}, nil
}

// Listen starts a QUIC listener on the given address.
func (t *QUICTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	inner, err := quic.ListenAddr(address, t.tlsConfig, t.quicConfig)
	if err != nil {
		return nil, fmt.Errorf("quic listen failed: %w", err)
	}
	return &quicListener{inner: inner, ctx: ctx}, nil
}

// Close is a no-op for the QUIC transport itself.
func (t *QUICTransport) Close() error {
	return nil
}

// quicListener adapts *quic.Listener to net.Listener, accepting one
// stream per incoming connection.
type quicListener struct {
	inner *quic.Listener
	ctx   context.Context
}

func (l *quicListener) Accept() (net.Conn, error) {
	conn, err := l.inner.Accept(l.ctx)
	if err != nil {
		if ctxErr := l.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("quic accept failed: %w", err)
	}

	stream, err := conn.AcceptStream(l.ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		if ctxErr := l.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("quic accept stream failed: %w", err)
	}
	return &quicStreamConn{Stream: stream, conn: conn}, nil
}

func (l *quicListener) Close() error {
	return l.inner.Close()
}

func (l *quicListener) Addr() net.Addr {
	return l.inner.Addr()
}

// quicStreamConn presents one QUIC stream as a net.Conn; closing it
// closes the whole connection.
type quicStreamConn struct {
	quic.Stream
	conn quic.Connection
}

func (c *quicStreamConn) Close() error {
	streamErr := c.Stream.Close()
	connErr := c.conn.CloseWithError(0, "closing")
	if streamErr != nil {
		return fmt.Errorf("quic stream close failed: %w", streamErr)
	}
	if connErr != nil {
		return fmt.Errorf("quic conn close failed: %w", connErr)
	}
	return nil
}

func (c *quicStreamConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *quicStreamConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *quicStreamConn) SetDeadline(t time.Time) error {
	_ = c.Stream.SetReadDeadline(t)
	return c.Stream.SetWriteDeadline(t)
}
