package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// TCPConfig contains configuration options for the TCP transport.
// TLSConfig enables a standard TLS layer; Camouflage replaces it with
// a uTLS handshake imitating a browser ClientHello. At most one of the
// two may be set.
type TCPConfig struct {
	DialTimeout time.Duration
	KeepAlive   time.Duration
	TLSConfig   *tls.Config
	Camouflage  *CamouflageConfig
}

// TCPTransport implements the Transport interface for TCP
// connections.
type TCPTransport struct {
	dialer     *net.Dialer
	tlsConfig  *tls.Config
	camouflage *CamouflageConfig
}

// NewTCPTransport creates a new TCPTransport with the given
// configuration.
func NewTCPTransport(cfg *TCPConfig) (*TCPTransport, error) {
	if cfg.TLSConfig != nil && cfg.Camouflage != nil {
		return nil, fmt.Errorf("TLSConfig and Camouflage are mutually exclusive")
	}
	return &TCPTransport{
		dialer: &net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		},
		tlsConfig:  cfg.TLSConfig,
		camouflage: cfg.Camouflage,
	}, nil
}

// DialContext connects to the given address, layering TLS or uTLS
// camouflage on top when configured.
func (t *TCPTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := t.dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("tcp dial %s: %w", address, err)
	}

	if t.camouflage != nil {
		camoConn, err := NewCamouflagedClient(conn, t.camouflage, hostOf(address))
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return camoConn, nil
	}

	if t.tlsConfig != nil {
		clientTLSConfig := t.tlsConfig.Clone()
		if clientTLSConfig.ServerName == "" {
			clientTLSConfig.ServerName = hostOf(address)
		}

		tlsConn := tls.Client(conn, clientTLSConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("tls handshake with %s: %w", address, err)
		}
		return tlsConn, nil
	}

	return conn, nil
}

// Listen creates a listener on the specified network address. If a TLS
// config is provided, it returns a TLS listener. Camouflage is a
// client-side concern; the listening side terminates it as ordinary
// TLS.
func (t *TCPTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("tcp listen %s: %w", address, err)
	}

	if t.tlsConfig != nil {
		return tls.NewListener(ln, t.tlsConfig), nil
	}
	return ln, nil
}

// Close is a no-op: a TCPTransport holds no persistent resources, the
// connections it creates are managed individually.
func (t *TCPTransport) Close() error {
	return nil
}

// hostOf extracts the host part of an address for SNI, tolerating a
// missing port.
func hostOf(address string) string {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return address
	}
	return host
}
