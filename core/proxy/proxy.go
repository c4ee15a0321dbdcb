// Package proxy fronts the steganographic channel with a SOCKS5
// server: any TCP client can tunnel through covers without knowing the
// codec exists.
package proxy

import (
	"context"
	"fmt"
	"net"

	"github.com/armon/go-socks5"
	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/transport"
)

// CustomDialer is a function that can establish a network connection.
// This is the hook that routes SOCKS5 traffic through a steg conn.
type CustomDialer func(ctx context.Context, network, address string) (net.Conn, error)

// StegDialer builds a dialer that reaches targets through the given
// transport and wraps every connection in a steganographic layer
// driven by engine.
func StegDialer(t transport.Transport, engine *core.Engine, opts ...transport.ConnOption) CustomDialer {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		raw, err := t.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		return transport.NewConn(raw, engine, opts...), nil
	}
}

// Proxy wraps the SOCKS5 server and manages its lifecycle.
type Proxy struct {
	server   *socks5.Server
	listener net.Listener
}

// New creates and configures a new SOCKS5 proxy listening on addr,
// dialing out through the given dialer.
func New(addr string, dialer CustomDialer) (*Proxy, error) {
	conf := &socks5.Config{
		Dial: dialer,
	}

	server, err := socks5.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create socks5 server: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return &Proxy{
		server:   server,
		listener: listener,
	}, nil
}

// Start runs the SOCKS5 proxy server. It blocks; run it in a
// goroutine.
func (p *Proxy) Start() error {
	return p.server.Serve(p.listener)
}

// Stop gracefully shuts down the proxy server.
func (p *Proxy) Stop() error {
	if p.listener == nil {
		return nil
	}
	return p.listener.Close()
}

// Addr returns the listening address of the proxy.
func (p *Proxy) Addr() string {
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}
