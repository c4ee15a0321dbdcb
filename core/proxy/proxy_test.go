package proxy

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stegoflow/stegoflow/core/transport"
	"github.com/stegoflow/stegoflow/testutils"
	"github.com/stretchr/testify/require"
)

// startStegEcho runs a TCP endpoint that unwraps the steganographic
// layer and echoes the plaintext back through it.
func startStegEcho(t *testing.T, seed string) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			raw, err := listener.Accept()
			if err != nil {
				return
			}
			go func(raw net.Conn) {
				conn := transport.NewConn(raw, testutils.NewStockedEngine(t, seed, 2048, 2))
				defer conn.Close()
				_, _ = io.Copy(conn, conn)
			}(raw)
		}
	}()
	return listener.Addr().String()
}

func TestProxyTunnelsThroughStegChannel(t *testing.T) {
	const seed = "proxy-seed"
	echoAddr := startStegEcho(t, seed)

	tcpTransport, err := transport.NewTCPTransport(&transport.TCPConfig{})
	require.NoError(t, err)

	dialer := StegDialer(tcpTransport, testutils.NewStockedEngine(t, seed, 2048, 2))
	p, err := New("127.0.0.1:0", dialer)
	require.NoError(t, err)
	go func() { _ = p.Start() }()
	t.Cleanup(func() { _ = p.Stop() })

	// The echo payload crosses the proxy hop as framed cover bytes and
	// still round-trips byte-exactly.
	testutils.AssertConnectedToProxy(t, p.Addr(), echoAddr)
}

func TestProxyLifecycle(t *testing.T) {
	dialer := func(ctx context.Context, network, address string) (net.Conn, error) {
		return net.Dial(network, address)
	}

	p, err := New("127.0.0.1:0", dialer)
	require.NoError(t, err)
	require.NotEmpty(t, p.Addr())
	require.NoError(t, p.Stop())
}
