// Package testutils carries the shared plumbing for integration-style
// tests: loopback echo servers, a SOCKS5 reachability check, a stocked
// steganography engine, and a discarding test logger.
package testutils

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"

	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/codec"
	"github.com/stegoflow/stegoflow/core/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/proxy"
)

// TestTimeout is the default timeout for operations in tests.
const TestTimeout = 5 * time.Second

// NewStockedEngine returns an engine with the plain LSB codec and a
// handful of covers large enough for typical test payloads. Both ends
// of a round trip can share one of these.
func NewStockedEngine(t *testing.T, seed string, coverSize, coverCount int) *core.Engine {
	t.Helper()
	engine, err := core.NewEngine(&config.Config{Seed: seed}, NewTestLogger())
	require.NoError(t, err)
	engine.SetCodec(codec.NewLSB())
	for i := 0; i < coverCount; i++ {
		cover := make([]byte, coverSize)
		for j := range cover {
			cover[j] = byte(i*131 + j*17)
		}
		engine.AddCover(core.CoverMedium{Data: cover, Kind: core.KindPattern})
	}
	return engine
}

// EchoServer is a TCP server that echoes back any data it receives.
type EchoServer struct {
	listener net.Listener
}

// NewEchoServer starts an echo server on a loopback port and closes it
// when the test finishes.
func NewEchoServer(t *testing.T) *EchoServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &EchoServer{listener: listener}
	go s.run()
	t.Cleanup(s.Close)
	return s
}

func (s *EchoServer) run() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // listener closed
		}
		go func(c net.Conn) {
			defer c.Close()
			_, _ = io.Copy(c, c)
		}(conn)
	}
}

// Addr returns the address of the server.
func (s *EchoServer) Addr() string {
	return s.listener.Addr().String()
}

// Close stops the server.
func (s *EchoServer) Close() {
	_ = s.listener.Close()
}

// NewTLSEchoServer starts a TLS echo server with a self-signed
// certificate and returns it together with a pool trusting that cert.
func NewTLSEchoServer(t *testing.T) (*EchoServer, *x509.CertPool) {
	t.Helper()
	cert, pool, err := generateTestCert()
	require.NoError(t, err)

	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	require.NoError(t, err)
	s := &EchoServer{listener: listener}
	go s.run()
	t.Cleanup(s.Close)
	return s, pool
}

// generateTestCert creates a self-signed certificate for testing.
func generateTestCert() (tls.Certificate, *x509.CertPool, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"stegoflow test"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	certPem := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})
	keyPem := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	cert, err := tls.X509KeyPair(certPem, keyPem)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(certPem)
	return cert, pool, nil
}

// CheckSOCKS5Proxy connects to a target through a SOCKS5 proxy and
// verifies a small payload is echoed back.
func CheckSOCKS5Proxy(proxyAddr, targetAddr string) error {
	dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	conn, err := dialer.(proxy.ContextDialer).DialContext(ctx, "tcp", targetAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	payload := "hello"
	if _, err := conn.Write([]byte(payload)); err != nil {
		return err
	}

	response := make([]byte, len(payload))
	if _, err := io.ReadFull(conn, response); err != nil {
		return fmt.Errorf("failed to read echo response: %w", err)
	}
	if string(response) != payload {
		return fmt.Errorf("unexpected response: got %q, want %q", string(response), payload)
	}
	return nil
}

// AssertConnectedToProxy is a helper for integration tests.
func AssertConnectedToProxy(t *testing.T, proxyAddr, targetAddr string) {
	t.Helper()
	err := CheckSOCKS5Proxy(proxyAddr, targetAddr)
	require.NoError(t, err, "failed to connect to target through SOCKS5 proxy")
}
