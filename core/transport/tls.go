package transport

import (
	"crypto/x509"
	"fmt"
	"net"

	utls "github.com/refraction-networking/utls"
)

// CamouflageConfig selects the browser ClientHello a dialed connection
// imitates. A steg channel whose handshake fingerprints as a plain Go
// client undercuts the point of hiding the payload.
type CamouflageConfig struct {
	// ClientHelloID names an entry of HelloIDs, e.g. "HelloChrome_Auto".
	ClientHelloID string
	// ServerName overrides the SNI derived from the dialed address.
	ServerName string
	// RootCAs optionally pins the verification roots.
	RootCAs *x509.CertPool
	// InsecureSkipVerify disables certificate verification. Test use
	// only.
	InsecureSkipVerify bool
}

// HelloIDs maps configuration names to uTLS ClientHello fingerprints.
var HelloIDs = map[string]utls.ClientHelloID{
	"HelloChrome_Auto":      utls.HelloChrome_Auto,
	"HelloFirefox_Auto":     utls.HelloFirefox_Auto,
	"HelloIOS_Auto":         utls.HelloIOS_Auto,
	"HelloEdge_Auto":        utls.HelloEdge_Auto,
	"HelloSafari_Auto":      utls.HelloSafari_Auto,
	"HelloRandomized":       utls.HelloRandomized,
	"HelloRandomizedALPN":   utls.HelloRandomizedALPN,
	"HelloRandomizedNoALPN": utls.HelloRandomizedNoALPN,
}

// NewCamouflagedClient wraps an established connection in a uTLS
// handshake using the configured browser fingerprint.
func NewCamouflagedClient(conn net.Conn, cfg *CamouflageConfig, defaultServerName string) (net.Conn, error) {
	helloID, ok := HelloIDs[cfg.ClientHelloID]
	if !ok {
		return nil, fmt.Errorf("unknown ClientHelloID: %q", cfg.ClientHelloID)
	}

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = defaultServerName
	}

	uconn := utls.UClient(conn, &utls.Config{
		ServerName:         serverName,
		RootCAs:            cfg.RootCAs,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, helloID)
	if err := uconn.Handshake(); err != nil {
		return nil, fmt.Errorf("camouflage handshake failed: %w", err)
	}
	return uconn, nil
}
