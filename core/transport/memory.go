package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
)

// MemoryTransport is an in-process Transport built on synchronous
// pipes. Dialers and listeners meet through names instead of
// sockets, the test and demo counterpart of the network transports.
type MemoryTransport struct {
	mu        sync.Mutex
	listeners map[string]*memoryListener
	closed    bool
}

// NewMemoryTransport returns an empty in-process transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{listeners: make(map[string]*memoryListener)}
}

// DialContext connects to a named listener on this transport.
func (t *MemoryTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	listener, ok := t.listeners[address]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no memory listener at %q", address)
	}

	client, server := net.Pipe()
	select {
	case listener.pending <- server:
		return client, nil
	case <-listener.done:
		_ = client.Close()
		_ = server.Close()
		return nil, fmt.Errorf("memory listener at %q is closed", address)
	case <-ctx.Done():
		_ = client.Close()
		_ = server.Close()
		return nil, ctx.Err()
	}
}

// Listen registers a named listener. The address is any non-empty
// string; dialing the same string reaches it.
func (t *MemoryTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	if address == "" {
		return nil, fmt.Errorf("memory listener needs a name")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	if _, exists := t.listeners[address]; exists {
		return nil, fmt.Errorf("memory listener at %q already exists", address)
	}

	listener := &memoryListener{
		transport: t,
		address:   address,
		pending:   make(chan net.Conn, 8),
		done:      make(chan struct{}),
	}
	t.listeners[address] = listener
	return listener, nil
}

// Close shuts down every listener on the transport.
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	for _, listener := range t.listeners {
		listener.closeLocked()
	}
	t.listeners = make(map[string]*memoryListener)
	return nil
}

func (t *MemoryTransport) remove(address string) {
	t.mu.Lock()
	delete(t.listeners, address)
	t.mu.Unlock()
}

type memoryListener struct {
	transport *MemoryTransport
	address   string
	pending   chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func (l *memoryListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.pending:
		return conn, nil
	case <-l.done:
		return nil, ErrClosed
	}
}

func (l *memoryListener) Close() error {
	l.transport.remove(l.address)
	l.closeLocked()
	return nil
}

func (l *memoryListener) closeLocked() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *memoryListener) Addr() net.Addr {
	return memoryAddr(l.address)
}

type memoryAddr string

func (a memoryAddr) Network() string { return "mem" }
func (a memoryAddr) String() string  { return string(a) }
