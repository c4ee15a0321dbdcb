package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stegoflow/stegoflow/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// countingTransport records dial attempts and fails a configurable
// number of times before succeeding.
type countingTransport struct {
	dials    int
	failures int
}

func (t *countingTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	t.dials++
	if t.dials <= t.failures {
		return nil, errors.New("synthetic dial failure")
	}
	client, server := net.Pipe()
	go func() { _ = server.Close() }()
	return client, nil
}

func (t *countingTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	return nil, errors.New("not implemented")
}

func (t *countingTransport) Close() error { return nil }

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(base Transport) Transport {
			order = append(order, name)
			return base
		}
	}

	base := &countingTransport{}
	Chain(tag("outer"), tag("inner"))(base)

	// Chain applies in reverse so the first middleware wraps outermost.
	assert.Equal(t, []string{"inner", "outer"}, order)
}

func TestRetryMiddleware(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		base := &countingTransport{failures: 2}
		wrapped := RetryMiddleware(3, time.Millisecond)(base)

		conn, err := wrapped.DialContext(context.Background(), "tcp", "target")
		require.NoError(t, err)
		_ = conn.Close()
		assert.Equal(t, 3, base.dials)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		base := &countingTransport{failures: 10}
		wrapped := RetryMiddleware(2, time.Millisecond)(base)

		_, err := wrapped.DialContext(context.Background(), "tcp", "target")
		require.Error(t, err)
		assert.Equal(t, 2, base.dials)
	})

	t.Run("honors context cancellation between attempts", func(t *testing.T) {
		base := &countingTransport{failures: 10}
		wrapped := RetryMiddleware(5, 50*time.Millisecond)(base)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := wrapped.DialContext(ctx, "tcp", "target")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	base := &countingTransport{}
	wrapped := TimeoutMiddleware(time.Second)(base)

	conn, err := wrapped.DialContext(context.Background(), "tcp", "target")
	require.NoError(t, err)
	_ = conn.Close()
}

func TestThrottlingMiddleware(t *testing.T) {
	base := &countingTransport{}
	// Burst of one, then one dial per 20ms.
	wrapped := ThrottlingMiddleware(rate.Every(20*time.Millisecond), 1)(base)

	start := time.Now()
	for i := 0; i < 3; i++ {
		conn, err := wrapped.DialContext(context.Background(), "tcp", "target")
		require.NoError(t, err)
		_ = conn.Close()
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond,
		"three dials through a 20ms limiter must take at least two periods")
}

func TestLoggingMiddleware(t *testing.T) {
	base := &countingTransport{}
	wrapped := LoggingMiddleware(testutils.NewTestLogger())(base)

	conn, err := wrapped.DialContext(context.Background(), "tcp", "target")
	require.NoError(t, err)
	_ = conn.Close()
	require.NoError(t, wrapped.Close())
}
