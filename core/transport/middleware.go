package transport

import (
	"context"
	"net"
	"time"

	"github.com/stegoflow/stegoflow/pkg/logging"
	"golang.org/x/time/rate"
)

// Chain creates a single Middleware from a series of middlewares.
// The middlewares are applied in the order they are passed.
func Chain(middlewares ...Middleware) Middleware {
	return func(base Transport) Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			base = middlewares[i](base)
		}
		return base
	}
}

// loggingTransport is a transport wrapper that logs method calls.
type loggingTransport struct {
	Transport
	logger logging.Logger
}

func (t *loggingTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	t.logger.Debug("dialing", "network", network, "address", address)
	conn, err := t.Transport.DialContext(ctx, network, address)
	if err != nil {
		t.logger.Warn("dial failed", "address", address, "error", err)
	} else {
		t.logger.Debug("dial successful", "remote", conn.RemoteAddr().String())
	}
	return conn, err
}

func (t *loggingTransport) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	listener, err := t.Transport.Listen(ctx, network, address)
	if err != nil {
		t.logger.Warn("listen failed", "address", address, "error", err)
	} else {
		t.logger.Debug("listening", "address", listener.Addr().String())
	}
	return listener, err
}

func (t *loggingTransport) Close() error {
	t.logger.Debug("closing transport")
	return t.Transport.Close()
}

// LoggingMiddleware creates a middleware that logs transport
// operations. A nil logger uses the global one.
func LoggingMiddleware(logger logging.Logger) Middleware {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger = logger.With("component", "transport")
	return func(base Transport) Transport {
		return &loggingTransport{Transport: base, logger: logger}
	}
}

// timeoutTransport is a transport wrapper that applies a timeout to
// dial operations.
type timeoutTransport struct {
	Transport
	timeout time.Duration
}

func (t *timeoutTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.Transport.DialContext(ctx, network, address)
}

// TimeoutMiddleware creates a middleware that applies a timeout to
// dial operations.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(base Transport) Transport {
		return &timeoutTransport{Transport: base, timeout: timeout}
	}
}

// retryTransport is a transport wrapper that retries failed dial
// attempts.
type retryTransport struct {
	Transport
	attempts int
	delay    time.Duration
}

func (t *retryTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	var lastErr error
	for i := 0; i < t.attempts; i++ {
		conn, err := t.Transport.DialContext(ctx, network, address)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.delay):
			// next attempt
		}
	}
	return nil, lastErr
}

// RetryMiddleware creates a middleware that retries failed dial
// attempts.
func RetryMiddleware(attempts int, delay time.Duration) Middleware {
	return func(base Transport) Transport {
		return &retryTransport{Transport: base, attempts: attempts, delay: delay}
	}
}

// throttlingTransport is a transport wrapper that rate limits dial
// attempts.
type throttlingTransport struct {
	Transport
	limiter *rate.Limiter
}

func (t *throttlingTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.Transport.DialContext(ctx, network, address)
}

// ThrottlingMiddleware creates a middleware for rate limiting dial
// attempts.
func ThrottlingMiddleware(r rate.Limit, b int) Middleware {
	limiter := rate.NewLimiter(r, b)
	return func(base Transport) Transport {
		return &throttlingTransport{Transport: base, limiter: limiter}
	}
}
