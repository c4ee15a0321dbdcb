package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/stegoflow/stegoflow/core/codec"
	"github.com/stegoflow/stegoflow/core/config"
	"github.com/stegoflow/stegoflow/pkg/logging"
)

// Engine is the stateful orchestrator around a codec: it owns the
// cover pool, selects a cover per encode via round-robin, enforces
// capacity, applies the configured failure policy, and mirrors every
// outcome onto the event bus.
//
// A single mutex guards all mutable state. Operations run to
// completion under it; event delivery happens after the lock is
// released but always before the triggering call returns.
type Engine struct {
	mu     sync.Mutex
	config config.Config
	codec  codec.Codec
	pool   coverPool
	bus    *eventBus
	logger logging.Logger
}

// NewEngine builds an engine from the given configuration. A nil cfg
// gets full defaults; a nil logger gets the global one. The codec is
// injected separately via SetCodec; until then, encode routes through
// the error policy and decode fails terminally.
func NewEngine(cfg *config.Config, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger = logger.With("component", "engine")

	var effective config.Config
	if cfg != nil {
		effective = *cfg
	}
	effective.ApplyDefaults()
	if err := effective.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		config: effective,
		bus:    newEventBus(logger),
		logger: logger,
	}, nil
}

// SetCodec replaces the active codec, propagates the configured seed
// to seed-accepting codecs, and recomputes every pool entry's capacity
// so the accounting never reflects a previous codec's arithmetic.
func (e *Engine) SetCodec(c codec.Codec) {
	e.mu.Lock()
	e.codec = c
	if seeder, ok := c.(codec.Seeder); ok {
		seeder.SetSeed(e.config.Seed)
	}
	e.pool.recompute(c)
	debugEv := e.debugEvent("codec replaced")
	e.mu.Unlock()

	if c != nil {
		e.logger.Debug("codec set", "codec", c.Name())
	}
	e.emit(debugEv)
}

// Encode hides payload inside the next cover from the pool. The shape
// of a failure is governed by the configured error policy: passthrough
// and drop return a failure result (with the original or empty data
// respectively) and a nil error; throw returns a nil result and the
// error itself. Every failure additionally emits an error event, so
// observers see problems regardless of policy.
func (e *Engine) Encode(payload []byte) (*EncodeResult, error) {
	start := time.Now()

	e.mu.Lock()
	if !e.config.IsEnabled() {
		e.mu.Unlock()
		// Deliberate bypass: the payload passes through untouched and
		// no codec is consulted.
		return &EncodeResult{
			Data:        cloneBytes(payload),
			PayloadSize: len(payload),
			Success:     true,
		}, nil
	}

	if e.codec == nil {
		return e.encodeFailure(payload, &ConfigurationError{Reason: "no codec set"})
	}

	cover := e.pool.next()
	if cover == nil {
		return e.encodeFailure(payload, &ConfigurationError{Reason: "no cover media available"})
	}

	capacity := e.codec.CalculateCapacity(cover.Data)
	if len(payload) > capacity {
		return e.encodeFailure(payload, fmt.Errorf(
			"payload of %d bytes exceeds cover capacity of %d bytes", len(payload), capacity))
	}

	out, err := e.codec.Encode(payload, cover.Data)
	if err != nil {
		return e.encodeFailure(payload, err)
	}

	result := &EncodeResult{
		Data:        out,
		PayloadSize: len(payload),
		CoverSize:   len(cover.Data),
		Codec:       e.codec.Name(),
		Success:     true,
	}
	handlers := e.bus.snapshot(EventEncode)
	errHandlers := e.bus.snapshot(EventError)
	e.mu.Unlock()

	elapsed := time.Since(start)
	e.logger.Debug("payload encoded",
		"payload_size", result.PayloadSize, "cover_size", result.CoverSize, "elapsed", elapsed)
	deliver(e.logger, Event{Kind: EventEncode, Encode: result, Elapsed: elapsed}, handlers, errHandlers)
	return result, nil
}

// encodeFailure applies the error policy to a failed encode. Called
// with e.mu held; releases it.
func (e *Engine) encodeFailure(payload []byte, cause error) (*EncodeResult, error) {
	policy := e.config.OnError
	codecName := e.codecName()
	errHandlers := e.bus.snapshot(EventError)
	e.mu.Unlock()

	e.logger.Warn("encode failed", "error", cause, "policy", string(policy))
	deliver(e.logger, Event{Kind: EventError, Err: cause, Message: cause.Error()}, errHandlers, nil)

	if policy == config.OnErrorThrow {
		return nil, cause
	}

	result := &EncodeResult{Codec: codecName, Error: cause.Error()}
	if policy == config.OnErrorDrop {
		result.Data = []byte{}
	} else {
		// Passthrough: callers can always use Data, even on failure.
		result.Data = cloneBytes(payload)
		result.PayloadSize = len(payload)
	}
	return result, nil
}

// Decode recovers the payload embedded in steg. Unlike encode, decode
// failures are never policy-routed: there is no original payload to
// fall back to, so every failure is reported as a failure result.
func (e *Engine) Decode(steg []byte) *DecodeResult {
	start := time.Now()

	e.mu.Lock()
	if !e.config.IsEnabled() {
		e.mu.Unlock()
		return &DecodeResult{
			Data:        cloneBytes(steg),
			PayloadSize: len(steg),
			Success:     true,
		}
	}

	if e.codec == nil {
		return e.decodeFailure(&ConfigurationError{Reason: "no codec set"})
	}

	payload, err := e.codec.Decode(steg)
	if err != nil {
		return e.decodeFailure(err)
	}

	result := &DecodeResult{
		Data:        payload,
		PayloadSize: len(payload),
		Codec:       e.codec.Name(),
		Success:     true,
	}
	handlers := e.bus.snapshot(EventDecode)
	errHandlers := e.bus.snapshot(EventError)
	e.mu.Unlock()

	elapsed := time.Since(start)
	e.logger.Debug("payload decoded", "payload_size", result.PayloadSize, "elapsed", elapsed)
	deliver(e.logger, Event{Kind: EventDecode, Decode: result, Elapsed: elapsed}, handlers, errHandlers)
	return result
}

// decodeFailure builds the terminal failure result for a decode.
// Called with e.mu held; releases it.
func (e *Engine) decodeFailure(cause error) *DecodeResult {
	codecName := e.codecName()
	errHandlers := e.bus.snapshot(EventError)
	e.mu.Unlock()

	e.logger.Warn("decode failed", "error", cause)
	deliver(e.logger, Event{Kind: EventError, Err: cause, Message: cause.Error()}, errHandlers, nil)

	return &DecodeResult{Data: []byte{}, Codec: codecName, Error: cause.Error()}
}

// AddCover copies the medium into the pool, computing its capacity
// under the active codec (or the codec-agnostic fallback when none is
// set). The caller's buffer is never aliased.
func (e *Engine) AddCover(m CoverMedium) {
	e.mu.Lock()
	e.pool.add(m, e.codec)
	size := len(e.pool.media)
	debugEv := e.debugEvent("cover added")
	e.mu.Unlock()

	e.logger.Debug("cover added", "kind", string(m.Kind), "size", len(m.Data), "pool_size", size)
	e.emit(debugEv)
}

// AddCoverBytes wraps a raw buffer as a binary cover and adds it.
func (e *Engine) AddCoverBytes(data []byte) {
	e.AddCover(CoverMedium{Data: data, Kind: KindBinary})
}

// UpdateConfig merges the partial update into the effective config by
// whole-field replacement. A changed seed is re-propagated to a
// seed-accepting codec; a non-nil CoverMedia replaces the entire pool
// and resets the round-robin cursor.
func (e *Engine) UpdateConfig(u config.Update) error {
	e.mu.Lock()

	next := e.config
	u.Apply(&next)
	if err := next.Validate(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("invalid config update: %w", err)
	}
	e.config = next

	if u.Seed != nil && e.codec != nil {
		if seeder, ok := e.codec.(codec.Seeder); ok {
			seeder.SetSeed(*u.Seed)
		}
	}
	if u.CoverMedia != nil {
		e.pool.replace()
		for _, data := range *u.CoverMedia {
			e.pool.add(CoverMedium{Data: data, Kind: KindBinary}, e.codec)
		}
	}

	handlers := e.bus.snapshot(EventConfigUpdated)
	errHandlers := e.bus.snapshot(EventError)
	e.mu.Unlock()

	e.logger.Debug("config updated")
	deliver(e.logger, Event{Kind: EventConfigUpdated, Message: "config updated"}, handlers, errHandlers)
	return nil
}

// PoolStats aggregates the current pool. Pure query, no side effects.
func (e *Engine) PoolStats() PoolStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.stats()
}

// Config returns a snapshot of the effective configuration.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// Subscribe registers a handler for one event kind and returns a
// cancel function that removes it. Handlers run synchronously in the
// goroutine of the operation that triggers them.
func (e *Engine) Subscribe(kind EventKind, h Handler) (cancel func()) {
	e.mu.Lock()
	id := e.bus.subscribe(kind, h)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		e.bus.unsubscribe(kind, id)
		e.mu.Unlock()
	}
}

// codecName returns the active codec's name, falling back to the
// configured label. Called with e.mu held.
func (e *Engine) codecName() string {
	if e.codec != nil {
		return e.codec.Name()
	}
	return e.config.Codec
}

// debugEvent prepares a debug delivery when diagnostics are enabled.
// Called with e.mu held; returns a nil-handler delivery otherwise.
func (e *Engine) debugEvent(msg string) func() {
	if !e.config.Debug {
		return nil
	}
	handlers := e.bus.snapshot(EventDebug)
	errHandlers := e.bus.snapshot(EventError)
	logger := e.logger
	return func() {
		deliver(logger, Event{Kind: EventDebug, Message: msg}, handlers, errHandlers)
	}
}

// emit runs a prepared debug delivery, if any.
func (e *Engine) emit(delivery func()) {
	if delivery != nil {
		delivery()
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
