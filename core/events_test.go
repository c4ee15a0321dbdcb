package core_test

import (
	"testing"

	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/codec"
	"github.com/stegoflow/stegoflow/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEventDelivery(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetCodec(codec.NewLSB())
	e.AddCoverBytes(make([]byte, 256))

	var got []core.Event
	cancel := e.Subscribe(core.EventEncode, func(ev core.Event) {
		got = append(got, ev)
	})
	defer cancel()

	res, err := e.Encode([]byte("observe me"))
	require.NoError(t, err)

	// Delivery is synchronous: the event is visible before Encode
	// returns, no waiting needed.
	require.Len(t, got, 1)
	assert.Equal(t, core.EventEncode, got[0].Kind)
	assert.Same(t, res, got[0].Encode)
	assert.Greater(t, got[0].Elapsed.Nanoseconds(), int64(0))
}

func TestErrorEventEmittedRegardlessOfPolicy(t *testing.T) {
	for _, policy := range []config.Policy{config.OnErrorPassthrough, config.OnErrorDrop, config.OnErrorThrow} {
		t.Run(string(policy), func(t *testing.T) {
			e := newTestEngine(t, policyConfig(policy))
			e.SetCodec(codec.NewLSB())

			var errEvents int
			cancel := e.Subscribe(core.EventError, func(ev core.Event) {
				errEvents++
				assert.Error(t, ev.Err)
			})
			defer cancel()

			_, _ = e.Encode([]byte("doomed"))
			assert.Equal(t, 1, errEvents)
		})
	}
}

func TestHandlerPanicIsolation(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetCodec(codec.NewLSB())
	e.AddCoverBytes(make([]byte, 256))

	var siblingRan bool
	var handlerErrs []error
	cancelErr := e.Subscribe(core.EventError, func(ev core.Event) {
		handlerErrs = append(handlerErrs, ev.Err)
	})
	defer cancelErr()

	cancelBad := e.Subscribe(core.EventEncode, func(core.Event) {
		panic("subscriber bug")
	})
	defer cancelBad()
	cancelGood := e.Subscribe(core.EventEncode, func(core.Event) {
		siblingRan = true
	})
	defer cancelGood()

	res, err := e.Encode([]byte("still fine"))
	require.NoError(t, err)
	assert.True(t, res.Success, "a panicking handler must not corrupt the result")
	assert.True(t, siblingRan, "siblings must still receive the event")

	require.Len(t, handlerErrs, 1)
	var herr *core.HandlerError
	require.ErrorAs(t, handlerErrs[0], &herr)
	assert.Equal(t, core.EventEncode, herr.Kind)
}

func TestPanicInErrorHandlerDoesNotRecurse(t *testing.T) {
	e := newTestEngine(t, policyConfig(config.OnErrorDrop))
	e.SetCodec(codec.NewLSB())

	calls := 0
	cancel := e.Subscribe(core.EventError, func(core.Event) {
		calls++
		panic("error handler bug")
	})
	defer cancel()

	// Encode fails (no covers), the error handler panics, and the
	// engine must neither crash nor re-enter the handler.
	res, err := e.Encode([]byte("p"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, calls)
}

func TestSubscribeCancel(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetCodec(codec.NewLSB())
	e.AddCoverBytes(make([]byte, 256))

	events := 0
	cancel := e.Subscribe(core.EventEncode, func(core.Event) { events++ })

	_, err := e.Encode([]byte("one"))
	require.NoError(t, err)
	cancel()
	_, err = e.Encode([]byte("two"))
	require.NoError(t, err)

	assert.Equal(t, 1, events)
}

func TestConfigUpdatedEvent(t *testing.T) {
	e := newTestEngine(t, nil)

	var kinds []core.EventKind
	cancel := e.Subscribe(core.EventConfigUpdated, func(ev core.Event) { kinds = append(kinds, ev.Kind) })
	defer cancel()

	debug := true
	require.NoError(t, e.UpdateConfig(config.Update{Debug: &debug}))
	assert.Equal(t, []core.EventKind{core.EventConfigUpdated}, kinds)
}

func TestDebugEventsGatedByConfig(t *testing.T) {
	e := newTestEngine(t, &config.Config{Seed: "s", Debug: true})

	debugEvents := 0
	cancel := e.Subscribe(core.EventDebug, func(core.Event) { debugEvents++ })
	defer cancel()

	e.AddCoverBytes(make([]byte, 128))
	assert.Equal(t, 1, debugEvents)

	// Switch diagnostics off; the channel goes quiet.
	off := false
	require.NoError(t, e.UpdateConfig(config.Update{Debug: &off}))
	e.AddCoverBytes(make([]byte, 128))
	assert.Equal(t, 1, debugEvents)
}
