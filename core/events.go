package core

import (
	"time"

	"github.com/stegoflow/stegoflow/pkg/logging"
)

// EventKind names the notification channels the Engine emits on.
type EventKind string

const (
	EventEncode        EventKind = "encode"
	EventDecode        EventKind = "decode"
	EventError         EventKind = "error"
	EventConfigUpdated EventKind = "configUpdated"
	EventDebug         EventKind = "debug"
)

// Event is one side-channel notification. Exactly one of Encode and
// Decode is set for the encode/decode kinds; Err is set for error
// events. Events are observability only; no consumer is required for
// correctness.
type Event struct {
	Kind    EventKind
	Message string
	Encode  *EncodeResult
	Decode  *DecodeResult
	Err     error
	Elapsed time.Duration
}

// Handler consumes one event. Handlers run synchronously in the
// goroutine that triggered the event, before the triggering call
// returns; they must not block.
type Handler func(Event)

// eventBus fans events out to registered handlers. A panicking handler
// is recovered, reported as a HandlerError on the error channel, and
// never prevents delivery to its siblings.
type eventBus struct {
	logger   logging.Logger
	nextID   int
	handlers map[EventKind]map[int]Handler
}

func newEventBus(logger logging.Logger) *eventBus {
	return &eventBus{
		logger:   logger,
		handlers: make(map[EventKind]map[int]Handler),
	}
}

// subscribe registers a handler for one event kind and returns its
// removal token. Callers synchronize through the Engine mutex.
func (b *eventBus) subscribe(kind EventKind, h Handler) int {
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[int]Handler)
	}
	b.nextID++
	b.handlers[kind][b.nextID] = h
	return b.nextID
}

func (b *eventBus) unsubscribe(kind EventKind, id int) {
	delete(b.handlers[kind], id)
}

// snapshot returns the handlers for a kind so delivery can happen
// outside the Engine mutex.
func (b *eventBus) snapshot(kind EventKind) []Handler {
	hs := make([]Handler, 0, len(b.handlers[kind]))
	for _, h := range b.handlers[kind] {
		hs = append(hs, h)
	}
	return hs
}

// deliver invokes each handler in turn, isolating panics. Panics
// during error-event delivery are logged rather than re-published so a
// faulty error handler cannot recurse.
func deliver(logger logging.Logger, ev Event, handlers []Handler, errHandlers []Handler) {
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					herr := &HandlerError{Kind: ev.Kind, Cause: r}
					logger.Warn("event handler panicked", "event", string(ev.Kind), "cause", r)
					if ev.Kind != EventError {
						deliver(logger, Event{Kind: EventError, Err: herr, Message: herr.Error()}, errHandlers, nil)
					}
				}
			}()
			h(ev)
		}()
	}
}
