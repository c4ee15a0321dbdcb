package core

import "fmt"

// ConfigurationError reports an operation attempted against an Engine
// that is missing a prerequisite: no codec set, no cover media
// available. Recoverable at encode time via the error policy.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// HandlerError wraps a panic escaping an event handler. Delivery to
// sibling handlers continues; the panic is re-surfaced as an error
// event carrying this type.
type HandlerError struct {
	Kind  EventKind
	Cause any
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %q event panicked: %v", e.Kind, e.Cause)
}
