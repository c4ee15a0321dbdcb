// Package interfaces defines the public contracts implemented by the
// top-level stegoflow facade.
package interfaces

//go:generate mockgen -destination=../mocks/mock_engine.go -package=mocks github.com/stegoflow/stegoflow/interfaces Engine

import (
	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/config"
)

// Engine is the embedding pipeline as consumers see it.
type Engine interface {
	// Encode hides payload inside the next available cover medium.
	Encode(payload []byte) (*core.EncodeResult, error)
	// Decode recovers a payload from carrier bytes. The result reports
	// failure instead of returning an error.
	Decode(steg []byte) *core.DecodeResult
	// AddCover appends raw bytes to the cover pool.
	AddCover(data []byte)
	// UpdateConfig applies a partial configuration update atomically.
	UpdateConfig(u config.Update) error
	// PoolStats reports aggregate capacity of the cover pool.
	PoolStats() core.PoolStats
	// Subscribe registers a handler for engine events and returns a
	// function that removes it.
	Subscribe(kind core.EventKind, h core.Handler) (cancel func())
}
