// Package stegoflow embeds payloads inside innocuous cover media and
// recovers them on the far side. This file is the public facade; the
// mechanics live under core/.
package stegoflow

import (
	"bytes"
	"fmt"
	"os"

	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/codec"
	"github.com/stegoflow/stegoflow/core/config"
	"github.com/stegoflow/stegoflow/core/covergen"
	"github.com/stegoflow/stegoflow/interfaces"
	"github.com/stegoflow/stegoflow/pkg/logging"
)

// Engine wraps the core engine behind the interfaces.Engine contract.
type Engine struct {
	coreEngine *core.Engine
}

var _ interfaces.Engine = (*Engine)(nil)

// New builds an engine from the given configuration, resolves its
// codec from the registry, and materializes the configured cover media
// into the pool. A nil cfg gets full defaults; a nil logger gets the
// global one.
func New(cfg *config.Config, logger logging.Logger) (*Engine, error) {
	coreEngine, err := core.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	effective := coreEngine.Config()
	c, err := codec.New(effective.Codec)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve codec: %w", err)
	}
	coreEngine.SetCodec(c)

	for i, spec := range effective.CoverMedia {
		medium, err := materialize(spec, effective.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize cover_media entry %d: %w", i, err)
		}
		coreEngine.AddCover(medium)
	}

	return &Engine{coreEngine: coreEngine}, nil
}

// NewFromFile builds an engine from a YAML configuration file.
func NewFromFile(path string, logger logging.Logger) (*Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

// materialize turns one config entry into pool bytes: file-backed
// entries are read from disk, generated entries come from covergen.
func materialize(spec config.MediaSpec, seed string) (core.CoverMedium, error) {
	if spec.Path != "" {
		data, err := os.ReadFile(spec.Path)
		if err != nil {
			return core.CoverMedium{}, fmt.Errorf("failed to read cover file: %w", err)
		}
		kind := core.MediaKind(spec.Kind)
		if kind == core.KindImage {
			plane, err := covergen.FromImage(bytes.NewReader(data))
			if err != nil {
				return core.CoverMedium{}, fmt.Errorf("failed to extract image plane: %w", err)
			}
			return core.CoverMedium{Data: plane, Kind: kind}, nil
		}
		if kind == "" {
			kind = core.KindBinary
		}
		return core.CoverMedium{Data: data, Kind: kind}, nil
	}

	gen, err := covergen.ForKind(spec.Kind, seed)
	if err != nil {
		return core.CoverMedium{}, err
	}
	data, err := gen.Generate(spec.Size)
	if err != nil {
		return core.CoverMedium{}, err
	}
	return core.CoverMedium{Data: data, Kind: core.MediaKind(spec.Kind)}, nil
}

// Encode hides payload inside the next available cover medium.
func (e *Engine) Encode(payload []byte) (*core.EncodeResult, error) {
	return e.coreEngine.Encode(payload)
}

// Decode recovers a payload from carrier bytes.
func (e *Engine) Decode(steg []byte) *core.DecodeResult {
	return e.coreEngine.Decode(steg)
}

// AddCover appends raw bytes to the cover pool.
func (e *Engine) AddCover(data []byte) {
	e.coreEngine.AddCoverBytes(data)
}

// UpdateConfig applies a partial configuration update atomically.
func (e *Engine) UpdateConfig(u config.Update) error {
	return e.coreEngine.UpdateConfig(u)
}

// PoolStats reports aggregate capacity of the cover pool.
func (e *Engine) PoolStats() core.PoolStats {
	return e.coreEngine.PoolStats()
}

// Subscribe registers a handler for engine events.
func (e *Engine) Subscribe(kind core.EventKind, h core.Handler) (cancel func()) {
	return e.coreEngine.Subscribe(kind, h)
}

// Core exposes the underlying engine for callers that need operations
// beyond the facade contract, such as transport wiring.
func (e *Engine) Core() *core.Engine {
	return e.coreEngine
}
