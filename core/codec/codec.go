//go:generate mockgen -package=mocks -destination=../../mocks/mock_codec.go github.com/stegoflow/stegoflow/core/codec Codec

package codec

import (
	"fmt"
	"sort"
	"sync"
)

// Framing constants for the steganographic buffer layout. The first
// HeaderBits cover bytes carry the payload length, one bit per byte.
const (
	HeaderBytes = 4
	HeaderBits  = HeaderBytes * 8
)

// RequiredCoverSize returns the minimum cover length, in bytes, needed
// to embed a payload of payloadLen bytes: one cover byte per bit of
// header and payload.
func RequiredCoverSize(payloadLen int) int {
	return (payloadLen + HeaderBytes) * 8
}

// Codec is the bit-level embedding transform. Implementations must be
// stateless with respect to individual Encode/Decode calls: the same
// inputs always produce the same outputs, and Encode never mutates the
// cover it is given.
type Codec interface {
	// Name returns the registry name of the transform.
	Name() string
	// Encode embeds payload into a copy of cover and returns the copy.
	// The returned buffer has the same length as cover.
	Encode(payload, cover []byte) ([]byte, error)
	// Decode recovers the payload embedded in steg.
	Decode(steg []byte) ([]byte, error)
	// CalculateCapacity returns the maximum payload size, in bytes,
	// that the given cover can carry. Never negative.
	CalculateCapacity(cover []byte) int
}

// CoverValidator is an optional codec capability: a quick usability
// check for candidate covers. Probed by type assertion.
type CoverValidator interface {
	ValidateCover(cover []byte) bool
}

// Seeder is an optional codec capability for keyed or deterministic
// variants. Codecs that accept a seed must tolerate any string,
// including the empty string. Probed by type assertion.
type Seeder interface {
	SetSeed(seed string)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Codec)
)

// Register makes a codec constructor available under the given name.
// Later registrations with the same name replace earlier ones.
func Register(name string, constructor func() Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// New constructs a fresh codec instance by registry name.
func New(name string) (Codec, error) {
	registryMu.RLock()
	constructor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown codec: %q", name)
	}
	return constructor(), nil
}

// Names returns the sorted names of all registered codecs.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
