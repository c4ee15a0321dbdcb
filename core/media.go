package core

// MediaKind tags the origin of a cover buffer. Purely descriptive; the
// codec treats every cover as an opaque byte sequence.
type MediaKind string

const (
	KindNoise   MediaKind = "noise"
	KindPattern MediaKind = "pattern"
	KindText    MediaKind = "text"
	KindAudio   MediaKind = "audio"
	KindBinary  MediaKind = "binary"
	KindImage   MediaKind = "image"
)

// CoverMedium is one entry in the Engine's cover pool: the carrier
// bytes plus the payload capacity computed for them under the active
// codec. The pool owns Data exclusively: it is copied on add and
// never handed back out.
type CoverMedium struct {
	Data     []byte
	Kind     MediaKind
	Capacity int
}

// EncodeResult is the outcome of one Engine.Encode call. On failure
// under the passthrough policy Data carries the original payload, so
// callers can always use Data regardless of Success.
type EncodeResult struct {
	Data        []byte
	PayloadSize int
	CoverSize   int
	Codec       string
	Success     bool
	Error       string
}

// DecodeResult is the outcome of one Engine.Decode call.
type DecodeResult struct {
	Data        []byte
	PayloadSize int
	Codec       string
	Success     bool
	Error       string
}

// PoolStats is an aggregate snapshot of the cover pool.
type PoolStats struct {
	Size            int
	TotalCapacity   int
	AverageCapacity float64
	MinCapacity     int
}
