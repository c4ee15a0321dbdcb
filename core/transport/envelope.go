package transport

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression identifies the algorithm applied to the steg buffer
// before framing. The values are wire constants.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

// String returns the human-readable name of a compression tag.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression tag from its string form.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// EnvelopeVersion is the current frame format version.
const EnvelopeVersion = 1

// maxEnvelopeSize bounds the uncompressed steg buffer a peer may claim
// in one frame, so a hostile length field cannot drive allocation.
const maxEnvelopeSize = 16 << 20

// Envelope is the CBOR wire frame around one steganographic buffer.
// Integer keys keep frames compact; Core Deterministic Encoding keeps
// them byte-stable for identical content.
type Envelope struct {
	Version     uint8  `cbor:"1,keyasint"`
	Codec       string `cbor:"2,keyasint"`
	Compression uint8  `cbor:"3,keyasint"`
	Size        uint32 `cbor:"4,keyasint"`
	Digest      []byte `cbor:"5,keyasint"`
	Data        []byte `cbor:"6,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

// envelopeKey is the BLAKE3 keyed-hash domain key: the ASCII domain
// name zero-padded to 32 bytes. Domain separation, not a secret.
var envelopeKey = [32]byte{
	's', 't', 'e', 'g', 'o', 'f', 'l', 'o', 'w', '.',
	'e', 'n', 'v', 'e', 'l', 'o', 'p', 'e',
}

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transport: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("transport: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("transport: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("transport: zstd decoder initialization failed: " + err.Error())
	}
}

// errIncompressible signals that compression would not shrink the
// data; Seal falls back to storing it raw.
var errIncompressible = errors.New("data is incompressible")

// Seal frames a steganographic buffer: keyed digest over the
// uncompressed bytes, optional compression, deterministic CBOR
// encoding. Incompressible data is silently stored uncompressed.
func Seal(steg []byte, codecName string, comp Compression) ([]byte, error) {
	if len(steg) > maxEnvelopeSize {
		return nil, fmt.Errorf("steg buffer of %d bytes exceeds the %d-byte frame limit", len(steg), maxEnvelopeSize)
	}

	sum := digest(steg)
	data, err := compress(steg, comp)
	if errors.Is(err, errIncompressible) {
		data, comp = steg, CompressionNone
	} else if err != nil {
		return nil, err
	}

	return encMode.Marshal(&Envelope{
		Version:     EnvelopeVersion,
		Codec:       codecName,
		Compression: uint8(comp),
		Size:        uint32(len(steg)),
		Digest:      sum[:],
		Data:        data,
	})
}

// Open unframes an envelope, decompresses the steg buffer, and
// verifies its size and digest. Returns the buffer and the codec name
// the sender embedded with.
func Open(frame []byte) ([]byte, string, error) {
	var env Envelope
	if err := decMode.Unmarshal(frame, &env); err != nil {
		return nil, "", fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return nil, "", fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	if env.Size > maxEnvelopeSize {
		return nil, "", fmt.Errorf("envelope claims %d bytes, limit is %d", env.Size, maxEnvelopeSize)
	}

	steg, err := decompress(env.Data, Compression(env.Compression), int(env.Size))
	if err != nil {
		return nil, "", err
	}

	sum := digest(steg)
	if !bytes.Equal(sum[:], env.Digest) {
		return nil, "", errors.New("envelope digest mismatch")
	}
	return steg, env.Codec, nil
}

// digest computes the keyed BLAKE3 sum of the uncompressed steg
// buffer.
func digest(data []byte) [32]byte {
	hasher, err := blake3.NewKeyed(envelopeKey[:])
	if err != nil {
		// NewKeyed only fails on a key of the wrong length.
		panic("transport: blake3 keyed hasher: " + err.Error())
	}
	_, _ = hasher.Write(data)

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

func compress(data []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		dst := make([]byte, bound)
		written, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for data it cannot shrink.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return dst[:written], nil

	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %d", comp)
	}
}

func decompress(data []byte, comp Compression, size int) ([]byte, error) {
	switch comp {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("uncompressed envelope: got %d bytes, header says %d", len(data), size)
		}
		return data, nil

	case CompressionLZ4:
		dst := make([]byte, size)
		read, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, header says %d", read, size)
		}
		return dst, nil

	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, header says %d", len(out), size)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %d", comp)
	}
}
