package codec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// PermutedLSB is the keyed variant of the LSB codec. The length header
// occupies the same first HeaderBits cover bytes, but payload bits are
// scattered across the whole usable region by a permutation derived
// deterministically from the seed. Both sides must share the seed for
// the payload to survive the round trip; the header always parses.
//
// This is key-dependent scattering, not encryption: the payload bits
// are relocated, never transformed.
type PermutedLSB struct {
	key []byte
}

// NewPermutedLSB returns a keyed-scatter codec for the given seed. An
// empty seed is allowed and yields the fixed permutation derived from
// the empty-string key.
func NewPermutedLSB(seed string) *PermutedLSB {
	c := &PermutedLSB{}
	c.SetSeed(seed)
	return c
}

func init() {
	Register("lsb-permute", func() Codec { return NewPermutedLSB("") })
}

// Name implements Codec.
func (c *PermutedLSB) Name() string { return "lsb-permute" }

// SetSeed derives the permutation key from the seed. Changing the seed
// changes the bit layout of every subsequent Encode and Decode.
func (c *PermutedLSB) SetSeed(seed string) {
	sum := sha256.Sum256([]byte(seed))
	c.key = sum[:]
}

// Encode implements Codec.
func (c *PermutedLSB) Encode(payload, cover []byte) ([]byte, error) {
	required := RequiredCoverSize(len(payload))
	if len(cover) < required {
		return nil, &CapacityError{
			PayloadSize: len(payload),
			CoverSize:   len(cover),
			Required:    required,
		}
	}

	out := make([]byte, len(cover))
	copy(out, cover)

	writeLength(out, uint32(len(payload)))
	perm := c.permutation(c.slots(len(cover)))
	for i := 0; i < len(payload)*8; i++ {
		bit := (payload[i/8] >> (i % 8)) & 1
		writeBit(out, HeaderBits+perm[i], bit)
	}
	return out, nil
}

// Decode implements Codec. The permutation is rebuilt from the buffer
// length, so both sides derive identical layouts from identical seeds.
func (c *PermutedLSB) Decode(steg []byte) ([]byte, error) {
	length, err := readLength(steg)
	if err != nil {
		return nil, err
	}

	perm := c.permutation(c.slots(len(steg)))
	payload := make([]byte, length)
	for i := 0; i < length*8; i++ {
		payload[i/8] |= readBit(steg, HeaderBits+perm[i]) << (i % 8)
	}
	return payload, nil
}

// CalculateCapacity implements Codec. Same arithmetic as the plain LSB
// layout; scattering relocates bits but does not add or remove slots.
func (c *PermutedLSB) CalculateCapacity(cover []byte) int {
	if len(cover) < HeaderBits {
		return 0
	}
	return (len(cover) - HeaderBits) / 8
}

// ValidateCover reports whether the cover has room for the header plus
// at least one payload byte.
func (c *PermutedLSB) ValidateCover(cover []byte) bool {
	return len(cover) >= (HeaderBytes+1)*8
}

// slots returns the number of usable payload bit positions for a
// buffer of the given length. Only whole payload bytes count, so the
// permutation domain is identical on both sides of the round trip.
func (c *PermutedLSB) slots(bufLen int) int {
	if bufLen < HeaderBits {
		return 0
	}
	return (bufLen - HeaderBits) / 8 * 8
}

// permutation returns the seed-determined Fisher-Yates shuffle of
// [0, n).
func (c *PermutedLSB) permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	stream := newKeyStream(c.key)
	for i := n - 1; i > 0; i-- {
		j := int(stream.next() % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// keyStream yields deterministic 64-bit draws from an HMAC-SHA256
// counter stream, the same construction used for seeded cover
// generation.
type keyStream struct {
	key     []byte
	counter uint64
	block   []byte
	offset  int
}

func newKeyStream(key []byte) *keyStream {
	return &keyStream{key: key}
}

func (s *keyStream) next() uint64 {
	if s.offset+8 > len(s.block) {
		var counterBuf [8]byte
		binary.BigEndian.PutUint64(counterBuf[:], s.counter)
		s.counter++
		mac := hmac.New(sha256.New, s.key)
		mac.Write(counterBuf[:])
		s.block = mac.Sum(nil)
		s.offset = 0
	}
	v := binary.BigEndian.Uint64(s.block[s.offset:])
	s.offset += 8
	return v
}
