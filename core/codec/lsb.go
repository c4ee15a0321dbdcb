package codec

// LSB embeds one payload bit into the least-significant bit of each
// cover byte. The first HeaderBits cover bytes carry the payload
// length as an unsigned 32-bit integer, LSB-first; payload bits follow
// in the same ordering. One bit per cover byte costs an 8x size
// expansion but keeps the capacity formula trivially invertible and
// limits damage from any single corrupted byte to one payload bit.
type LSB struct {
	seed string
}

// NewLSB returns the plain least-significant-bit codec.
func NewLSB() *LSB {
	return &LSB{}
}

func init() {
	Register("lsb", func() Codec { return NewLSB() })
}

// Name implements Codec.
func (c *LSB) Name() string { return "lsb" }

// Encode implements Codec. The cover is never mutated; the payload is
// written into a fresh copy.
func (c *LSB) Encode(payload, cover []byte) ([]byte, error) {
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
	for i := 0; i < len(payload)*8; i++ {
		bit := (payload[i/8] >> (i % 8)) & 1
		writeBit(out, HeaderBits+i, bit)
	}
	return out, nil
}

// Decode implements Codec.
func (c *LSB) Decode(steg []byte) ([]byte, error) {
	length, err := readLength(steg)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	for i := 0; i < length*8; i++ {
		payload[i/8] |= readBit(steg, HeaderBits+i) << (i % 8)
	}
	return payload, nil
}

// CalculateCapacity implements Codec.
func (c *LSB) CalculateCapacity(cover []byte) int {
	if len(cover) < HeaderBits {
		return 0
	}
	return (len(cover) - HeaderBits) / 8
}

// ValidateCover reports whether the cover has room for the header plus
// at least one payload byte.
func (c *LSB) ValidateCover(cover []byte) bool {
	return len(cover) >= (HeaderBytes+1)*8
}

// SetSeed stores the seed without altering behavior. The plain LSB
// layout is fixed; the seed is kept so a future keyed extension stays
// drop-in compatible with seeded configurations.
func (c *LSB) SetSeed(seed string) {
	c.seed = seed
}

// writeBit replaces bit 0 of buf[pos] with bit, leaving the seven
// high-order bits untouched.
func writeBit(buf []byte, pos int, bit byte) {
	buf[pos] = (buf[pos] &^ 1) | (bit & 1)
}

func readBit(buf []byte, pos int) byte {
	return buf[pos] & 1
}

// writeLength stores length across bit 0 of the first HeaderBits
// bytes, least-significant bit first.
func writeLength(buf []byte, length uint32) {
	for i := 0; i < HeaderBits; i++ {
		writeBit(buf, i, byte((length>>i)&1))
	}
}

// readLength validates the buffer against the header region and the
// claimed payload size. A zero length is valid and yields an empty
// payload.
func readLength(steg []byte) (int, error) {
	if len(steg) < HeaderBits {
		return 0, &FramingError{Size: len(steg)}
	}
	var length uint32
	for i := 0; i < HeaderBits; i++ {
		length |= uint32(readBit(steg, i)) << i
	}
	max := (len(steg) - HeaderBits) / 8
	if int64(length) > int64(max) {
		return 0, &InvalidLengthError{Length: int(length), Max: max}
	}
	return int(length), nil
}
