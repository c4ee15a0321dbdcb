package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLSBRoundTrip(t *testing.T) {
	c := NewLSB()

	tests := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0x42}},
		{"text", []byte("the quick brown fox jumps over the lazy dog")},
		{"empty", []byte{}},
		{"zero bytes", []byte{0x00, 0x00, 0x00}},
		{"all ones", []byte{0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cover := make([]byte, RequiredCoverSize(len(tt.payload))+17)
			for i := range cover {
				cover[i] = byte(i * 31)
			}

			steg, err := c.Encode(tt.payload, cover)
			require.NoError(t, err)
			require.Len(t, steg, len(cover))

			decoded, err := c.Decode(steg)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.payload, decoded),
				"decoded payload differs: got %x, want %x", decoded, tt.payload)
		})
	}
}

func TestLSBRoundTripFullAlphabet(t *testing.T) {
	c := NewLSB()

	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}
	cover := make([]byte, RequiredCoverSize(len(payload)))

	steg, err := c.Encode(payload, cover)
	require.NoError(t, err)

	decoded, err := c.Decode(steg)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestLSBCapacity(t *testing.T) {
	c := NewLSB()

	tests := []struct {
		coverLen int
		want     int
	}{
		{100, 8},
		{32, 0},
		{31, 0},
		{10000, 1246},
		{0, 0},
		{40, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.CalculateCapacity(make([]byte, tt.coverLen)),
			"capacity for cover of %d bytes", tt.coverLen)
	}
}

func TestLSBDoesNotMutateCover(t *testing.T) {
	c := NewLSB()

	cover := make([]byte, 256)
	for i := range cover {
		cover[i] = byte(i)
	}
	original := make([]byte, len(cover))
	copy(original, cover)

	_, err := c.Encode([]byte("payload"), cover)
	require.NoError(t, err)
	assert.Equal(t, original, cover, "encode must not touch the cover buffer")
}

func TestLSBMinimalMutation(t *testing.T) {
	c := NewLSB()

	cover := bytes.Repeat([]byte{0xFF}, 128)
	steg, err := c.Encode([]byte{0xA5}, cover)
	require.NoError(t, err)

	changed := 0
	for i := range cover {
		diff := cover[i] ^ steg[i]
		// Only bit 0 may ever differ.
		require.Zero(t, diff&0xFE, "high-order bits changed at byte %d", i)
		if diff != 0 {
			changed++
		}
	}
	assert.LessOrEqual(t, changed, HeaderBits+8,
		"a 1-byte payload must touch at most the header plus 8 payload bits")
}

func TestLSBCapacityError(t *testing.T) {
	c := NewLSB()

	payload := make([]byte, 100)
	cover := make([]byte, 100)

	_, err := c.Encode(payload, cover)
	require.Error(t, err)

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 100, capErr.PayloadSize)
	assert.Equal(t, 100, capErr.CoverSize)
	assert.Equal(t, RequiredCoverSize(100), capErr.Required)
}

func TestLSBDecodeFraming(t *testing.T) {
	c := NewLSB()

	t.Run("buffer shorter than header", func(t *testing.T) {
		_, err := c.Decode(make([]byte, HeaderBits-1))
		var framingErr *FramingError
		require.ErrorAs(t, err, &framingErr)
		assert.Equal(t, HeaderBits-1, framingErr.Size)
	})

	t.Run("length exceeds buffer", func(t *testing.T) {
		// Claim a 255-byte payload in a buffer that can hold one byte.
		steg := make([]byte, 40)
		writeLength(steg, 255)

		_, err := c.Decode(steg)
		var lenErr *InvalidLengthError
		require.ErrorAs(t, err, &lenErr)
		assert.Equal(t, 255, lenErr.Length)
		assert.Equal(t, 1, lenErr.Max)
	})

	t.Run("zero length decodes to empty payload", func(t *testing.T) {
		steg := make([]byte, HeaderBits)
		payload, err := c.Decode(steg)
		require.NoError(t, err)
		assert.Empty(t, payload)
	})
}

func TestLSBSeedIsAcceptedNoOp(t *testing.T) {
	seeded := NewLSB()
	seeded.SetSeed("some-seed")
	plain := NewLSB()

	cover := make([]byte, 200)
	payload := []byte("identical")

	a, err := seeded.Encode(payload, cover)
	require.NoError(t, err)
	b, err := plain.Encode(payload, cover)
	require.NoError(t, err)
	assert.Equal(t, a, b, "seed must not alter the plain LSB layout")
}

func TestRegistry(t *testing.T) {
	t.Run("built-ins registered", func(t *testing.T) {
		names := Names()
		assert.Contains(t, names, "lsb")
		assert.Contains(t, names, "lsb-permute")
	})

	t.Run("new by name", func(t *testing.T) {
		c, err := New("lsb")
		require.NoError(t, err)
		assert.Equal(t, "lsb", c.Name())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := New("rot13")
		require.Error(t, err)
	})
}
