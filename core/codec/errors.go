package codec

import "fmt"

// CapacityError reports a payload too large for the chosen cover.
type CapacityError struct {
	PayloadSize int
	CoverSize   int
	Required    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload of %d bytes needs a cover of at least %d bytes, got %d",
		e.PayloadSize, e.Required, e.CoverSize)
}

// FramingError reports a steganographic buffer too small to carry the
// length header.
type FramingError struct {
	Size int
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("buffer of %d bytes is smaller than the %d-byte header region", e.Size, HeaderBits)
}

// InvalidLengthError reports a decoded length header that claims more
// payload than the buffer can hold.
type InvalidLengthError struct {
	Length int
	Max    int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("header claims %d payload bytes but the buffer holds at most %d", e.Length, e.Max)
}
