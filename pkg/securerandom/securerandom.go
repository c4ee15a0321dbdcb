// Package securerandom wraps crypto/rand behind the handful of shapes
// this project needs. There is deliberately no math/rand fallback: if
// the platform entropy source fails, callers get an error, never a
// predictable value.
package securerandom

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Int returns a cryptographically secure random integer in [min, max].
func Int(min, max int) (int, error) {
	if max <= min {
		return 0, fmt.Errorf("max must be greater than min (got min=%d, max=%d)", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate secure random int: %w", err)
	}
	return int(n.Int64()) + min, nil
}

// MustInt is like Int but panics on error. Use only where a broken
// entropy source is fatal to the program.
func MustInt(min, max int) int {
	result, err := Int(min, max)
	if err != nil {
		panic(fmt.Sprintf("securerandom.MustInt: %v", err))
	}
	return result
}

// Bytes returns n cryptographically secure random bytes.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate secure random bytes: %w", err)
	}
	return b, nil
}

// Hex returns the hex encoding of n random bytes, suitable as a seed
// or opaque identifier.
func Hex(n int) (string, error) {
	b, err := Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
