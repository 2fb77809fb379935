// Package offer generates ride offers: random distance, priced via the
// economy model, decorated with passenger flavor text.
package offer

import (
	"crypto/rand"
	"math/big"
)

// Source abstracts the randomness used by offer generation so tests can
// substitute deterministic values.
type Source interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "offer: Intn called with n <= 0" if n <= 0.
// Panics with "offer: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("offer: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("offer: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// float64Denom is 2^53, the largest power of two whose reciprocal steps are
// exactly representable in a float64 mantissa.
const float64Denom = 1 << 53

// Float64 returns a cryptographically secure random float64 in [0, 1).
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(float64Denom))
	if err != nil {
		panic("offer: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64Denom
}
