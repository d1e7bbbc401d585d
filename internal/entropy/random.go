// Package entropy supplies the randomness used for mission rotation and
// other stochastic campaign events. The default source reads crypto/rand;
// a seeded source gives reproducible sequences for tests and replays.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source produces uniformly distributed integers.
type Source interface {
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// Crypto is a Source backed by crypto/rand.
type Crypto struct{}

func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to Intn")
	}
	return int(cryptoRandFloat() * float64(n))
}

// Seeded is a deterministic Source. It is safe for concurrent use.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source for the given seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// New returns a seeded source, or Crypto when seed is zero.
func New(seed uint64) Source {
	if seed == 0 {
		return Crypto{}
	}
	return NewSeeded(seed)
}

// Shuffle permutes n elements in place with a Fisher–Yates shuffle.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// cryptoRandFloat generates a random float64 in [0, 1) using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// crypto/rand does not fail on supported platforms.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

