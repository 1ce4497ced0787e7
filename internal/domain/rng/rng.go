// Package rng provides the random sources used by the engine.
//
// Engine code never reaches for a global generator; it receives a Source so
// that tests and audits can pin every random decision.
package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source yields uniform random values.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// cryptoSource reads from crypto/rand. Safe for concurrent use.
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// 53 random bits -> [0, 1)
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func (cryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with non-positive n")
	}
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.IntN(n)
	}
	return int(binary.BigEndian.Uint64(buf[:]) % uint64(n))
}

// Default returns the process-wide crypto-backed source.
func Default() Source { return cryptoSource{} }

// seededSource is a reproducible PCG stream.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a reproducible source for the given seed.
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
