package draw

import (
	"hash/fnv"
	"math"
	"strconv"
	"unicode/utf16"
)

// ScalarFunc derives the deterministic value in [0,1) used by sub-draw index
// of a request with the given seed.
type ScalarFunc func(seed string, index int) float64

// LegacyScalar hashes seed+index with the 31-multiplier string hash over
// UTF-16 code units, folded to int32, and divides |h| by MaxInt32. It keeps
// previously issued draws replayable bit for bit. The result reaches 1 when
// |h| is MaxInt32 or above; selection then lands on the last entry.
func LegacyScalar(seed string, index int) float64 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed + strconv.Itoa(index))) {
		h = h*31 + int32(c)
	}
	a := int64(h)
	if a < 0 {
		a = -a
	}
	return float64(a) / math.MaxInt32
}

const (
	splitMixGamma = 0x9E3779B97F4A7C15
	splitMixMul1  = 0xBF58476D1CE4E5B9
	splitMixMul2  = 0x94D049BB133111EB
)

// SplitMixScalar keys a SplitMix64 stream with the FNV-1a hash of seed and
// returns the index-th output as a 53-bit fraction.
func SplitMixScalar(seed string, index int) float64 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(seed))
	z := f.Sum64() + uint64(index+1)*splitMixGamma
	z = (z ^ (z >> 30)) * splitMixMul1
	z = (z ^ (z >> 27)) * splitMixMul2
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

// ScalarByName resolves a configured scalar name. ok is false for unknown names.
func ScalarByName(name string) (ScalarFunc, bool) {
	switch name {
	case "", "legacy":
		return LegacyScalar, true
	case "splitmix":
		return SplitMixScalar, true
	}
	return nil, false
}
