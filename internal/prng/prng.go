// internal/prng/prng.go
//
// Deterministic pseudo-random streams for daily-mode reproducibility.
//
// Every player on the same UTC day must see the same puzzle and the same
// powerup offers, so anything "random" in daily mode is drawn from an LCG
// seeded by a string key (e.g. "2024-06-01-powerups-first").
//
// The recurrence and hash are bit-compatible with the browser client:
//   state = (1664525*state + 1013904223) mod 2^32
//   out   = state / (2^32 - 1)
package prng

import (
	"math"
	"math/rand"
	"unicode/utf16"
)

const (
	lcgA = 1664525
	lcgC = 1013904223
)

// Source yields floats in [0, 1]. Both the seeded LCG and the unseeded
// runtime generator are exposed through this shape.
type Source func() float64

// LCG is a linear congruential generator over uint32 state.
type LCG struct {
	state uint32
}

// New returns a generator positioned at seed.
func New(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Float64 advances the state and returns the next value.
func (g *LCG) Float64() float64 {
	g.state = lcgA*g.state + lcgC
	return float64(g.state) / math.MaxUint32
}

// Source adapts the generator to a Source.
func (g *LCG) Source() Source { return g.Float64 }

// Seeded is shorthand for New(HashToSeed(key)).Source().
func Seeded(key string) Source {
	return New(HashToSeed(key)).Source()
}

// Unseeded returns a non-reproducible source for casual and hardcore games.
func Unseeded() Source { return rand.Float64 }

// HashToSeed maps text to a seed with a DJB2-style multiplicative hash
// (base 33, xor). Arithmetic wraps at 32 bits and runs over UTF-16 code
// units so seeds agree with the JS client for any input.
func HashToSeed(text string) uint32 {
	h := int32(5381)
	for _, c := range utf16.Encode([]rune(text)) {
		h = int32(uint32(h)*33) ^ int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}
