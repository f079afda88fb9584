package preset

import (
	"math/rand/v2"
)

// golden ratio increment, used to derive the second PCG stream word
const seedMix = 0x9E3779B97F4A7C15

// Source is a seeded pseudo-random stream. Every draw is derived from the
// raw 64-bit PCG output, so a seed reproduces the same values regardless of
// how the standard library samples its own distributions.
//
// A Source is not safe for concurrent use; each composition owns one.
type Source struct {
	pcg *rand.PCG
}

// NewSource returns a Source seeded with seed.
func NewSource(seed uint64) *Source {
	return &Source{pcg: rand.NewPCG(seed, seed^seedMix)}
}

// Uint64 returns the next raw value of the stream.
func (s *Source) Uint64() uint64 {
	return s.pcg.Uint64()
}

// Float returns a value in [0, 1) built from the top 53 bits of one draw.
func (s *Source) Float() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// Uniform returns a value in [low, high). It always consumes one draw and
// returns low when the range is empty.
func (s *Source) Uniform(low, high float64) float64 {
	f := s.Float()
	if !(high > low) {
		return low
	}
	// the conversion keeps the product rounded on its own; a fused
	// multiply-add would change results on arm64
	return low + float64((high-low)*f)
}

// BoundedInt returns an integer in [low, high). It always consumes one draw
// and returns low when the range is empty.
func (s *Source) BoundedInt(low, high int) int {
	u := s.Uint64()
	if high <= low {
		return low
	}
	return low + int(u%uint64(high-low))
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.Float() < p
}

// Pick returns an index in [0, n).
func (s *Source) Pick(n int) int {
	return s.BoundedInt(0, n)
}
