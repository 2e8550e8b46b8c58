// Package prng implements the deterministic pseudorandom source shared by
// every automaton in a Tsetlin machine. It is a single permuted congruential
// generator (PCG); every other primitive in this package -- uniform floats,
// biased ranges, the normal approximation used for mask flip counts, and
// Fisher-Yates shuffling -- is derived from it.
//
// The state is a single uint64. It is cheap enough to snapshot that it is
// treated as part of a model's serialized state (see the checkpoint
// package): replaying a saved state reproduces the exact same stream of
// draws, which is what makes a resumed training run bit-identical to an
// uninterrupted one.
package prng

import "math"

// State is a PCG stream. The zero value is not valid; use New or FromRaw.
type State struct {
	mcg uint64
}

// New seeds a fresh stream. Mirrors the reference generator's seeding rule:
// the internal state is set to 2*seed+1 and one value is drawn and
// discarded before any caller-visible output.
func New(seed uint64) *State {
	s := &State{mcg: 2*seed + 1}
	s.Fastrand()
	return s
}

// FromRaw restores a stream from a previously saved internal state, as
// opposed to a seed. Used when deserializing a checkpoint, where the exact
// mcg value (not the original seed) was persisted.
func FromRaw(raw uint64) *State {
	return &State{mcg: raw}
}

// Raw returns the current internal state, suitable for persisting and later
// restoring via FromRaw.
func (s *State) Raw() uint64 {
	return s.mcg
}

// Clone returns an independent copy of s, advancing independently of the
// original from this point on.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// Fastrand draws the next pseudorandom uint32 from the stream.
func (s *State) Fastrand() uint32 {
	x := s.mcg
	s.mcg *= 6364136223846793005
	return uint32((x ^ (x >> 22)) >> (22 + (x >> 61)))
}

// Uniform draws a float64 in [0, 1).
func (s *State) Uniform() float64 {
	return float64(s.Fastrand()) / 4294967296.0 // 2^32
}

// UniformBelow draws a uint32 in [0, n), biased for small n but cheap:
// (n * Fastrand()) >> 32.
func (s *State) UniformBelow(n uint32) uint32 {
	return uint32((uint64(n) * uint64(s.Fastrand())) >> 32)
}

// Normal draws from a normal distribution via Box-Muller, using two Uniform
// samples.
func (s *State) Normal(mean, variance float64) float64 {
	u1 := s.Uniform()
	u2 := s.Uniform()
	return mean + math.Sqrt(-2*math.Log(u1)*variance)*math.Sin(2*math.Pi*u2)
}

// Binomial approximates a draw from Binomial(n, p) by rounding a Normal
// sample to the nearest integer and clamping to [0, n]. This is a coarse
// approximation -- for small n*p it underestimates variance and returns
// zero more often than an exact binomial would -- but it is what the
// reference design specifies and callers (feedback mask construction) are
// only as sensitive to it as the rejection loop built on top.
func (s *State) Binomial(p float64, n int) int {
	b := s.Normal(float64(n)*p, float64(n)*p*(1-p)) + 0.5
	switch {
	case b <= 0:
		return 0
	case b >= float64(n):
		return n
	default:
		return int(b)
	}
}

// Shuffle permutes a in place via Fisher-Yates, using UniformBelow.
func (s *State) Shuffle(a []int) {
	for i := len(a); i > 1; i-- {
		j := s.UniformBelow(uint32(i))
		a[i-1], a[j] = a[j], a[i-1]
	}
}
