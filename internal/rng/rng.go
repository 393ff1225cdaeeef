// Package rng provides the deterministic linear-congruential generator used
// by all world generation. Every room, grid, and object placement is derived
// from a story seed through this generator, so two sessions with the same
// seed produce identical worlds.
package rng

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Seeded is a small LCG with a fixed modulus. It is deliberately not
// math/rand: regenerating a cached room must reproduce the exact byte-level
// output of its first generation, so the recurrence is part of the contract.
type Seeded struct {
	state int64
}

// New creates a generator from an integer seed. Negative and oversized seeds
// are normalized into the modulus range so the recurrence stays well-defined.
func New(seed int64) *Seeded {
	state := seed % modulus
	if state < 0 {
		state += modulus
	}
	return &Seeded{state: state}
}

// Next returns the next float in [0, 1).
func (r *Seeded) Next() float64 {
	r.state = (r.state*multiplier + increment) % modulus
	return float64(r.state) / modulus
}

// NextInt returns an integer in [min, max] inclusive.
func (r *Seeded) NextInt(min, max int) int {
	return int(r.Next()*float64(max-min+1)) + min
}

// Chance returns true with probability p.
func (r *Seeded) Chance(p float64) bool {
	return r.Next() < p
}

// Shuffle returns a new slice with the elements permuted by Fisher-Yates.
// The input slice is not modified.
func Shuffle[T any](r *Seeded, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
