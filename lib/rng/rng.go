/*package rng supplies the uniform random numbers used by the superlevel
sampler. The generator is injected through the UniformSource interface so
tests can drive the sampler with deterministic sequences.*/
package rng

import (
	"math"
)

var (
	xorshiftMaxUint = float64(math.MaxUint32)
)

// UniformSource is anything that can produce independent uniform draws in
// the open interval (0, 1).
type UniformSource interface {
	Uniform() float64
}

// RNG is an xorshift random number generator. It is the same as gotetra's
// xorshiftGenerator. It is not thread safe: transport threads each carry
// their own.
type RNG struct {
	w, x, y, z uint32
}

// NewRNG initializes an RNG with a given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{ uint32(seed), 123456789, 362436069, 521288629 }
}

// Uniform generates a single random number in the open range (0, 1). The
// endpoints are excluded so that a draw can always be scaled onto a
// cumulative-weight ladder without hitting either degenerate edge.
func (gen *RNG) Uniform() float64 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	res := float64(math.MaxUint32 - gen.w) / xorshiftMaxUint
	if res == 0.0 || res == 1.0 { return gen.Uniform() }
	return res
}

// UniformSequence generates one random number in the range (0, 1) for each
// element of the array target and writes them to that array.
func (gen *RNG) UniformSequence(target []float64) {
	for i := 0; i < len(target); i++ {
		target[i] = gen.Uniform()
	}
}

// Sequence is a canned UniformSource that replays a fixed set of draws. It
// exists for tests which need to know exactly where on the ladder each call
// will land. Draws wrap around once exhausted.
type Sequence struct {
	draws []float64
	i int
}

// NewSequence creates a Sequence which replays draws in order.
func NewSequence(draws []float64) *Sequence {
	return &Sequence{ draws, 0 }
}

func (seq *Sequence) Uniform() float64 {
	x := seq.draws[seq.i % len(seq.draws)]
	seq.i++
	return x
}
