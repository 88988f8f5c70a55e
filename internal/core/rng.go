package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// It satisfies the engine's tie-break and condensation randomness contract.
type RNG struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	pcg := rand.NewPCG(uint64(seed), 0)
	return &RNG{pcg: pcg, r: rand.New(pcg)}
}

// Seed rewinds the generator to the sequence produced by seed.
func (r *RNG) Seed(seed int64) {
	r.pcg.Seed(uint64(seed), 0)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Float32 returns a uniform value in [0, 1).
func (r *RNG) Float32() float32 {
	return r.r.Float32()
}

// IntN returns a uniform value in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}
