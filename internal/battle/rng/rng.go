// Package rng provides the deterministic random source shared by a battle.
//
// Every consumer inside a battle (deck shuffles, enemy AI rolls, forced
// discards) draws from the same SeededRNG instance, so identical seeds and
// identical call sequences produce identical results on every platform.
package rng

const (
	multiplier uint64 = 0x5DEECE66D
	addend     uint64 = 0xB
	mask       uint64 = (1 << 48) - 1
)

// SeededRNG is a 48-bit linear congruential generator.
// It is not safe for concurrent use; a battle owns exactly one.
type SeededRNG struct {
	state uint64
}

// New creates a generator seeded with the given value.
func New(seed uint64) *SeededRNG {
	return &SeededRNG{state: (seed ^ multiplier) & mask}
}

// NextBits advances the generator and returns the top `bits` bits of the new state.
func (r *SeededRNG) NextBits(bits uint) uint64 {
	r.state = (r.state*multiplier + addend) & mask
	return r.state >> (48 - bits)
}

// NextInt returns a value in [0, upper). Non-positive bounds return 0
// without advancing the generator.
func (r *SeededRNG) NextInt(upper int) int {
	if upper <= 0 {
		return 0
	}
	return int(r.NextBits(31) % uint64(upper))
}

// Shuffle returns a shuffled copy of items using Fisher-Yates from the end of
// the slice towards the front. The input slice is left untouched.
func Shuffle[T any](r *SeededRNG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.NextInt(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
