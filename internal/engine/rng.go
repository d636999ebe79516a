package engine

// RNG is a xorshift32 stream. Battles persist the seed and cursor so any turn
// can be replayed deterministically from the stored state.
type RNG struct {
	state  uint32
	cursor uint32
}

// NewRNG restores a stream at the given seed and cursor position.
func NewRNG(seed, cursor uint32) *RNG {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	r := &RNG{state: seed}
	for i := uint32(0); i < cursor; i++ {
		r.next()
	}
	r.cursor = cursor
	return r
}

// Cursor returns how many values have been drawn from the stream.
func (r *RNG) Cursor() uint32 { return r.cursor }

func (r *RNG) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 draws a value in [0, 1).
func (r *RNG) Float64() float64 {
	r.cursor++
	return float64(r.next()) / 4294967296.0
}

// Chance reports whether a roll lands under the given percentage.
func (r *RNG) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.Float64()*100 < float64(percent)
}
