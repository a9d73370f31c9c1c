package rain

// FastRand is a xorshift64 (13, 17, 5) generator
// Held by value in the widget, one per instance, never shared
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator, zero seed is remapped since xorshift sticks at 0
func NewFastRand(seed uint64) FastRand {
	if seed == 0 {
		seed = 1
	}
	return FastRand{state: seed}
}

// Uint64 advances the generator
func (r *FastRand) Uint64() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Uint32 returns the high 32 bits, the low bits of xorshift are weaker
func (r *FastRand) Uint32() uint32 {
	return uint32(r.Uint64() >> 32)
}

// IntN returns a value in [0, n), 0 for n <= 0
// Lemire multiply-shift on 32 bits, bias is negligible for screen-sized n
func (r *FastRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int((uint64(r.Uint32()) * uint64(n)) >> 32)
}

// IntRange returns a value in [lo, hi), lo when the range is empty
func (r *FastRand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo)
}

// Float64 returns a value in [0, 1) with 53 bits of precision
func (r *FastRand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Bernoulli returns true with probability p
func (r *FastRand) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Choose returns a uniformly picked element, panics on an empty slice
func Choose[T any](r *FastRand, s []T) T {
	if len(s) == 0 {
		panic("rain: Choose from empty slice")
	}
	return s[r.IntN(len(s))]
}
