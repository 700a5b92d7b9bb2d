package identity

import (
	"math/rand/v2"
	"strings"
)

// newRand builds the single random stream behind one generator. A
// seeded stream replays byte-identically across runs; an unseeded one
// starts from the OS entropy pool.
func newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, 0))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// choice picks one element uniformly. ok is false on an empty pool.
func choice[T any](r *rand.Rand, pool []T) (v T, ok bool) {
	if len(pool) == 0 {
		return v, false
	}
	return pool[r.IntN(len(pool))], true
}

// randRange returns a uniform int in [lo, hi].
func randRange(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// randRange64 returns a uniform int64 in [lo, hi].
func randRange64(r *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Int64N(hi-lo+1)
}

// chance reports a Bernoulli draw with probability p.
func chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// weightedIndex performs one weighted draw: a uniform value in
// [0, total) scanned against the cumulative weight sum. Non-positive
// weights never win. Returns -1 when no weight is positive.
func weightedIndex(r *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	x := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		x -= w
		if x < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// randDigits returns n independent decimal digits.
func randDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + r.IntN(10)))
	}
	return b.String()
}

// randChars returns n independent draws from charset.
func randChars(r *rand.Rand, charset string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(charset[r.IntN(len(charset))])
	}
	return b.String()
}
