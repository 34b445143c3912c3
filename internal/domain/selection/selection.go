// Package selection draws random subsets and permutations of candidate
// items for batch processing.
package selection

import "math/rand/v2"

// Pick returns a uniform random subset of n items drawn without
// replacement. When n exceeds the number of items the request is
// clamped and the second return value is true; the caller decides how
// loudly to warn. Subset order is unspecified.
func Pick[T any](items []T, n int, rng *rand.Rand) ([]T, bool) {
	clamped := false
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
		clamped = true
	}
	subset := make([]T, 0, n)
	for _, idx := range rng.Perm(len(items))[:n] {
		subset = append(subset, items[idx])
	}
	return subset, clamped
}

// Shuffle returns a uniformly permuted copy of items; the input is not
// modified.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
