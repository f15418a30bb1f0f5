package review

import "math/rand"

// Shuffle returns the items in a fresh random presentation order. The input
// slice is left untouched: the canonical session order is persisted and must
// stay stable for progress bookkeeping.
func Shuffle[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
