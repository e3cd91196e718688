// Package queue builds the bounded, ordered batches of cards that make up a
// study session.
//
// Both builders are pure: the pool, the clock reading and the random source
// are all supplied by the caller, so a session can be reproduced exactly by
// replaying the same inputs.
package queue

import (
	"math/rand"
)

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

var _ RandomSource = (*rand.Rand)(nil)

// NewSeededSource returns a deterministic RandomSource for the given seed.
func NewSeededSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// Shuffle permutes items in place with a Fisher-Yates pass driven by rng.
func Shuffle[T any](items []T, rng RandomSource) {
	for i := len(items) - 1; i > 0; i-- {
		j := min(int(rng.Float64()*float64(i+1)), i)
		items[i], items[j] = items[j], items[i]
	}
}
