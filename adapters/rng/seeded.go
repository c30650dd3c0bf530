package rng

import (
	"context"
	"math/rand"
)

// SeededAdapter implements ports.RNGPort on top of math/rand sources.
// math/rand's seeded source is stable across platforms and Go releases,
// which is what keeps simulated samples reproducible.
type SeededAdapter struct{}

// NewSeededAdapter creates a new seeded RNG adapter
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator.
// The name only labels the stream; the sequence depends on seed alone.
func (r *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}
