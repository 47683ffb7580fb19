package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific analysis stage.
	// This ensures simulation and sampling stages produce identical results
	// for the same analysis run.
	Stream(ctx context.Context, analysisID, stageName string, baseSeed int64) (*rand.Rand, error)
}
