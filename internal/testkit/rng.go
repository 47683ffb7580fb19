package testkit

import (
	"context"
	"math/rand"

	"abstop/ports"
)

// RNGAdapter implements the RNGPort interface with deterministic seeding
type RNGAdapter struct{}

var _ ports.RNGPort = (*RNGAdapter)(nil)

// NewRNGAdapter creates a deterministic RNG adapter
func NewRNGAdapter() *RNGAdapter {
	return &RNGAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (r *RNGAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// Stream creates a deterministic RNG stream for a specific analysis stage.
// Identical analysis/stage/seed combinations always produce identical
// streams, which keeps reruns reproducible.
func (r *RNGAdapter) Stream(ctx context.Context, analysisID, stageName string, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if analysisID != "" {
		seed += int64(hashString(analysisID))
	}
	if stageName != "" {
		seed += int64(hashString(stageName))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
