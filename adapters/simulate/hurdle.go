package simulate

import (
	"context"
	"fmt"
	"math/rand"

	"abstop/domain/core"
	"abstop/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// HurdleSimulator generates synthetic per-customer revenue values from a
// two-part Bernoulli x log-normal hurdle distribution.
type HurdleSimulator struct {
	rngPort ports.RNGPort
}

// NewHurdleSimulator creates a hurdle simulator backed by a seeded RNG port
func NewHurdleSimulator(rngPort ports.RNGPort) *HurdleSimulator {
	return &HurdleSimulator{rngPort: rngPort}
}

// Draw produces n revenue values. Each value is zero with probability
// 1-hurdleProb and otherwise drawn from LogNormal(logMean, logSD).
func (s *HurdleSimulator) Draw(ctx context.Context, name string, seed int64, n int, hurdleProb, logMean, logSD float64) ([]float64, error) {
	if err := validateParams(n, hurdleProb, logSD); err != nil {
		return nil, err
	}
	rng, err := s.rngPort.SeededStream(ctx, name, seed)
	if err != nil {
		return nil, fmt.Errorf("hurdle simulator: %w", err)
	}

	out := make([]float64, n)
	amount := distuv.LogNormal{Mu: logMean, Sigma: logSD, Src: rng}
	for i := range out {
		if rng.Float64() < hurdleProb {
			out[i] = amount.Rand()
		}
	}
	return out, nil
}

// drawTotal simulates n hurdle draws and returns only their sum.
// Shared with the outcome simulator, which never needs the raw values.
func drawTotal(rng *rand.Rand, n int, hurdleProb, logMean, logSD float64) float64 {
	amount := distuv.LogNormal{Mu: logMean, Sigma: logSD, Src: rng}
	total := 0.0
	for i := 0; i < n; i++ {
		if rng.Float64() < hurdleProb {
			total += amount.Rand()
		}
	}
	return total
}

func validateParams(n int, hurdleProb, logSD float64) error {
	if n < 0 {
		return fmt.Errorf("%w: n = %d", core.ErrInvalidSampleSize, n)
	}
	if hurdleProb < 0 || hurdleProb > 1 {
		return core.NewProbabilityError("hurdle_prob", hurdleProb)
	}
	if logSD <= 0 {
		return core.NewScaleError("log_sd", logSD)
	}
	return nil
}
