package simulate

import (
	"context"
	"fmt"

	"abstop/domain/core"
	"abstop/domain/decision"
	"abstop/domain/posterior"
	"abstop/ports"
)

var _ ports.OutcomeSimulatorPort = (*OutcomeSimulator)(nil)

// OutcomeSimulator projects each posterior draw forward: it simulates a
// hypothetical sample of customers per arm using that draw's parameters
// and records the total revenue of each arm.
type OutcomeSimulator struct {
	rngPort ports.RNGPort
}

// NewOutcomeSimulator creates an outcome simulator backed by a seeded RNG port
func NewOutcomeSimulator(rngPort ports.RNGPort) *OutcomeSimulator {
	return &OutcomeSimulator{rngPort: rngPort}
}

// SimulateTotals emits one (control total, treatment total) pair per
// posterior draw at the projected per-arm sample size. The control arm
// uses the draw's base parameters; the treatment arm shifts the log-mean
// by the draw's treatment offset.
func (s *OutcomeSimulator) SimulateTotals(ctx context.Context, analysisID string, post *posterior.Posterior, projectedN int) ([]decision.GroupTotals, error) {
	if projectedN <= 0 {
		return nil, fmt.Errorf("%w: projected n = %d", core.ErrInvalidSampleSize, projectedN)
	}
	if post == nil || post.Len() == 0 {
		return nil, core.ErrInsufficientDraws
	}

	rng, err := s.rngPort.Stream(ctx, analysisID, "outcome-sim", post.Seed)
	if err != nil {
		return nil, fmt.Errorf("outcome simulator: %w", err)
	}

	totals := make([]decision.GroupTotals, post.Len())
	for i, draw := range post.Draws {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		totals[i] = decision.GroupTotals{
			Control:   drawTotal(rng, projectedN, draw.HurdleProb, draw.LogMean, draw.LogSD),
			Treatment: drawTotal(rng, projectedN, draw.HurdleProb, draw.LogMean+draw.TreatmentOffset, draw.LogSD),
		}
	}
	return totals, nil
}
