package ports

import (
	"context"

	"abstop/domain/decision"
	"abstop/domain/posterior"
)

// OutcomeSimulatorPort projects posterior draws forward to hypothetical
// per-arm revenue totals at a chosen sample size.
type OutcomeSimulatorPort interface {
	SimulateTotals(ctx context.Context, analysisID string, post *posterior.Posterior, projectedN int) ([]decision.GroupTotals, error)
}
