package ports

import (
	"context"

	"abstop/domain/experiment"
	"abstop/domain/posterior"
)

// FitOptions configures a posterior fit
type FitOptions struct {
	Draws  int   // total posterior draws to keep across all chains
	Chains int   // number of independent chains
	Warmup int   // per-chain iterations discarded before keeping draws
	Seed   int64 // base seed for deterministic sampling
}

// FitterPort is the Bayesian inference engine collaborator: it fits the
// hurdle log-normal regression with a group covariate and returns posterior
// parameter draws. Non-convergence surfaces as an error; callers do not
// retry.
type FitterPort interface {
	Fit(ctx context.Context, ds *experiment.Dataset, opts FitOptions) (*posterior.Posterior, error)
}
