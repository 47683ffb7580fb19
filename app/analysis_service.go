package app

import (
	"context"
	"time"

	"abstop/domain/core"
	"abstop/domain/decision"
	"abstop/domain/experiment"
	"abstop/domain/posterior"
	"abstop/internal"
	"abstop/internal/errors"
	"abstop/ports"
)

// AnalysisParams configures one early-stopping analysis
type AnalysisParams struct {
	ProjectedN int     // hypothetical per-arm sample size for cost projection
	Threshold  float64 // maximum acceptable revenue loss
	Mass       float64 // interval mass, 0 means decision.DefaultMass
	Fit        ports.FitOptions
}

// AnalysisResult is the immutable outcome of one analysis run
type AnalysisResult struct {
	ID        core.AnalysisID
	DatasetID core.DatasetID
	Control   experiment.GroupStats
	Treatment experiment.GroupStats
	Posterior *posterior.Posterior
	Summary   *posterior.Summary
	Costs     decision.CostDistribution
	Decision  *decision.Decision
	RuntimeMs int64
	CreatedAt core.Timestamp
}

// AnalysisService runs the full pipeline: fit the hurdle model, project
// the posterior forward, and apply the stopping rule. Each stage consumes
// the immutable output of the previous one; a failure anywhere aborts the
// run and surfaces to the caller.
type AnalysisService struct {
	fitter   ports.FitterPort
	outcomes ports.OutcomeSimulatorPort
	logger   *internal.Logger
}

// NewAnalysisService creates the analysis service
func NewAnalysisService(fitter ports.FitterPort, outcomes ports.OutcomeSimulatorPort, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{fitter: fitter, outcomes: outcomes, logger: logger}
}

// Run executes one analysis over the dataset
func (s *AnalysisService) Run(ctx context.Context, ds *experiment.Dataset, params AnalysisParams) (*AnalysisResult, error) {
	if ds == nil {
		return nil, errors.InvalidInput("dataset is required")
	}
	if params.ProjectedN <= 0 {
		return nil, errors.InvalidInput("projected sample size must be positive")
	}

	start := time.Now()
	id := core.AnalysisID(core.NewID())
	s.logger.Info("analysis %s: fitting hurdle model on %d observations", id, ds.Size())

	post, err := s.fitter.Fit(ctx, ds, params.Fit)
	if err != nil {
		return nil, errors.AnalysisFailed("model fit failed", err)
	}
	s.logger.Debug("analysis %s: %d posterior draws", id, post.Len())

	summary, err := post.Summarize()
	if err != nil {
		return nil, errors.AnalysisFailed("posterior summary failed", err)
	}

	totals, err := s.outcomes.SimulateTotals(ctx, id.String(), post, params.ProjectedN)
	if err != nil {
		return nil, errors.AnalysisFailed("outcome simulation failed", err)
	}

	costs := decision.NewCostDistribution(totals)
	dec, err := decision.Decide(costs, params.Threshold, params.Mass)
	if err != nil {
		return nil, errors.AnalysisFailed("stopping rule failed", err)
	}

	runtime := time.Since(start).Milliseconds()
	s.logger.Info("analysis %s: verdict=%s hdi=[%.1f, %.1f] threshold=%.1f (%dms)",
		id, dec.Verdict, dec.Interval.Low, dec.Interval.High, dec.Threshold, runtime)

	return &AnalysisResult{
		ID:        id,
		DatasetID: ds.ID,
		Control:   ds.Stats(experiment.GroupControl),
		Treatment: ds.Stats(experiment.GroupTreatment),
		Posterior: post,
		Summary:   summary,
		Costs:     costs,
		Decision:  dec,
		RuntimeMs: runtime,
		CreatedAt: core.Now(),
	}, nil
}
