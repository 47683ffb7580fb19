package app

import (
	"context"
	"testing"

	"abstop/adapters/gibbs"
	"abstop/adapters/simulate"
	"abstop/domain/decision"
	"abstop/domain/experiment"
	"abstop/internal"
	"abstop/internal/testkit"
)

func newService() *AnalysisService {
	rng := testkit.NewRNGAdapter()
	return NewAnalysisService(
		gibbs.NewSampler(rng),
		simulate.NewOutcomeSimulator(rng),
		internal.NewLogger(internal.LogLevelError),
	)
}

func defaultParams() AnalysisParams {
	return AnalysisParams{
		ProjectedN: 1000,
		Threshold:  5000,
		Mass:       0.95,
		Fit:        gibbs.DefaultOptions(42),
	}
}

func generate(t *testing.T, cfg testkit.ExperimentConfig) *experiment.Dataset {
	t.Helper()
	ds, err := testkit.NewExperimentGenerator(cfg).Generate()
	if err != nil {
		t.Fatalf("generating dataset: %v", err)
	}
	return ds
}

func TestRun_NullExperimentContinues(t *testing.T) {
	// A/A data: the plausible cost of continuing is centered on zero and
	// its 95% interval stays far below a 5000 threshold.
	ds := generate(t, testkit.DefaultNullConfig())

	result, err := newService().Run(context.Background(), ds, defaultParams())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Decision.Verdict != decision.VerdictContinue {
		t.Errorf("verdict = %s, want continue (interval [%.0f, %.0f])",
			result.Decision.Verdict, result.Decision.Interval.Low, result.Decision.Interval.High)
	}
	if result.Decision.Reason != decision.ReasonIntervalBelowThreshold {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, decision.ReasonIntervalBelowThreshold)
	}
}

func TestRun_HarmfulTreatmentStops(t *testing.T) {
	// A -0.2 log-mean effect costs roughly 3600 per 1000 customers, so
	// the 95% interval reaches past a 5000 threshold.
	ds := generate(t, testkit.DefaultEffectConfig())

	result, err := newService().Run(context.Background(), ds, defaultParams())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Decision.Verdict != decision.VerdictStop {
		t.Errorf("verdict = %s, want stop (interval [%.0f, %.0f])",
			result.Decision.Verdict, result.Decision.Interval.Low, result.Decision.Interval.High)
	}
	if result.Decision.MeanCost < 2000 {
		t.Errorf("mean cost = %.0f, want clearly positive for a harmful treatment", result.Decision.MeanCost)
	}
}

func TestRun_PopulatesResult(t *testing.T) {
	ds := generate(t, testkit.DefaultNullConfig())
	params := defaultParams()

	result, err := newService().Run(context.Background(), ds, params)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ID == "" {
		t.Error("analysis ID not assigned")
	}
	if result.DatasetID != ds.ID {
		t.Error("dataset ID not carried through")
	}
	if result.Posterior.Len() != params.Fit.Draws {
		t.Errorf("posterior draws = %d, want %d", result.Posterior.Len(), params.Fit.Draws)
	}
	if len(result.Costs) != result.Posterior.Len() {
		t.Errorf("costs = %d, want one per draw", len(result.Costs))
	}
	if result.Summary == nil {
		t.Error("posterior summary not computed")
	}
	if result.Control.Count != 10000 || result.Treatment.Count != 10000 {
		t.Errorf("group stats = %d/%d, want 10000 each", result.Control.Count, result.Treatment.Count)
	}
	if result.CreatedAt.IsZero() {
		t.Error("creation timestamp not set")
	}
}

func TestRun_InputValidation(t *testing.T) {
	svc := newService()
	ds := generate(t, testkit.DefaultNullConfig())

	if _, err := svc.Run(context.Background(), nil, defaultParams()); err == nil {
		t.Error("expected error for nil dataset")
	}

	params := defaultParams()
	params.ProjectedN = 0
	if _, err := svc.Run(context.Background(), ds, params); err == nil {
		t.Error("expected error for non-positive projected n")
	}
}
