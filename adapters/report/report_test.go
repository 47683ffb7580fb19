package report

import (
	"strings"
	"testing"

	"abstop/domain/core"
	"abstop/domain/decision"
	"abstop/domain/experiment"
	"abstop/domain/posterior"
)

func sampleInput() Input {
	return Input{
		AnalysisID: "an-123",
		CreatedAt:  core.Now(),
		Control:    experiment.GroupStats{Count: 1000, Purchases: 600, PurchaseRate: 0.6, MeanRevenue: 19.9, TotalRevenue: 19900},
		Treatment:  experiment.GroupStats{Count: 1000, Purchases: 590, PurchaseRate: 0.59, MeanRevenue: 16.3, TotalRevenue: 16300},
		Posterior: &posterior.Summary{
			HurdleProb:      posterior.ParamSummary{Mean: 0.595, StdDev: 0.01, Q05: 0.58, Median: 0.595, Q95: 0.61},
			LogMean:         posterior.ParamSummary{Mean: 3.0, StdDev: 0.02, Q05: 2.97, Median: 3.0, Q95: 3.03},
			TreatmentOffset: posterior.ParamSummary{Mean: -0.2, StdDev: 0.03, Q05: -0.25, Median: -0.2, Q95: -0.15},
			LogSD:           posterior.ParamSummary{Mean: 1.0, StdDev: 0.01, Q05: 0.98, Median: 1.0, Q95: 1.02},
		},
		Costs: decision.CostDistribution{3000, 3500, 3600, 3700, 4200},
		Decision: &decision.Decision{
			Verdict:    decision.VerdictStop,
			Reason:     decision.ReasonIntervalOverlapsThreshold,
			Interval:   decision.Interval{Low: 600, High: 6600},
			Mass:       0.95,
			Threshold:  5000,
			MeanCost:   3600,
			MedianCost: 3600,
			Draws:      5,
			DecidedAt:  core.Now(),
		},
		ProjectedN: 1000,
		Seed:       42,
		RuntimeMs:  120,
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := NewBuilder().BuildMarkdown(sampleInput())

	for _, want := range []string{
		"# Early-stopping analysis an-123",
		"## Observed data",
		"| control | 1000 | 600 |",
		"## Posterior parameters",
		"treatment offset",
		"## Projected cost of continuing (n = 1000 per arm)",
		"95% HDI: [600.0, 6600.0]",
		"loss threshold: 5000.0",
		"T = loss threshold",
		"## Verdict",
		"**STOP**",
		string(decision.ReasonIntervalOverlapsThreshold),
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestBuildHTML(t *testing.T) {
	html := string(NewBuilder().BuildHTML(sampleInput()))

	if !strings.Contains(html, "<html>") {
		t.Error("HTML output is not a complete page")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("HTML output did not render the markdown tables")
	}
	if !strings.Contains(html, "STOP") {
		t.Error("HTML output missing the verdict")
	}
}

func TestRenderHistogram(t *testing.T) {
	out := renderHistogram([]float64{0, 1, 2, 3, 4, 5, 100}, 50)

	if !strings.Contains(out, "#") {
		t.Error("histogram has no bars")
	}
	if !strings.Contains(out, "T") {
		t.Error("histogram missing threshold marker")
	}

	// Threshold outside the sample range still lands on the axis.
	out = renderHistogram([]float64{1, 2, 3}, 1000)
	if !strings.Contains(out, "T") {
		t.Error("out-of-range threshold not marked")
	}

	if got := renderHistogram(nil, 0); !strings.Contains(got, "no draws") {
		t.Errorf("empty input: got %q", got)
	}
}
