package decision

import (
	"fmt"

	"abstop/domain/core"

	"github.com/montanaflynn/stats"
)

// DefaultMass is the probability mass the decision interval covers
const DefaultMass = 0.95

// GroupTotals is the simulated total revenue for both arms under one
// posterior draw at the projected sample size.
type GroupTotals struct {
	Control   float64 `json:"control"`
	Treatment float64 `json:"treatment"`
}

// Cost is the revenue lost to the treatment under this draw; positive
// means the treatment is losing money.
func (t GroupTotals) Cost() float64 { return t.Control - t.Treatment }

// CostDistribution is the per-draw simulated cost of continuing the
// experiment, in revenue units.
type CostDistribution []float64

// NewCostDistribution derives per-draw costs from simulated group totals
func NewCostDistribution(totals []GroupTotals) CostDistribution {
	costs := make(CostDistribution, len(totals))
	for i, t := range totals {
		costs[i] = t.Cost()
	}
	return costs
}

// Verdict is the qualitative outcome of the stopping rule
type Verdict string

const (
	VerdictStop     Verdict = "stop"
	VerdictContinue Verdict = "continue"
)

// Reason explains the verdict
type Reason string

const (
	// ReasonIntervalBeyondThreshold: the whole interval lies past the
	// unacceptable-loss boundary.
	ReasonIntervalBeyondThreshold Reason = "interval_beyond_threshold"
	// ReasonIntervalOverlapsThreshold: the interval straddles the boundary.
	ReasonIntervalOverlapsThreshold Reason = "interval_overlaps_threshold"
	// ReasonIntervalBelowThreshold: plausible losses stay under the boundary.
	ReasonIntervalBelowThreshold Reason = "interval_below_threshold"
)

// Decision is the immutable outcome of applying the stopping rule
type Decision struct {
	Verdict    Verdict        `json:"verdict"`
	Reason     Reason         `json:"reason"`
	Interval   Interval       `json:"interval"`
	Mass       float64        `json:"mass"`
	Threshold  float64        `json:"threshold"`
	MeanCost   float64        `json:"mean_cost"`
	MedianCost float64        `json:"median_cost"`
	Draws      int            `json:"draws"`
	DecidedAt  core.Timestamp `json:"decided_at"`
}

// Decide applies the stopping rule: compute the HDI of the cost
// distribution and compare it to the unacceptable-loss threshold.
//
// The stopping predicate is: stop when the interval's upper bound reaches
// the threshold, i.e. when the interval overlaps the boundary or lies
// entirely beyond it in the loss direction. Continue only when the whole
// interval sits below the threshold.
func Decide(costs CostDistribution, threshold, mass float64) (*Decision, error) {
	if mass == 0 {
		mass = DefaultMass
	}
	interval, err := HDI(costs, mass)
	if err != nil {
		return nil, fmt.Errorf("stopping rule: %w", err)
	}

	mean, err := stats.Mean([]float64(costs))
	if err != nil {
		return nil, fmt.Errorf("stopping rule: %w", err)
	}
	median, err := stats.Median([]float64(costs))
	if err != nil {
		return nil, fmt.Errorf("stopping rule: %w", err)
	}

	verdict := VerdictContinue
	reason := ReasonIntervalBelowThreshold
	switch {
	case interval.Low > threshold:
		verdict = VerdictStop
		reason = ReasonIntervalBeyondThreshold
	case interval.High >= threshold:
		verdict = VerdictStop
		reason = ReasonIntervalOverlapsThreshold
	}

	return &Decision{
		Verdict:    verdict,
		Reason:     reason,
		Interval:   interval,
		Mass:       mass,
		Threshold:  threshold,
		MeanCost:   mean,
		MedianCost: median,
		Draws:      len(costs),
		DecidedAt:  core.Now(),
	}, nil
}
