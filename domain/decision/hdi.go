package decision

import (
	"math"
	"sort"

	"abstop/domain/core"
)

// Interval is a closed interval on the cost axis
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low
func (i Interval) Width() float64 { return i.High - i.Low }

// Contains reports whether x lies inside the interval
func (i Interval) Contains(x float64) bool { return x >= i.Low && x <= i.High }

// HDI computes the highest density interval of a sample: the narrowest
// interval containing at least the given probability mass. Unlike an
// equal-tailed interval it is not necessarily symmetric, which matters
// for skewed cost distributions.
func HDI(samples []float64, mass float64) (Interval, error) {
	if len(samples) == 0 {
		return Interval{}, core.ErrEmptyDistribution
	}
	if mass <= 0 || mass >= 1 {
		return Interval{}, core.ErrInvalidMass
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := len(sorted)
	// Number of samples the interval must cover, rounded up so the
	// realized mass is never below the requested mass.
	window := int(math.Ceil(mass * float64(n)))
	if window >= n {
		return Interval{Low: sorted[0], High: sorted[n-1]}, nil
	}

	best := Interval{Low: sorted[0], High: sorted[window-1]}
	bestWidth := best.Width()
	for i := 1; i+window-1 < n; i++ {
		width := sorted[i+window-1] - sorted[i]
		if width < bestWidth {
			bestWidth = width
			best = Interval{Low: sorted[i], High: sorted[i+window-1]}
		}
	}
	return best, nil
}
