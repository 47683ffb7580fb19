package report

import (
	"fmt"
	"math"
	"strings"
)

const (
	histogramBins  = 30
	histogramWidth = 50
)

// renderHistogram draws an ASCII histogram of the cost distribution with
// the stopping threshold marked on its own row.
func renderHistogram(costs []float64, threshold float64) string {
	if len(costs) == 0 {
		return "(no draws)\n"
	}

	lo, hi := costs[0], costs[0]
	for _, c := range costs {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	// Widen the range so the threshold is always visible on the axis.
	if threshold < lo {
		lo = threshold
	}
	if threshold > hi {
		hi = threshold
	}
	if hi == lo {
		hi = lo + 1
	}

	binWidth := (hi - lo) / histogramBins
	counts := make([]int, histogramBins)
	maxCount := 0
	for _, c := range costs {
		bin := int((c - lo) / binWidth)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
		if counts[bin] > maxCount {
			maxCount = counts[bin]
		}
	}

	thresholdBin := int((threshold - lo) / binWidth)
	if thresholdBin >= histogramBins {
		thresholdBin = histogramBins - 1
	}

	var b strings.Builder
	for i, count := range counts {
		bars := int(math.Round(float64(count) / float64(maxCount) * histogramWidth))
		marker := " "
		if i == thresholdBin {
			marker = "T"
		}
		fmt.Fprintf(&b, "%10.0f %s|%s\n", lo+float64(i)*binWidth, marker, strings.Repeat("#", bars))
	}
	fmt.Fprintf(&b, "%10s  T = loss threshold (%.0f)\n", "", threshold)
	return b.String()
}
