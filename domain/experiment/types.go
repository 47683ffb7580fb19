package experiment

import (
	"fmt"

	"abstop/domain/core"
)

// Group identifies which arm of the experiment an observation belongs to
type Group string

const (
	GroupControl   Group = "control"
	GroupTreatment Group = "treatment"
)

// ParseGroup maps common arm labels onto the two canonical groups
func ParseGroup(s string) (Group, error) {
	switch s {
	case "control", "a", "A", "0":
		return GroupControl, nil
	case "treatment", "variant", "b", "B", "1":
		return GroupTreatment, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownGroup, s)
}

// Observation is a single per-customer revenue record.
// Revenue is zero when the customer did not purchase.
type Observation struct {
	Group   Group   `json:"group"`
	Revenue float64 `json:"revenue"`
}

// GroupStats summarizes one arm of the dataset
type GroupStats struct {
	Count        int     `json:"count"`
	Purchases    int     `json:"purchases"`
	TotalRevenue float64 `json:"total_revenue"`
	PurchaseRate float64 `json:"purchase_rate"`
	MeanRevenue  float64 `json:"mean_revenue"`
}

// Dataset is an immutable collection of observations for both arms.
// Construct with NewDataset; the stored slice is never mutated afterwards.
type Dataset struct {
	ID           core.DatasetID
	observations []Observation
	control      GroupStats
	treatment    GroupStats
	CollectedAt  core.Timestamp
}

// MinPurchasesPerGroup is the smallest number of purchasers per arm for
// which the log-normal part of the hurdle model is identifiable.
const MinPurchasesPerGroup = 2

// NewDataset validates and wraps a set of observations.
// Rejects empty or degenerate inputs: each group needs at least one
// observation and at least MinPurchasesPerGroup purchasers, since the
// downstream statistics are meaningless otherwise.
func NewDataset(obs []Observation) (*Dataset, error) {
	if len(obs) == 0 {
		return nil, core.ErrEmptyDataset
	}

	var control, treatment GroupStats
	for i, o := range obs {
		if o.Revenue < 0 {
			return nil, fmt.Errorf("%w: observation %d has revenue %g", core.ErrNegativeRevenue, i, o.Revenue)
		}
		switch o.Group {
		case GroupControl:
			accumulate(&control, o.Revenue)
		case GroupTreatment:
			accumulate(&treatment, o.Revenue)
		default:
			return nil, fmt.Errorf("%w: %q at observation %d", core.ErrUnknownGroup, o.Group, i)
		}
	}

	if control.Count == 0 {
		return nil, core.NewDegenerateDatasetError("no control observations")
	}
	if treatment.Count == 0 {
		return nil, core.NewDegenerateDatasetError("no treatment observations")
	}
	if control.Purchases < MinPurchasesPerGroup {
		return nil, core.NewDegenerateDatasetError(
			fmt.Sprintf("control arm has %d purchases, need at least %d", control.Purchases, MinPurchasesPerGroup))
	}
	if treatment.Purchases < MinPurchasesPerGroup {
		return nil, core.NewDegenerateDatasetError(
			fmt.Sprintf("treatment arm has %d purchases, need at least %d", treatment.Purchases, MinPurchasesPerGroup))
	}

	finalize(&control)
	finalize(&treatment)

	stored := make([]Observation, len(obs))
	copy(stored, obs)

	return &Dataset{
		ID:           core.DatasetID(core.NewID()),
		observations: stored,
		control:      control,
		treatment:    treatment,
		CollectedAt:  core.Now(),
	}, nil
}

func accumulate(s *GroupStats, revenue float64) {
	s.Count++
	s.TotalRevenue += revenue
	if revenue > 0 {
		s.Purchases++
	}
}

func finalize(s *GroupStats) {
	s.PurchaseRate = float64(s.Purchases) / float64(s.Count)
	s.MeanRevenue = s.TotalRevenue / float64(s.Count)
}

// Size returns the total number of observations
func (d *Dataset) Size() int {
	return len(d.observations)
}

// Stats returns the summary for one arm
func (d *Dataset) Stats(g Group) GroupStats {
	if g == GroupTreatment {
		return d.treatment
	}
	return d.control
}

// Revenues returns a copy of the revenue values for one arm.
// onlyPurchases restricts the result to strictly positive values.
func (d *Dataset) Revenues(g Group, onlyPurchases bool) []float64 {
	out := make([]float64, 0, d.Stats(g).Count)
	for _, o := range d.observations {
		if o.Group != g {
			continue
		}
		if onlyPurchases && o.Revenue <= 0 {
			continue
		}
		out = append(out, o.Revenue)
	}
	return out
}

// Observations returns a copy of all observations
func (d *Dataset) Observations() []Observation {
	out := make([]Observation, len(d.observations))
	copy(out, d.observations)
	return out
}
