package posterior

import (
	"fmt"

	"abstop/domain/core"

	"github.com/montanaflynn/stats"
)

// Sample is one draw of the hurdle log-normal parameter vector.
// HurdleProb is the probability a customer purchases at all; LogMean and
// LogSD parameterize the log-normal purchase amount for the control arm;
// TreatmentOffset shifts LogMean for the treatment arm.
type Sample struct {
	HurdleProb      float64 `json:"hurdle_prob"`
	LogMean         float64 `json:"log_mean"`
	TreatmentOffset float64 `json:"treatment_offset"`
	LogSD           float64 `json:"log_sd"`
}

// Validate checks the draw lies in the parameter space
func (s Sample) Validate() error {
	if s.HurdleProb < 0 || s.HurdleProb > 1 {
		return core.NewProbabilityError("hurdle_prob", s.HurdleProb)
	}
	if s.LogSD <= 0 {
		return core.NewScaleError("log_sd", s.LogSD)
	}
	return nil
}

// Posterior is a finite collection of draws approximating the joint
// posterior distribution of the model parameters.
type Posterior struct {
	Draws []Sample `json:"draws"`
	Seed  int64    `json:"seed"`
}

// MinDraws is the smallest posterior size the decision rule accepts.
// Below this the tail of the cost distribution is too ragged for a
// meaningful 95% interval.
const MinDraws = 100

// New validates and wraps a set of posterior draws
func New(draws []Sample, seed int64) (*Posterior, error) {
	if len(draws) < MinDraws {
		return nil, fmt.Errorf("%w: got %d, need %d", core.ErrInsufficientDraws, len(draws), MinDraws)
	}
	for i, d := range draws {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
	}
	return &Posterior{Draws: draws, Seed: seed}, nil
}

// Len returns the number of draws
func (p *Posterior) Len() int { return len(p.Draws) }

// ParamSummary describes the marginal posterior of one parameter
type ParamSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Q05    float64 `json:"q05"`
	Median float64 `json:"median"`
	Q95    float64 `json:"q95"`
}

// Summary contains per-parameter marginal summaries
type Summary struct {
	HurdleProb      ParamSummary `json:"hurdle_prob"`
	LogMean         ParamSummary `json:"log_mean"`
	TreatmentOffset ParamSummary `json:"treatment_offset"`
	LogSD           ParamSummary `json:"log_sd"`
}

// Summarize computes marginal summaries for every parameter
func (p *Posterior) Summarize() (*Summary, error) {
	hurdle := make([]float64, len(p.Draws))
	logMean := make([]float64, len(p.Draws))
	offset := make([]float64, len(p.Draws))
	logSD := make([]float64, len(p.Draws))
	for i, d := range p.Draws {
		hurdle[i] = d.HurdleProb
		logMean[i] = d.LogMean
		offset[i] = d.TreatmentOffset
		logSD[i] = d.LogSD
	}

	out := &Summary{}
	for _, item := range []struct {
		data []float64
		dst  *ParamSummary
	}{
		{hurdle, &out.HurdleProb},
		{logMean, &out.LogMean},
		{offset, &out.TreatmentOffset},
		{logSD, &out.LogSD},
	} {
		s, err := summarize(item.data)
		if err != nil {
			return nil, err
		}
		*item.dst = s
	}
	return out, nil
}

func summarize(data []float64) (ParamSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return ParamSummary{}, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return ParamSummary{}, err
	}
	q05, err := stats.Percentile(data, 5)
	if err != nil {
		return ParamSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return ParamSummary{}, err
	}
	q95, err := stats.Percentile(data, 95)
	if err != nil {
		return ParamSummary{}, err
	}
	return ParamSummary{Mean: mean, StdDev: sd, Q05: q05, Median: median, Q95: q95}, nil
}
