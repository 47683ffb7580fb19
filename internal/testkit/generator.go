package testkit

import (
	"context"

	"abstop/adapters/simulate"
	"abstop/domain/experiment"
)

// Stream names for the generator's two arms. Fixed so the same config
// always yields the same dataset.
const (
	controlStream   = "generator-control"
	treatmentStream = "generator-treatment"
)

// ExperimentConfig configures the synthetic experiment generator
type ExperimentConfig struct {
	ControlN        int     `json:"control_n"`
	TreatmentN      int     `json:"treatment_n"`
	HurdleProb      float64 `json:"hurdle_prob"`
	LogMean         float64 `json:"log_mean"`
	TreatmentOffset float64 `json:"treatment_offset"`
	LogSD           float64 `json:"log_sd"`
	Seed            int64   `json:"seed"`
}

// DefaultNullConfig returns an A/A scenario: both arms share the same
// revenue process, so no real effect exists to detect.
func DefaultNullConfig() ExperimentConfig {
	return ExperimentConfig{
		ControlN:        10000,
		TreatmentN:      10000,
		HurdleProb:      0.6,
		LogMean:         3.0,
		TreatmentOffset: 0,
		LogSD:           1.0,
		Seed:            42,
	}
}

// DefaultEffectConfig returns a scenario where the treatment genuinely
// depresses purchase amounts.
func DefaultEffectConfig() ExperimentConfig {
	cfg := DefaultNullConfig()
	cfg.TreatmentOffset = -0.2
	return cfg
}

// ExperimentGenerator produces synthetic per-customer revenue observations
// from a known hurdle log-normal process, for demos and fixtures. Values
// come from the hurdle simulator, so generated data and projected outcomes
// share a single sampling path.
type ExperimentGenerator struct {
	config ExperimentConfig
	sim    *simulate.HurdleSimulator
}

// NewExperimentGenerator creates a seeded generator
func NewExperimentGenerator(config ExperimentConfig) *ExperimentGenerator {
	return &ExperimentGenerator{
		config: config,
		sim:    simulate.NewHurdleSimulator(NewRNGAdapter()),
	}
}

// Generate builds a complete experiment dataset
func (g *ExperimentGenerator) Generate() (*experiment.Dataset, error) {
	ctx := context.Background()

	control, err := g.sim.Draw(ctx, controlStream, g.config.Seed, g.config.ControlN,
		g.config.HurdleProb, g.config.LogMean, g.config.LogSD)
	if err != nil {
		return nil, err
	}
	treatment, err := g.sim.Draw(ctx, treatmentStream, g.config.Seed, g.config.TreatmentN,
		g.config.HurdleProb, g.config.LogMean+g.config.TreatmentOffset, g.config.LogSD)
	if err != nil {
		return nil, err
	}

	obs := make([]experiment.Observation, 0, len(control)+len(treatment))
	for _, v := range control {
		obs = append(obs, experiment.Observation{Group: experiment.GroupControl, Revenue: v})
	}
	for _, v := range treatment {
		obs = append(obs, experiment.Observation{Group: experiment.GroupTreatment, Revenue: v})
	}
	return experiment.NewDataset(obs)
}
