package gibbs

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"abstop/domain/core"
	"abstop/domain/experiment"
	"abstop/domain/posterior"
	"abstop/ports"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Priors for the hurdle log-normal regression. The Beta(1,1) hurdle prior
// is uniform; the location priors are wide on the log scale; the
// Inverse-Gamma(2, 1) variance prior keeps sigma away from zero without
// pulling it anywhere in particular.
const (
	hurdleAlpha0  = 1.0
	hurdleBeta0   = 1.0
	locationVar0  = 100.0
	varianceShape = 2.0
	varianceRate  = 1.0
)

// maxSplitRHat is the potential-scale-reduction bound above which the
// fit is reported as non-converged.
const maxSplitRHat = 1.2

var _ ports.FitterPort = (*Sampler)(nil)

// Sampler fits the two-part model by Gibbs sampling: the Bernoulli hurdle
// component has an exact Beta posterior, and the log-normal regression on
// purchase amounts has Normal/Inverse-Gamma full conditionals. Chains run
// independently and their kept draws are pooled.
type Sampler struct {
	rngPort ports.RNGPort
}

// NewSampler creates a Gibbs sampler backed by a seeded RNG port
func NewSampler(rngPort ports.RNGPort) *Sampler {
	return &Sampler{rngPort: rngPort}
}

// DefaultOptions matches the analysis defaults: 4 chains, 4000 pooled
// draws, 500 warmup iterations per chain.
func DefaultOptions(seed int64) ports.FitOptions {
	return ports.FitOptions{Draws: 4000, Chains: 4, Warmup: 500, Seed: seed}
}

// sufficientStats caches everything the full conditionals need
type sufficientStats struct {
	purchases    int     // purchasers across both arms
	nonPurchases int     // zero-revenue observations
	nC, nT       int     // purchasers per arm
	sumC, sumT   float64 // sums of log revenue per arm
	sumSqC       float64
	sumSqT       float64
}

// Fit draws from the posterior of {hurdle_prob, log_mean, treatment_offset, log_sd}
func (s *Sampler) Fit(ctx context.Context, ds *experiment.Dataset, opts ports.FitOptions) (*posterior.Posterior, error) {
	if ds == nil {
		return nil, core.ErrEmptyDataset
	}
	opts = normalize(opts)

	suff := summarize(ds)

	perChain := opts.Draws / opts.Chains
	chains := make([][]posterior.Sample, opts.Chains)

	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < opts.Chains; c++ {
		c := c
		g.Go(func() error {
			rng, err := s.rngPort.SeededStream(gctx, fmt.Sprintf("gibbs-chain-%d", c), opts.Seed+int64(c))
			if err != nil {
				return fmt.Errorf("chain %d: %w", c, err)
			}
			draws, err := runChain(gctx, rng, suff, perChain, opts.Warmup)
			if err != nil {
				return fmt.Errorf("chain %d: %w", c, err)
			}
			chains[c] = draws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFitFailed, err)
	}

	if rhat := splitRHat(chains, func(d posterior.Sample) float64 { return d.LogMean }); rhat > maxSplitRHat {
		return nil, fmt.Errorf("%w: log_mean split R-hat %.3f exceeds %.1f", core.ErrFitFailed, rhat, maxSplitRHat)
	}
	if rhat := splitRHat(chains, func(d posterior.Sample) float64 { return d.TreatmentOffset }); rhat > maxSplitRHat {
		return nil, fmt.Errorf("%w: treatment_offset split R-hat %.3f exceeds %.1f", core.ErrFitFailed, rhat, maxSplitRHat)
	}

	pooled := make([]posterior.Sample, 0, opts.Chains*perChain)
	for _, draws := range chains {
		pooled = append(pooled, draws...)
	}
	return posterior.New(pooled, opts.Seed)
}

func normalize(opts ports.FitOptions) ports.FitOptions {
	if opts.Chains <= 0 {
		opts.Chains = 4
	}
	if opts.Draws < posterior.MinDraws {
		opts.Draws = 4000
	}
	if opts.Warmup <= 0 {
		opts.Warmup = 500
	}
	// Keep pooled draw count an exact multiple of the chain count.
	opts.Draws = (opts.Draws / opts.Chains) * opts.Chains
	return opts
}

func summarize(ds *experiment.Dataset) *sufficientStats {
	control := ds.Revenues(experiment.GroupControl, true)
	treatment := ds.Revenues(experiment.GroupTreatment, true)

	suff := &sufficientStats{
		nC: len(control),
		nT: len(treatment),
	}
	suff.purchases = suff.nC + suff.nT
	suff.nonPurchases = ds.Size() - suff.purchases

	for _, v := range control {
		l := math.Log(v)
		suff.sumC += l
		suff.sumSqC += l * l
	}
	for _, v := range treatment {
		l := math.Log(v)
		suff.sumT += l
		suff.sumSqT += l * l
	}
	return suff
}

// runChain performs warmup followed by keep Gibbs sweeps over the full
// conditionals and returns the kept draws.
func runChain(ctx context.Context, rng *rand.Rand, suff *sufficientStats, keep, warmup int) ([]posterior.Sample, error) {
	nC := float64(suff.nC)
	nT := float64(suff.nT)
	n := nC + nT

	// Initialize at the per-arm sample means with unit variance; the
	// conditionals forget the starting point within a few sweeps.
	mu := suff.sumC / nC
	beta := suff.sumT/nT - mu
	sigma2 := 1.0

	hurdle := distuv.Beta{
		Alpha: hurdleAlpha0 + float64(suff.purchases),
		Beta:  hurdleBeta0 + float64(suff.nonPurchases),
		Src:   rng,
	}

	draws := make([]posterior.Sample, 0, keep)
	for iter := 0; iter < warmup+keep; iter++ {
		if iter%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		// sigma^2 | mu, beta ~ InvGamma(shape + n/2, rate + SSR/2)
		ssr := suff.sumSqC - 2*mu*suff.sumC + nC*mu*mu
		muT := mu + beta
		ssr += suff.sumSqT - 2*muT*suff.sumT + nT*muT*muT
		if ssr < 0 {
			ssr = 0 // numerical guard for tiny residuals
		}
		precisionDraw := distuv.Gamma{
			Alpha: varianceShape + n/2,
			Beta:  varianceRate + ssr/2,
			Src:   rng,
		}.Rand()
		sigma2 = 1 / precisionDraw

		// mu | beta, sigma^2
		muPrec := n/sigma2 + 1/locationVar0
		muMean := (suff.sumC + suff.sumT - nT*beta) / sigma2 / muPrec
		mu = distuv.Normal{Mu: muMean, Sigma: math.Sqrt(1 / muPrec), Src: rng}.Rand()

		// beta | mu, sigma^2
		betaPrec := nT/sigma2 + 1/locationVar0
		betaMean := (suff.sumT - nT*mu) / sigma2 / betaPrec
		beta = distuv.Normal{Mu: betaMean, Sigma: math.Sqrt(1 / betaPrec), Src: rng}.Rand()

		if iter < warmup {
			continue
		}
		sample := posterior.Sample{
			HurdleProb:      hurdle.Rand(),
			LogMean:         mu,
			TreatmentOffset: beta,
			LogSD:           math.Sqrt(sigma2),
		}
		if math.IsNaN(sample.LogMean) || math.IsNaN(sample.TreatmentOffset) || math.IsNaN(sample.LogSD) {
			return nil, fmt.Errorf("non-finite draw at iteration %d", iter)
		}
		draws = append(draws, sample)
	}
	return draws, nil
}

// splitRHat computes the split potential scale reduction factor for one
// parameter across chains. Values near 1 indicate the chains agree.
func splitRHat(chains [][]posterior.Sample, param func(posterior.Sample) float64) float64 {
	var halves [][]float64
	for _, chain := range chains {
		if len(chain) < 4 {
			continue
		}
		values := make([]float64, len(chain))
		for i, d := range chain {
			values[i] = param(d)
		}
		mid := len(values) / 2
		halves = append(halves, values[:mid], values[mid:])
	}
	if len(halves) < 2 {
		return 1
	}

	m := float64(len(halves))
	n := float64(len(halves[0]))

	means := make([]float64, len(halves))
	var within float64
	for i, half := range halves {
		mean, variance := stat.MeanVariance(half, nil)
		means[i] = mean
		within += variance
	}
	within /= m

	grand := stat.Mean(means, nil)
	var between float64
	for _, mean := range means {
		between += (mean - grand) * (mean - grand)
	}
	between *= n / (m - 1)

	if within == 0 {
		return 1
	}
	varEst := (n-1)/n*within + between/n
	return math.Sqrt(varEst / within)
}
