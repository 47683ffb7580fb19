package decision

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"abstop/domain/core"
)

func TestHDI_CoversRequestedMass(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 5000)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}

	interval, err := HDI(samples, 0.95)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}

	inside := 0
	for _, s := range samples {
		if interval.Contains(s) {
			inside++
		}
	}
	if got := float64(inside) / float64(len(samples)); got < 0.95 {
		t.Errorf("interval covers %.4f of the mass, want >= 0.95", got)
	}
}

func TestHDI_NarrowerThanEqualTailedOnSkewedSample(t *testing.T) {
	// Log-normal samples are heavily right-skewed; the HDI should hug the
	// bulk near zero instead of chasing the right tail symmetrically.
	rng := rand.New(rand.NewSource(11))
	samples := make([]float64, 10000)
	for i := range samples {
		samples[i] = math.Exp(rng.NormFloat64())
	}

	interval, err := HDI(samples, 0.9)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}

	// Equal-tailed bounds for LogNormal(0,1) at 90%: [exp(-1.645), exp(1.645)].
	equalTailedWidth := math.Exp(1.645) - math.Exp(-1.645)
	if interval.Width() >= equalTailedWidth {
		t.Errorf("HDI width %.3f is not narrower than equal-tailed width %.3f", interval.Width(), equalTailedWidth)
	}
	if interval.Low > 0.5 {
		t.Errorf("HDI low bound %.3f is too far from the mode of a skewed sample", interval.Low)
	}
}

func TestHDI_WidthShrinksWithMass(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	samples := make([]float64, 2000)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}

	wide, err := HDI(samples, 0.95)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}
	narrow, err := HDI(samples, 0.5)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}
	if narrow.Width() >= wide.Width() {
		t.Errorf("50%% interval (width %.3f) should be narrower than 95%% (width %.3f)", narrow.Width(), wide.Width())
	}
}

func TestHDI_WidthConvergesWithMoreSamples(t *testing.T) {
	// For a standard normal the 95% HDI converges to about [-1.96, 1.96].
	rng := rand.New(rand.NewSource(19))
	samples := make([]float64, 50000)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}

	interval, err := HDI(samples, 0.95)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}
	if w := interval.Width(); math.Abs(w-3.92) > 0.15 {
		t.Errorf("width = %.3f at 50k samples, want near 3.92", w)
	}
}

func TestHDI_SingleSample(t *testing.T) {
	interval, err := HDI([]float64{3.5}, 0.95)
	if err != nil {
		t.Fatalf("HDI failed: %v", err)
	}
	if interval.Low != 3.5 || interval.High != 3.5 {
		t.Errorf("got [%g, %g], want degenerate [3.5, 3.5]", interval.Low, interval.High)
	}
}

func TestHDI_InputErrors(t *testing.T) {
	if _, err := HDI(nil, 0.95); !errors.Is(err, core.ErrEmptyDistribution) {
		t.Errorf("empty input: got %v, want ErrEmptyDistribution", err)
	}
	for _, mass := range []float64{0, 1, -0.5, 1.5} {
		if _, err := HDI([]float64{1, 2, 3}, mass); !errors.Is(err, core.ErrInvalidMass) {
			t.Errorf("mass %g: got %v, want ErrInvalidMass", mass, err)
		}
	}
}

func TestHDI_DoesNotMutateInput(t *testing.T) {
	samples := []float64{5, 1, 4, 2, 3}
	if _, err := HDI(samples, 0.6); err != nil {
		t.Fatalf("HDI failed: %v", err)
	}
	want := []float64{5, 1, 4, 2, 3}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("input mutated at %d: got %v", i, samples)
		}
	}
}
