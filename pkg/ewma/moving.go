package ewma

import (
	"fmt"
	"math"

	"github.com/inferloop/tsstats/pkg/errors"
	"github.com/inferloop/tsstats/pkg/stats"
)

// Stats holds the four moving-statistic columns for a series. Each slice
// has one entry per input index.
type Stats struct {
	Mean     []float64 `json:"mean"`
	Std      []float64 `json:"std"`
	Skewness []float64 `json:"skewness"` // relative skew, normalized by the moving std
	Kurtosis []float64 `json:"kurtosis"` // relative kurtosis, normalized by the moving std
}

// MovingAverage computes the finite-window exponentially weighted moving
// average of x with window m and half-life h. h == 0 selects the default
// half-life m/2. The output has the same length as x; a constant input
// yields a constant output.
func MovingAverage(x []float64, m, h int) ([]float64, error) {
	h = defaultHalfLife(m, h)
	if err := validateSeries(x, 1); err != nil {
		return nil, err
	}
	w, err := Weights(m, h)
	if err != nil {
		return nil, err
	}
	return movingMean(x, w, decayFactor(h)), nil
}

// MovingStd computes the unbiased exponentially weighted moving standard
// deviation of x. initSigma optionally seeds the variance recursion; when
// nil the sample variance of the first min(m, len(x)) elements is used.
func MovingStd(x []float64, m, h int, initSigma *float64) ([]float64, error) {
	h = defaultHalfLife(m, h)
	if err := validateSeries(x, 1); err != nil {
		return nil, err
	}
	if err := validateInitSigma(initSigma); err != nil {
		return nil, err
	}
	w, err := Weights(m, h)
	if err != nil {
		return nil, err
	}

	l := decayFactor(h)
	b := newBiasConstants(w)
	ma := movingMean(x, w, l)
	mvar := movingVariance(x, ma, w, l, initSigma)
	return unbiasedStd(mvar, b.w2), nil
}

// MovingStats computes the moving mean, unbiased std, and relative
// skewness/kurtosis of x in a single combined recursion. The mean and std
// columns are identical to MovingAverage and MovingStd outputs for the same
// arguments.
func MovingStats(x []float64, m, h int, initSigma *float64) (*Stats, error) {
	h = defaultHalfLife(m, h)
	if err := validateSeries(x, 3); err != nil {
		return nil, err
	}
	if err := validateInitSigma(initSigma); err != nil {
		return nil, err
	}
	w, err := Weights(m, h)
	if err != nil {
		return nil, err
	}

	n := len(x)
	l := decayFactor(h)
	b := newBiasConstants(w)

	ma := movingMean(x, w, l)
	mvar := movingVariance(x, ma, w, l, initSigma)

	// Third- and fourth-power deviation columns run the same sliding
	// recursion over zero-padded deviation series; their first row starts
	// at zero by construction.
	dev3 := make([]float64, n+m)
	dev4 := make([]float64, n+m)
	for i := 0; i < n; i++ {
		d := x[i] - ma[i]
		d2 := d * d
		dev3[m+i] = d2 * d
		dev4[m+i] = d2 * d2
	}
	m3 := make([]float64, n)
	m4 := make([]float64, n)
	slideWindow(m3, dev3, w, l)
	slideWindow(m4, dev4, w, l)

	std := unbiasedStd(mvar, b.w2)
	skewDiv := 1 - 3*b.w2 + 2*b.w3
	skew := make([]float64, n)
	kurt := make([]float64, n)
	for i := 0; i < n; i++ {
		s := std[i]
		skew[i] = m3[i] / (math.Pow(s, 1.5) * skewDiv)
		kurt[i] = (m4[i]/(s*s) + b.c1) / b.c2
	}

	return &Stats{Mean: ma, Std: std, Skewness: skew, Kurtosis: kurt}, nil
}

// defaultHalfLife applies the default half-life m/2 when h is zero. An
// explicitly supplied h always wins, valid or not.
func defaultHalfLife(m, h int) int {
	if h == 0 {
		return m / 2
	}
	return h
}

func validateSeries(x []float64, minLen int) error {
	if len(x) <= minLen {
		return errors.ErrSeriesTooShort.WithDetails(
			fmt.Sprintf("need more than %d points, got %d", minLen, len(x)))
	}
	return nil
}

func validateInitSigma(initSigma *float64) error {
	if initSigma != nil && *initSigma < 0 {
		return errors.ErrNegativeInitSigma.WithDetails(fmt.Sprintf("got %g", *initSigma))
	}
	return nil
}

// movingMean runs the sliding recursion over x padded with m replicas of
// its first value. The padding makes row 0 exactly x[0] and removes any
// special-casing of the first m rows.
func movingMean(x, w []float64, l float64) []float64 {
	m := len(w)
	p := padLeading(x, m, x[0])
	out := make([]float64, len(x))
	out[0] = x[0]
	slideWindow(out, p, w, l)
	return out
}

// movingVariance runs the sliding recursion over the squared deviations of
// x from its moving mean, zero-padded on the left. Row 0 is seeded with
// initSigma squared when supplied, otherwise with the sample variance of
// the first min(m, len(x)) elements.
func movingVariance(x, ma, w []float64, l float64, initSigma *float64) []float64 {
	n := len(x)
	m := len(w)
	dev := make([]float64, n+m)
	for i := 0; i < n; i++ {
		d := x[i] - ma[i]
		dev[m+i] = d * d
	}

	out := make([]float64, n)
	if initSigma != nil {
		out[0] = (*initSigma) * (*initSigma)
	} else {
		k := m
		if n < k {
			k = n
		}
		s := stats.SampleStd(x[:k])
		out[0] = s * s
	}
	slideWindow(out, dev, w, l)
	return out
}

// slideWindow advances the finite-window weighted recursion along a padded
// series p of length len(out)+len(w). Each step adds the newest weighted
// term and drops the term that just left the window, scaled by the per-step
// decay l. out[0] must be seeded by the caller.
func slideWindow(out, p, w []float64, l float64) {
	m := len(w)
	for i := 1; i < len(out); i++ {
		out[i] = l*(out[i-1]-w[m-1]*p[i]) + w[0]*p[i+m]
	}
}

// padLeading returns x prefixed with m copies of fill, allocated once at
// full size.
func padLeading(x []float64, m int, fill float64) []float64 {
	p := make([]float64, len(x)+m)
	for i := 0; i < m; i++ {
		p[i] = fill
	}
	copy(p[m:], x)
	return p
}

// unbiasedStd divides the raw moving variance by (1 - W2) and takes the
// square root. Floating-point jitter can push the recursion a hair below
// zero, which is clamped so the output stays non-negative.
func unbiasedStd(mvar []float64, w2 float64) []float64 {
	out := make([]float64, len(mvar))
	for i, v := range mvar {
		u := v / (1 - w2)
		if u < 0 {
			u = 0
		}
		out[i] = math.Sqrt(u)
	}
	return out
}
