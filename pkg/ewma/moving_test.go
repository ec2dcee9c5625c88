package ewma

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/inferloop/tsstats/pkg/errors"
)

func ones(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}
	return x
}

func ramp(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x
}

// refWeights rebuilds the decay weights without the library helpers.
func refWeights(m, h int) ([]float64, float64) {
	l := math.Exp(-math.Ln2 / float64(h))
	w := make([]float64, m)
	cur := 1.0
	sum := 0.0
	for i := range w {
		cur *= l
		w[i] = cur
		sum += cur
	}
	for i := range w {
		w[i] /= sum
	}
	return w, l
}

// refMovingAverage computes the moving average as a direct weighted window
// sum over the padded series, not via the sliding recursion.
func refMovingAverage(x []float64, m, h int) []float64 {
	w, _ := refWeights(m, h)
	n := len(x)
	p := make([]float64, n+m)
	for i := 0; i < m; i++ {
		p[i] = x[0]
	}
	copy(p[m:], x)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < m; j++ {
			s += w[j] * p[i+m-j]
		}
		out[i] = s
	}
	return out
}

// refMovingStd transcribes the variance recursion literally from its
// defining identity, seeded with gonum's sample variance.
func refMovingStd(x []float64, m, h int, initSigma *float64) []float64 {
	w, l := refWeights(m, h)
	ma := refMovingAverage(x, m, h)
	n := len(x)

	dev := make([]float64, n+m)
	for i := 0; i < n; i++ {
		d := x[i] - ma[i]
		dev[m+i] = d * d
	}

	mvar := make([]float64, n)
	if initSigma != nil {
		mvar[0] = *initSigma * *initSigma
	} else {
		k := m
		if n < k {
			k = n
		}
		mvar[0] = stat.Variance(x[:k], nil)
	}
	for i := 1; i < n; i++ {
		mvar[i] = l*(mvar[i-1]-dev[i]*w[m-1]) + dev[i+m]*w[0]
	}

	var w2 float64
	for _, v := range w {
		w2 += v * v
	}
	out := make([]float64, n)
	for i, v := range mvar {
		out[i] = math.Sqrt(v / (1 - w2))
	}
	return out
}

func TestMovingAverageLengthPreserved(t *testing.T) {
	for _, n := range []int{2, 5, 17, 100} {
		out, err := MovingAverage(ramp(n), 4, 2)
		require.NoError(t, err)
		assert.Len(t, out, n)
	}
}

func TestMovingAverageConstantSeries(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = 42.5
	}
	out, err := MovingAverage(x, 5, 3)
	require.NoError(t, err)
	for i, v := range out {
		assert.InDelta(t, 42.5, v, 1e-9, "index %d", i)
	}
}

func TestMovingAverageAgainstDirectWindowSum(t *testing.T) {
	x := ramp(10)
	out, err := MovingAverage(x, 3, 2)
	require.NoError(t, err)

	want := refMovingAverage(x, 3, 2)
	for i := range out {
		assert.InDelta(t, want[i], out[i], 1e-9, "index %d", i)
	}

	// Lags the input and climbs monotonically past the cold start.
	assert.Equal(t, x[0], out[0])
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i], x[i], "index %d should lag the input", i)
		assert.Greater(t, out[i], out[i-1], "index %d should keep climbing", i)
	}
}

func TestMovingAverageDefaultHalfLife(t *testing.T) {
	x := ramp(12)
	def, err := MovingAverage(x, 8, 0)
	require.NoError(t, err)
	explicit, err := MovingAverage(x, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, explicit, def)
}

func TestMovingAverageInvalidArguments(t *testing.T) {
	x := ramp(10)

	_, err := MovingAverage(x, 1, 2)
	assert.ErrorIs(t, err, errors.ErrInvalidWindow)

	_, err = MovingAverage(x, 2, 1)
	assert.ErrorIs(t, err, errors.ErrInvalidHalfLife)

	_, err = MovingAverage([]float64{3}, 2, 2)
	assert.ErrorIs(t, err, errors.ErrSeriesTooShort)
}

func TestMovingStdConstantSeriesIsZero(t *testing.T) {
	// The h=1 variant of this scenario violates the half-life precondition
	// and must be rejected outright.
	_, err := MovingStd(ones(8), 2, 1, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidHalfLife)

	out, err := MovingStd(ones(8), 2, 2, nil)
	require.NoError(t, err)
	require.Len(t, out, 8)
	for i, v := range out {
		assert.InDelta(t, 0.0, v, 1e-12, "index %d", i)
	}

	ma, err := MovingAverage(ones(8), 2, 2)
	require.NoError(t, err)
	for i, v := range ma {
		assert.InDelta(t, 1.0, v, 1e-12, "index %d", i)
	}
}

func TestMovingStdAgainstReferenceRecursion(t *testing.T) {
	x := []float64{3.1, 0.4, 1.5, 9.2, 6.5, 3.5, 8.9, 7.9, 2.3, 6.0, 4.1, 5.8}
	out, err := MovingStd(x, 4, 3, nil)
	require.NoError(t, err)

	want := refMovingStd(x, 4, 3, nil)
	require.Len(t, out, len(want))
	for i := range out {
		assert.InDelta(t, want[i], out[i], 1e-9, "index %d", i)
		assert.GreaterOrEqual(t, out[i], 0.0, "index %d must be non-negative", i)
	}
}

func TestMovingStdInitSigmaSeed(t *testing.T) {
	x := ramp(10)
	sigma := 2.0
	out, err := MovingStd(x, 3, 2, &sigma)
	require.NoError(t, err)

	w, err := Weights(3, 2)
	require.NoError(t, err)
	b := newBiasConstants(w)
	assert.InDelta(t, math.Sqrt(sigma*sigma/(1-b.w2)), out[0], 1e-12)

	want := refMovingStd(x, 3, 2, &sigma)
	for i := range out {
		assert.InDelta(t, want[i], out[i], 1e-9, "index %d", i)
	}
}

func TestMovingStdInvalidArguments(t *testing.T) {
	neg := -0.5
	_, err := MovingStd(ramp(10), 3, 2, &neg)
	assert.ErrorIs(t, err, errors.ErrNegativeInitSigma)

	_, err = MovingStd([]float64{1}, 3, 2, nil)
	assert.ErrorIs(t, err, errors.ErrSeriesTooShort)

	_, err = MovingStd(ramp(10), 1, 2, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidWindow)

	_, err = MovingStd(ramp(10), 3, -1, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidHalfLife)
}

func TestMovingStatsMatchesMovingAverageAndStd(t *testing.T) {
	x := []float64{1.2, 4.7, 2.2, 8.1, 5.5, 3.3, 9.8, 0.4, 6.1, 7.7}
	m, h := 4, 2

	res, err := MovingStats(x, m, h, nil)
	require.NoError(t, err)

	ma, err := MovingAverage(x, m, h)
	require.NoError(t, err)
	std, err := MovingStd(x, m, h, nil)
	require.NoError(t, err)

	// Shared recursion code path: the columns must match bit-for-bit.
	assert.Equal(t, ma, res.Mean)
	assert.Equal(t, std, res.Std)
}

func TestMovingStatsAgainstReferenceRecursion(t *testing.T) {
	x := []float64{2.4, 7.1, 0.9, 5.3, 8.8, 3.2, 6.6, 1.7, 9.4, 4.5}
	m, h := 4, 3

	res, err := MovingStats(x, m, h, nil)
	require.NoError(t, err)

	w, l := refWeights(m, h)
	ma := refMovingAverage(x, m, h)
	std := refMovingStd(x, m, h, nil)

	var w2, w3, w4, w5, ww float64
	for _, v := range w {
		w2 += v * v
		w3 += v * v * v
		w4 += v * v * v * v
		w5 += v * v * v * v * v
	}
	for i := 0; i < len(w); i++ {
		for j := i + 1; j < len(w); j++ {
			ww += w[i] * w[i] * w[j] * w[j]
		}
	}
	c1 := 6*w2*w5 - 6*w2 + 12*w2*w2 - 12*w2*w4 + w2*w3 - w5 - 6*ww
	c2 := 1 - 3*w2 + 6*w3 - 3*w4

	n := len(x)
	dev3 := make([]float64, n+m)
	dev4 := make([]float64, n+m)
	for i := 0; i < n; i++ {
		d := x[i] - ma[i]
		dev3[m+i] = d * d * d
		dev4[m+i] = d * d * d * d
	}
	m3 := make([]float64, n)
	m4 := make([]float64, n)
	for i := 1; i < n; i++ {
		m3[i] = l*(m3[i-1]-dev3[i]*w[m-1]) + dev3[i+m]*w[0]
		m4[i] = l*(m4[i-1]-dev4[i]*w[m-1]) + dev4[i+m]*w[0]
	}

	for i := 0; i < n; i++ {
		assert.InDelta(t, ma[i], res.Mean[i], 1e-9, "mean index %d", i)
		assert.InDelta(t, std[i], res.Std[i], 1e-9, "std index %d", i)

		wantSkew := m3[i] / (math.Pow(std[i], 1.5) * (1 - 3*w2 + 2*w3))
		wantKurt := (m4[i]/(std[i]*std[i]) + c1) / c2
		assert.InDelta(t, wantSkew, res.Skewness[i], 1e-6, "skew index %d", i)
		assert.InDelta(t, wantKurt, res.Kurtosis[i], 1e-6, "kurt index %d", i)
	}
}

func TestMovingStatsStdColumnNonNegative(t *testing.T) {
	x := []float64{5, 5, 5, 5.0001, 5, 5, 4.9999, 5, 5, 5}
	res, err := MovingStats(x, 3, 2, nil)
	require.NoError(t, err)
	for i, v := range res.Std {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.False(t, math.IsNaN(v), "index %d", i)
	}
}

func TestMovingStatsInvalidArguments(t *testing.T) {
	_, err := MovingStats([]float64{1, 2, 3}, 2, 2, nil)
	assert.ErrorIs(t, err, errors.ErrSeriesTooShort)

	_, err = MovingStats([]float64{1, 2, 3, 4}, 2, 2, nil)
	assert.NoError(t, err)

	_, err = MovingStats(ramp(10), 1, 2, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidWindow)

	_, err = MovingStats(ramp(10), 2, 1, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidHalfLife)

	neg := -1.0
	_, err = MovingStats(ramp(10), 3, 2, &neg)
	assert.ErrorIs(t, err, errors.ErrNegativeInitSigma)
}
