package ewma

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inferloop/tsstats/pkg/errors"
)

// Weights builds the normalized geometric decay weight vector for a window
// of length m and half-life h. The decay factor is l = exp(-ln2/h); entry i
// carries weight l^(i+1) before normalization, so w[0] is the weight of the
// most recent term and the vector is strictly decreasing. The normalized
// vector sums to 1.
func Weights(m, h int) ([]float64, error) {
	if m <= 1 {
		return nil, errors.ErrInvalidWindow.WithDetails(fmt.Sprintf("got m=%d", m))
	}
	if h <= 1 {
		return nil, errors.ErrInvalidHalfLife.WithDetails(fmt.Sprintf("got h=%d", h))
	}

	l := decayFactor(h)
	w := make([]float64, m)
	w[0] = l
	for i := 1; i < m; i++ {
		w[i] = l * w[i-1]
	}
	floats.Scale(1/floats.Sum(w), w)
	return w, nil
}

func decayFactor(h int) float64 {
	return math.Exp(-math.Ln2 / float64(h))
}

// biasConstants holds the power sums of the weight vector and the derived
// correction factors applied to the moving moment estimates. They depend on
// the weight vector only, never on the data.
type biasConstants struct {
	w2, w3, w4, w5 float64
	ww             float64
	c1, c2         float64
}

func newBiasConstants(w []float64) biasConstants {
	var b biasConstants
	for _, v := range w {
		v2 := v * v
		b.w2 += v2
		b.w3 += v2 * v
		b.w4 += v2 * v2
		b.w5 += v2 * v2 * v
	}
	b.ww = pairSquareSum(w)

	// Kurtosis correction factors, transcribed from the weighted-moment
	// unbiasing identities. Do not rearrange: the tests pin these exact
	// expressions against reference vectors.
	b.c1 = 6*b.w2*b.w5 - 6*b.w2 + 12*b.w2*b.w2 - 12*b.w2*b.w4 + b.w2*b.w3 - b.w5 - 6*b.ww
	b.c2 = 1 - 3*b.w2 + 6*b.w3 - 3*b.w4
	return b
}

// pairSquareSum computes the cross term sum over i<j of w[i]^2 * w[j]^2 in
// a single pass, carrying a running suffix sum of squares.
func pairSquareSum(w []float64) float64 {
	var suffix, total float64
	for i := len(w) - 1; i >= 0; i-- {
		sq := w[i] * w[i]
		total += sq * suffix
		suffix += sq
	}
	return total
}
