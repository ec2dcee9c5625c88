package stats

import (
	"fmt"

	"github.com/inferloop/tsstats/pkg/errors"
)

// IrregularDerivative estimates dx/dt on a possibly irregular grid t.
// Interior points use the three-point nonuniform central difference, which
// is exact for linear data; endpoints fall back to one-sided differences.
// t must be strictly increasing and match x in length, with at least two
// points.
func IrregularDerivative(t, x []float64) ([]float64, error) {
	if len(t) != len(x) {
		return nil, errors.ErrLengthMismatch.WithDetails(
			fmt.Sprintf("len(t)=%d, len(x)=%d", len(t), len(x)))
	}
	if len(x) < 2 {
		return nil, errors.ErrSeriesTooShort.WithDetails("derivative needs at least 2 points")
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return nil, errors.ErrNonIncreasingGrid.WithDetails(
				fmt.Sprintf("t[%d]=%g, t[%d]=%g", i-1, t[i-1], i, t[i]))
		}
	}

	n := len(x)
	d := make([]float64, n)
	d[0] = (x[1] - x[0]) / (t[1] - t[0])
	d[n-1] = (x[n-1] - x[n-2]) / (t[n-1] - t[n-2])
	for i := 1; i < n-1; i++ {
		h1 := t[i] - t[i-1]
		h2 := t[i+1] - t[i]
		d[i] = (x[i+1]*h1*h1 + x[i]*(h2*h2-h1*h1) - x[i-1]*h2*h2) / (h1 * h2 * (h1 + h2))
	}
	return d, nil
}
