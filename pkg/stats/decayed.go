package stats

import (
	"fmt"
	"math"

	"github.com/inferloop/tsstats/pkg/errors"
)

// DecayedMean returns the exponentially time-decayed mean of observations x
// taken at times t, evaluated at time now. Each observation is weighted by
// exp(-ln2 * age / h) with age = now - t[i] in the units of t; observations
// from the future (age < 0) are clamped to weight 1. h must be positive.
func DecayedMean(t, x []float64, h, now float64) (float64, error) {
	if len(t) != len(x) {
		return 0, errors.ErrLengthMismatch.WithDetails(
			fmt.Sprintf("len(t)=%d, len(x)=%d", len(t), len(x)))
	}
	if len(x) == 0 {
		return 0, errors.ErrSeriesTooShort.WithDetails("decayed mean needs at least 1 point")
	}
	if h <= 0 {
		return 0, errors.ErrInvalidHalfLife.WithDetails(fmt.Sprintf("got %g", h))
	}

	var num, den float64
	for i := range x {
		age := now - t[i]
		if age < 0 {
			age = 0
		}
		w := math.Exp(-math.Ln2 * age / h)
		num += w * x[i]
		den += w
	}
	return num / den, nil
}
