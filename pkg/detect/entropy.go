package detect

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/inferloop/tsstats/pkg/errors"
)

// EntropyIndex returns the normalized, exponentially discounted entropy of
// x in [0, 1]. Bin edges are the empirical quantiles of x, so on spread-out
// data the bins are equiprobable and the index approaches 1; mass piled
// into a single bin yields 0. Observations are discounted geometrically
// with half-life h, most recent first. Bin probabilities at or below tol
// are treated as exactly zero rather than raising.
func EntropyIndex(x []float64, bins, h int, tol float64) (float64, error) {
	if bins < 2 {
		return 0, errors.ErrInvalidBins.WithDetails(fmt.Sprintf("got %d", bins))
	}
	if h <= 1 {
		return 0, errors.ErrInvalidHalfLife.WithDetails(fmt.Sprintf("got h=%d", h))
	}
	if tol < 0 {
		return 0, errors.ErrInvalidTolerance.WithDetails(fmt.Sprintf("got %g", tol))
	}
	if len(x) < bins {
		return 0, errors.ErrSeriesTooShort.WithDetails(
			fmt.Sprintf("need at least %d points for %d bins, got %d", bins, bins, len(x)))
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	edges := make([]float64, bins-1)
	for j := 1; j < bins; j++ {
		edges[j-1] = stat.Quantile(float64(j)/float64(bins), stat.Empirical, sorted, nil)
	}

	// Discounted bin masses, newest observation heaviest.
	l := math.Exp(-math.Ln2 / float64(h))
	mass := make([]float64, bins)
	var wsum float64
	w := 1.0
	for i := len(x) - 1; i >= 0; i-- {
		mass[binOf(x[i], edges)] += w
		wsum += w
		w *= l
	}

	var entropy float64
	for _, m := range mass {
		p := m / wsum
		if p <= tol {
			continue
		}
		entropy -= p * math.Log(p)
	}
	return entropy / math.Log(float64(bins)), nil
}

// binOf places v into the bin whose upper edge is the first edge >= v;
// values above every edge land in the last bin.
func binOf(v float64, edges []float64) int {
	return sort.SearchFloat64s(edges, v)
}
