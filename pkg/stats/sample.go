// Package stats provides the single-pass numerical routines that support
// the moving-statistics core: plain sample statistics, derivatives on
// irregular grids, time-decayed means, and modular exponentiation.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SampleStd returns the two-pass sample standard deviation of x with the
// N-1 divisor. It is an internal-style helper reused with sub-slices:
// callers guarantee len(x) > 1.
func SampleStd(x []float64) float64 {
	mean := floats.Sum(x) / float64(len(x))
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)-1))
}
