// Package ewma implements finite-window exponentially weighted moving
// statistics over a series: moving mean, standard deviation, and relative
// skewness/kurtosis, each corrected for the finite-sample bias introduced by
// the geometric weighting.
//
// All routines are pure: every call builds a private weight vector and
// padded working buffer and discards them on return. The recursions are
// evaluated strictly in index order with a fixed floating-point operation
// order, so results are reproducible across runs.
package ewma
