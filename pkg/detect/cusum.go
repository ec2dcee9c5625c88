// Package detect provides event detection over series: a two-sided CUSUM
// level-shift detector and a discounted entropy index.
package detect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inferloop/tsstats/pkg/errors"
	"github.com/inferloop/tsstats/pkg/stats"
)

// CUSUMConfig configures the two-sided CUSUM detector. Zero values are
// replaced with data-derived defaults.
type CUSUMConfig struct {
	// Drift is the allowance k subtracted from each deviation before it
	// accumulates. Default: half the sample standard deviation.
	Drift float64 `json:"drift"`

	// Threshold is the decision limit the cumulative sums must exceed.
	// Default: 5 times the sample standard deviation.
	Threshold float64 `json:"threshold"`

	// Target is the reference level deviations are measured from.
	// Default: the sample mean.
	Target *float64 `json:"target,omitempty"`
}

func (c CUSUMConfig) withDefaults(mean, std float64) CUSUMConfig {
	cfg := c
	if cfg.Target == nil {
		cfg.Target = &mean
	}
	if cfg.Drift <= 0 {
		cfg.Drift = std / 2
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5 * std
	}
	return cfg
}

// Event marks a detected level shift.
type Event struct {
	Index     int     `json:"index"`
	Direction int     `json:"direction"` // +1 upward shift, -1 downward shift
	Statistic float64 `json:"statistic"` // cumulative sum at detection
}

// CUSUM runs a two-sided cumulative-sum detector over x and returns the
// indices where either cumulative sum exceeds the decision threshold. Both
// sums reset after an event. A constant series with data-derived defaults
// detects nothing.
func CUSUM(x []float64, cfg CUSUMConfig) ([]Event, error) {
	if len(x) < 2 {
		return nil, errors.ErrSeriesTooShort.WithDetails(
			fmt.Sprintf("cusum needs at least 2 points, got %d", len(x)))
	}

	mean := floats.Sum(x) / float64(len(x))
	std := stats.SampleStd(x)
	if std == 0 && (cfg.Drift <= 0 || cfg.Threshold <= 0) {
		// No spread to derive defaults from, and nothing to detect.
		return nil, nil
	}
	cfg = cfg.withDefaults(mean, std)

	var events []Event
	var pos, neg float64
	for i, v := range x {
		pos = math.Max(0, pos+v-*cfg.Target-cfg.Drift)
		neg = math.Max(0, neg+*cfg.Target-v-cfg.Drift)
		switch {
		case pos > cfg.Threshold:
			events = append(events, Event{Index: i, Direction: 1, Statistic: pos})
			pos, neg = 0, 0
		case neg > cfg.Threshold:
			events = append(events, Event{Index: i, Direction: -1, Statistic: neg})
			pos, neg = 0, 0
		}
	}
	return events, nil
}
