// Package analysis composes the library's primitives into a single
// engine-level entry point with structured logging.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inferloop/tsstats/pkg/detect"
	"github.com/inferloop/tsstats/pkg/ewma"
)

// Engine runs the moving-statistics and detection primitives over a series
// and aggregates the outputs into one result.
type Engine struct {
	logger *logrus.Logger
	config *Config
}

// Config contains configuration for the analysis engine
type Config struct {
	Window           int     `json:"window" yaml:"window"`
	HalfLife         int     `json:"half_life" yaml:"half_life"`
	CUSUMDrift       float64 `json:"cusum_drift" yaml:"cusum_drift"`
	CUSUMThreshold   float64 `json:"cusum_threshold" yaml:"cusum_threshold"`
	EntropyBins      int     `json:"entropy_bins" yaml:"entropy_bins"`
	EntropyTolerance float64 `json:"entropy_tolerance" yaml:"entropy_tolerance"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() *Config {
	return &Config{
		Window:           20,
		HalfLife:         10,
		EntropyBins:      10,
		EntropyTolerance: 1e-12,
	}
}

// NewEngine creates a new analysis engine
func NewEngine(config *Config, logger *logrus.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{logger: logger, config: config}
}

// Result contains the aggregated outputs of one analysis run
type Result struct {
	RequestID      string         `json:"request_id"`
	Stats          *ewma.Stats    `json:"stats"`
	Events         []detect.Event `json:"events,omitempty"`
	EntropyIndex   float64        `json:"entropy_index"`
	ProcessingTime time.Duration  `json:"processing_time"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Analyze computes moving statistics, level-shift events, and the entropy
// index for series. The context is checked between phases only; each phase
// runs to completion once started.
func (e *Engine) Analyze(ctx context.Context, series []float64) (*Result, error) {
	start := time.Now()
	result := &Result{
		RequestID: uuid.New().String(),
		Timestamp: start,
	}

	e.logger.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"points":     len(series),
		"window":     e.config.Window,
		"half_life":  e.halfLife(),
	}).Debug("Starting series analysis")

	movStats, err := ewma.MovingStats(series, e.config.Window, e.halfLife(), nil)
	if err != nil {
		e.logger.WithError(err).WithField("request_id", result.RequestID).
			Error("Moving statistics failed")
		return nil, err
	}
	result.Stats = movStats

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := detect.CUSUM(series, detect.CUSUMConfig{
		Drift:     e.config.CUSUMDrift,
		Threshold: e.config.CUSUMThreshold,
	})
	if err != nil {
		e.logger.WithError(err).WithField("request_id", result.RequestID).
			Error("CUSUM detection failed")
		return nil, err
	}
	result.Events = events

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := detect.EntropyIndex(series, e.config.EntropyBins, e.halfLife(), e.config.EntropyTolerance)
	if err != nil {
		e.logger.WithError(err).WithField("request_id", result.RequestID).
			Error("Entropy index failed")
		return nil, err
	}
	result.EntropyIndex = index

	result.ProcessingTime = time.Since(start)
	e.logger.WithFields(logrus.Fields{
		"request_id":      result.RequestID,
		"events":          len(result.Events),
		"entropy_index":   result.EntropyIndex,
		"processing_time": result.ProcessingTime,
	}).Info("Series analysis complete")

	return result, nil
}

func (e *Engine) halfLife() int {
	if e.config.HalfLife > 0 {
		return e.config.HalfLife
	}
	return e.config.Window / 2
}
