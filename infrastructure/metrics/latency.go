package metrics

import (
	"context"
	"fmt"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*Latency)(nil)

// LatencyConfig holds the latency budget for the Latency metric.
type LatencyConfig struct {
	// TargetMS is the latency under which a response scores 1.0.
	TargetMS float64 `yaml:"target_ms" validate:"min=0"`

	// MaxMS is the latency at or above which a response scores 0.0.
	// Scores degrade linearly between TargetMS and MaxMS.
	MaxMS float64 `yaml:"max_ms" validate:"min=0,gtefield=TargetMS"`

	// Threshold is the minimum score required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// DefaultLatencyConfig targets one second with a five-second ceiling.
func DefaultLatencyConfig() LatencyConfig {
	return LatencyConfig{TargetMS: 1000, MaxMS: 5000, Threshold: 0.5}
}

// Latency scores how quickly the model responded: 1.0 under target,
// degrading linearly to 0.0 at the maximum.
type Latency struct {
	baseMetric
	config LatencyConfig
}

// NewLatency creates a latency metric with the given config.
func NewLatency(config LatencyConfig) (*Latency, error) {
	if err := validateConfig("latency", config); err != nil {
		return nil, err
	}
	return &Latency{
		baseMetric: baseMetric{name: "latency", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *Latency) Validate() error {
	return validateConfig("latency", m.config)
}

// Score converts the measured latency into a [0, 1] score.
func (m *Latency) Score(_ context.Context, _ domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	latency := resp.LatencyMS

	var score float64
	switch {
	case latency <= m.config.TargetMS:
		score = 1.0
	case latency >= m.config.MaxMS:
		score = 0.0
	default:
		score = 1.0 - (latency-m.config.TargetMS)/(m.config.MaxMS-m.config.TargetMS)
	}

	return m.result(score,
		fmt.Sprintf("latency %.0fms (target %.0fms)", latency, m.config.TargetMS),
		map[string]any{"latency_ms": latency}), nil
}
