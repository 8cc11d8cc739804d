package metrics

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*LengthRange)(nil)

// LengthRangeConfig holds the bounds for LengthRange.
type LengthRangeConfig struct {
	// MinChars and MaxChars bound the acceptable response length in
	// runes. MaxChars must be at least MinChars.
	MinChars int `yaml:"min_chars" validate:"min=0"`
	MaxChars int `yaml:"max_chars" validate:"min=0,gtefield=MinChars"`

	// Threshold is the minimum score required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// DefaultLengthRangeConfig accepts anything up to 10000 characters.
func DefaultLengthRangeConfig() LengthRangeConfig {
	return LengthRangeConfig{MinChars: 0, MaxChars: 10000, Threshold: 0.5}
}

// LengthRange scores 1.0 when the response length falls inside the
// configured range and degrades linearly outside it: too-short
// responses score length/min, too-long responses lose overshoot/max.
type LengthRange struct {
	baseMetric
	config LengthRangeConfig
}

// NewLengthRange creates a length metric with the given config.
func NewLengthRange(config LengthRangeConfig) (*LengthRange, error) {
	if err := validateConfig("length_range", config); err != nil {
		return nil, err
	}
	return &LengthRange{
		baseMetric: baseMetric{name: "length_range", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *LengthRange) Validate() error {
	return validateConfig("length_range", m.config)
}

// Score measures the response length against the configured range.
func (m *LengthRange) Score(_ context.Context, _ domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	length := utf8.RuneCountInString(resp.Text)
	meta := map[string]any{"length": length}

	if length >= m.config.MinChars && length <= m.config.MaxChars {
		return m.result(1.0,
			fmt.Sprintf("length %d within [%d, %d]", length, m.config.MinChars, m.config.MaxChars),
			meta), nil
	}

	if length < m.config.MinChars {
		score := 0.0
		if m.config.MinChars > 0 {
			score = clamp01(float64(length) / float64(m.config.MinChars))
		}
		return m.result(score,
			fmt.Sprintf("too short: %d < %d", length, m.config.MinChars), meta), nil
	}

	overshoot := length - m.config.MaxChars
	score := 0.0
	if m.config.MaxChars > 0 {
		score = clamp01(1.0 - float64(overshoot)/float64(m.config.MaxChars))
	}
	return m.result(score,
		fmt.Sprintf("too long: %d > %d", length, m.config.MaxChars), meta), nil
}
