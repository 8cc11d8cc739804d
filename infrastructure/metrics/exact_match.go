package metrics

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// Compile-time check that ExactMatch satisfies the Metric interface.
var _ ports.Metric = (*ExactMatch)(nil)

// ExactMatchConfig holds the comparison options for ExactMatch.
type ExactMatchConfig struct {
	// CaseSensitive controls whether comparison distinguishes case.
	// When false, Unicode case folding is applied to both sides.
	CaseSensitive bool `yaml:"case_sensitive"`

	// TrimSpace controls whether surrounding whitespace is stripped
	// before comparison.
	TrimSpace bool `yaml:"trim_space"`

	// Threshold is the pass cutoff. Exact match scores are binary, so
	// any threshold above zero means "must match".
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// DefaultExactMatchConfig returns case-insensitive, whitespace-trimmed
// matching with a pass-only-on-match threshold.
func DefaultExactMatchConfig() ExactMatchConfig {
	return ExactMatchConfig{CaseSensitive: false, TrimSpace: true, Threshold: 1.0}
}

// ExactMatch scores 1.0 when the response equals the expected output
// after normalization, 0.0 otherwise. Cases without an expected output
// produce an error verdict.
type ExactMatch struct {
	baseMetric
	config ExactMatchConfig
	tracer trace.Tracer
}

// NewExactMatch creates an exact-match metric with the given config.
func NewExactMatch(config ExactMatchConfig) (*ExactMatch, error) {
	if err := validateConfig("exact_match", config); err != nil {
		return nil, err
	}
	return &ExactMatch{
		baseMetric: baseMetric{name: "exact_match", threshold: config.Threshold},
		config:     config,
		tracer:     otel.Tracer("exact-match-metric"),
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *ExactMatch) Validate() error {
	return validateConfig("exact_match", m.config)
}

// Score compares the response text against the expected output.
func (m *ExactMatch) Score(ctx context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	_, span := m.tracer.Start(ctx, "ExactMatch.Score",
		trace.WithAttributes(
			attribute.String("case.id", c.ID),
			attribute.Bool("config.case_sensitive", m.config.CaseSensitive),
		),
	)
	defer span.End()

	if !c.HasExpectedOutput() {
		return m.errorResult("no expected output provided"), nil
	}

	actual := m.normalize(resp.Text)
	expected := m.normalize(c.ExpectedOutput)

	match := actual == expected
	span.SetAttributes(attribute.Bool("result.match", match))

	if match {
		return m.result(1.0, "exact match", nil), nil
	}
	return m.result(0.0,
		fmt.Sprintf("expected %q, got %q", truncate(expected, 100), truncate(actual, 100)),
		nil), nil
}

// normalize applies the configured trimming and case folding.
func (m *ExactMatch) normalize(s string) string {
	if m.config.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if !m.config.CaseSensitive {
		s = cases.Fold().String(s)
	}
	return s
}
