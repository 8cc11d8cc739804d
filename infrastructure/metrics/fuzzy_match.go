package metrics

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*FuzzyMatch)(nil)

// FuzzyMatchConfig holds the options for FuzzyMatch.
type FuzzyMatchConfig struct {
	// CaseSensitive controls whether comparison distinguishes case.
	CaseSensitive bool `yaml:"case_sensitive"`

	// TrimSpace controls whether surrounding whitespace is stripped
	// before comparison.
	TrimSpace bool `yaml:"trim_space"`

	// Threshold is the minimum similarity required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// DefaultFuzzyMatchConfig returns normalized comparison with a 0.8
// similarity cutoff.
func DefaultFuzzyMatchConfig() FuzzyMatchConfig {
	return FuzzyMatchConfig{CaseSensitive: false, TrimSpace: true, Threshold: 0.8}
}

// FuzzyMatch scores the Levenshtein similarity between the response and
// the expected output: 1 - distance/maxRuneLength, so identical strings
// score 1.0 and entirely different strings approach 0.0. Tolerant of
// small phrasing differences where ExactMatch is not.
type FuzzyMatch struct {
	baseMetric
	config FuzzyMatchConfig
}

// NewFuzzyMatch creates a fuzzy-match metric with the given config.
func NewFuzzyMatch(config FuzzyMatchConfig) (*FuzzyMatch, error) {
	if err := validateConfig("fuzzy_match", config); err != nil {
		return nil, err
	}
	return &FuzzyMatch{
		baseMetric: baseMetric{name: "fuzzy_match", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *FuzzyMatch) Validate() error {
	return validateConfig("fuzzy_match", m.config)
}

// Score computes the normalized edit-distance similarity.
func (m *FuzzyMatch) Score(_ context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	if !c.HasExpectedOutput() {
		return m.errorResult("no expected output provided"), nil
	}

	actual := m.normalize(resp.Text)
	expected := m.normalize(c.ExpectedOutput)

	similarity := similarityScore(expected, actual)
	return m.result(similarity,
		fmt.Sprintf("similarity %.4f (threshold %.2f)", similarity, m.threshold),
		map[string]any{"similarity": similarity}), nil
}

func (m *FuzzyMatch) normalize(s string) string {
	if m.config.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if !m.config.CaseSensitive {
		s = cases.Fold().String(s)
	}
	return s
}

// similarityScore converts Levenshtein distance to a [0, 1] similarity
// normalized by the longer string's rune count. Two empty strings are
// identical by definition.
func similarityScore(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return clamp01(1.0 - float64(dist)/float64(longest))
}
