package metrics

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*RegexMatch)(nil)

// RegexMatchConfig holds the options for RegexMatch.
type RegexMatchConfig struct {
	// Pattern is the regular expression searched for in the response.
	// When empty, each case's expected output is quoted and used as the
	// pattern instead.
	Pattern string `yaml:"pattern"`

	// CaseSensitive controls whether matching respects case. The
	// default mirrors the other text metrics: insensitive.
	CaseSensitive bool `yaml:"case_sensitive"`

	// Threshold is the pass cutoff; regex scores are binary.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// RegexMatch scores 1.0 when the pattern matches anywhere in the
// response, 0.0 otherwise. The pattern is compiled once at
// construction so an invalid regex fails during suite validation, not
// mid-run.
type RegexMatch struct {
	baseMetric
	config   RegexMatchConfig
	compiled *regexp.Regexp // nil when falling back to expected output
}

// NewRegexMatch creates a regex metric with the given config.
func NewRegexMatch(config RegexMatchConfig) (*RegexMatch, error) {
	if config.Threshold == 0 {
		config.Threshold = 1.0
	}
	if err := validateConfig("regex_match", config); err != nil {
		return nil, err
	}

	m := &RegexMatch{
		baseMetric: baseMetric{name: "regex_match", threshold: config.Threshold},
		config:     config,
	}
	if config.Pattern != "" {
		compiled, err := compilePattern(config.Pattern, config.CaseSensitive)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", config.Pattern, err)
		}
		m.compiled = compiled
	}
	return m, nil
}

// Validate reports whether the metric is ready to score.
func (m *RegexMatch) Validate() error {
	if m.config.Pattern != "" && m.compiled == nil {
		return ErrNoPattern
	}
	return validateConfig("regex_match", m.config)
}

// Score searches the response for the configured pattern, or for the
// literal expected output when no pattern is configured.
func (m *RegexMatch) Score(_ context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	re := m.compiled
	pattern := m.config.Pattern
	if re == nil {
		if !c.HasExpectedOutput() {
			return m.errorResult(ErrNoPattern.Error()), nil
		}
		pattern = regexp.QuoteMeta(c.ExpectedOutput)
		var err error
		re, err = compilePattern(pattern, m.config.CaseSensitive)
		if err != nil {
			return m.errorResult(fmt.Sprintf("invalid derived pattern: %v", err)), nil
		}
	}

	if re.MatchString(resp.Text) {
		return m.result(1.0, fmt.Sprintf("pattern found: %s", truncate(pattern, 80)), nil), nil
	}
	return m.result(0.0, fmt.Sprintf("pattern not found: %s", truncate(pattern, 80)), nil), nil
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
