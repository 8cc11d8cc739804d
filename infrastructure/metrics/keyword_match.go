package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var (
	_ ports.Metric = (*ContainsAny)(nil)
	_ ports.Metric = (*ContainsAll)(nil)
)

// KeywordConfig holds the options shared by the keyword metrics.
type KeywordConfig struct {
	// Keywords lists the substrings to look for in the response. When
	// empty, ContainsAny falls back to treating the case's expected
	// output as a single keyword; ContainsAll requires the list.
	Keywords []string `yaml:"keywords"`

	// CaseSensitive controls whether substring matching respects case.
	CaseSensitive bool `yaml:"case_sensitive"`

	// Threshold is the minimum fraction of keywords that must be found.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// ContainsAny scores the fraction of configured keywords present in the
// response. The default threshold of 0.5 passes when at least half the
// keywords appear.
type ContainsAny struct {
	baseMetric
	config KeywordConfig
}

// NewContainsAny creates the metric. An empty keyword list is allowed;
// the expected output then serves as the single keyword per case.
func NewContainsAny(config KeywordConfig) (*ContainsAny, error) {
	if config.Threshold == 0 {
		config.Threshold = 0.5
	}
	if err := validateConfig("contains_any", config); err != nil {
		return nil, err
	}
	return &ContainsAny{
		baseMetric: baseMetric{name: "contains_any", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *ContainsAny) Validate() error {
	return validateConfig("contains_any", m.config)
}

// Score checks which keywords appear in the response text.
func (m *ContainsAny) Score(_ context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	keywords := m.config.Keywords
	if len(keywords) == 0 && c.HasExpectedOutput() {
		keywords = []string{c.ExpectedOutput}
	}
	if len(keywords) == 0 {
		return m.errorResult(ErrNoKeywords.Error()), nil
	}

	found, missing := matchKeywords(resp.Text, keywords, m.config.CaseSensitive)
	score := float64(len(found)) / float64(len(keywords))

	reason := fmt.Sprintf("found %d/%d keywords", len(found), len(keywords))
	if len(found) == 0 {
		reason = fmt.Sprintf("none of %d keywords found in response", len(keywords))
	}
	return m.result(score, reason, map[string]any{
		"found":   found,
		"missing": missing,
	}), nil
}

// ContainsAll scores the fraction of configured keywords present and
// passes only when every keyword appears (default threshold 1.0).
type ContainsAll struct {
	baseMetric
	config KeywordConfig
}

// NewContainsAll creates the metric. Unlike ContainsAny there is no
// expected-output fallback: requiring all of one implicit keyword is
// just exact substring matching, so the list must be explicit.
func NewContainsAll(config KeywordConfig) (*ContainsAll, error) {
	if config.Threshold == 0 {
		config.Threshold = 1.0
	}
	if len(config.Keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if err := validateConfig("contains_all", config); err != nil {
		return nil, err
	}
	return &ContainsAll{
		baseMetric: baseMetric{name: "contains_all", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *ContainsAll) Validate() error {
	if len(m.config.Keywords) == 0 {
		return ErrNoKeywords
	}
	return validateConfig("contains_all", m.config)
}

// Score checks that every keyword appears in the response text.
func (m *ContainsAll) Score(_ context.Context, _ domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	found, missing := matchKeywords(resp.Text, m.config.Keywords, m.config.CaseSensitive)
	score := float64(len(found)) / float64(len(m.config.Keywords))

	reason := fmt.Sprintf("found %d/%d keywords", len(found), len(m.config.Keywords))
	if len(missing) > 0 {
		reason += fmt.Sprintf(", missing: %v", missing)
	}
	return m.result(score, reason, map[string]any{
		"found":   found,
		"missing": missing,
	}), nil
}

// matchKeywords partitions keywords into those present in text and
// those absent, with optional case folding.
func matchKeywords(text string, keywords []string, caseSensitive bool) (found, missing []string) {
	haystack := text
	if !caseSensitive {
		haystack = strings.ToLower(text)
	}
	for _, kw := range keywords {
		needle := kw
		if !caseSensitive {
			needle = strings.ToLower(kw)
		}
		if strings.Contains(haystack, needle) {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return found, missing
}
