// Package metrics provides the built-in evaluation metrics: fast
// deterministic checks (exact match, keywords, regex, JSON shape,
// length, fuzzy similarity), response-quality statistics (text overlap,
// latency, cost), and LLM-as-judge metrics that grade one model's
// output with another model.
//
// All metrics implement ports.Metric and are safe for concurrent use.
package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-evalkit/internal/domain"
)

// validate is the shared validator instance for metric configurations.
// validator.Validate is thread-safe and caches struct metadata, so a
// single instance serves all metric constructors.
var validate = validator.New()

// Configuration errors shared across metric constructors.
var (
	// ErrNoKeywords indicates a keyword metric was built without keywords
	// and no expected output is available to fall back on.
	ErrNoKeywords = errors.New("no keywords provided")

	// ErrNoPattern indicates a regex metric has no pattern configured.
	ErrNoPattern = errors.New("no regex pattern provided")

	// ErrNilLLMClient indicates a judge metric was built without a
	// grading client.
	ErrNilLLMClient = errors.New("judge metric requires an LLM client")

	// ErrEmptyPromptTemplate indicates a judge metric has no prompt.
	ErrEmptyPromptTemplate = errors.New("judge prompt template cannot be empty")
)

// baseMetric carries the identity and pass threshold every metric
// shares, plus the result constructors that keep verdict derivation in
// one place: score >= threshold passes, anything else fails.
type baseMetric struct {
	name      string
	threshold float64
}

// Name returns the metric identifier used in result rows.
func (b baseMetric) Name() string { return b.name }

// Threshold returns the pass/fail cutoff applied to scores.
func (b baseMetric) Threshold() float64 { return b.threshold }

// result builds a scored MetricResult with the verdict derived from
// the threshold.
func (b baseMetric) result(score float64, reason string, metadata map[string]any) domain.MetricResult {
	verdict := domain.VerdictFail
	if score >= b.threshold {
		verdict = domain.VerdictPass
	}
	return domain.MetricResult{
		MetricName: b.name,
		Score:      score,
		Verdict:    verdict,
		Reason:     reason,
		Threshold:  b.threshold,
		Metadata:   metadata,
	}
}

// errorResult builds the zero-score error-verdict result for a metric
// that could not evaluate this case.
func (b baseMetric) errorResult(reason string) domain.MetricResult {
	r := domain.ErrorMetricResult(b.name, reason)
	r.Threshold = b.threshold
	return r
}

// skipResult builds a skip-verdict result; skipped results are excluded
// from averages and pass rates.
func (b baseMetric) skipResult(reason string) domain.MetricResult {
	return domain.MetricResult{
		MetricName: b.name,
		Score:      0.0,
		Verdict:    domain.VerdictSkip,
		Reason:     reason,
		Threshold:  b.threshold,
	}
}

// clamp01 bounds a score to the canonical [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// truncate shortens s for use in human-readable reasons.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// extractJSON pulls a JSON document out of model output that may wrap
// it in markdown fences or surrounding prose. The heuristic mirrors
// what judge and formatting prompts actually produce: a fenced block
// first, otherwise the outermost brace pair.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx != -1 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(text, "```"); idx != -1 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// validateConfig runs struct validation and wraps failures with the
// metric name for actionable errors.
func validateConfig(name string, config any) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid %s config: %w", name, err)
	}
	return nil
}
