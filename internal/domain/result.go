package domain

import "time"

// Verdict classifies the outcome of one metric evaluation.
type Verdict string

const (
	// VerdictPass indicates the metric score met its threshold.
	VerdictPass Verdict = "pass"

	// VerdictFail indicates the metric executed but the score fell
	// below its threshold.
	VerdictFail Verdict = "fail"

	// VerdictError indicates the metric could not execute; the score is
	// forced to zero and the reason carries the failure.
	VerdictError Verdict = "error"

	// VerdictSkip indicates the metric chose not to evaluate this case.
	// Skipped results are excluded from score averages.
	VerdictSkip Verdict = "skip"
)

// MetricResult is the outcome of scoring one (case, response) pair with
// one metric. A metric that fails to execute still produces a
// MetricResult with VerdictError rather than propagating the failure.
type MetricResult struct {
	// MetricName identifies which metric produced this result.
	MetricName string `json:"metric_name"`

	// Score is the normalized score in [0, 1].
	Score float64 `json:"score"`

	// Verdict is the pass/fail/error/skip determination.
	Verdict Verdict `json:"verdict"`

	// Reason is a human-readable explanation for the score or, for
	// error verdicts, the failure description.
	Reason string `json:"reason,omitempty"`

	// Threshold is the pass/fail cutoff the metric applied.
	Threshold float64 `json:"threshold"`

	// Metadata carries metric-specific details (matched keywords,
	// judge confidence, and so on).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ErrorMetricResult builds the canonical error-shaped result for a
// metric that failed to execute: zero score, VerdictError, and the
// failure reason.
func ErrorMetricResult(metricName, reason string) MetricResult {
	return MetricResult{
		MetricName: metricName,
		Score:      0.0,
		Verdict:    VerdictError,
		Reason:     reason,
	}
}

// CaseResult is the outcome of evaluating one case: the model response
// plus one MetricResult per configured metric, in suite metric order.
type CaseResult struct {
	// Case is the evaluated test case.
	Case Case `json:"case"`

	// Response is the model output. It is nil only when the model
	// adapter itself failed, in which case CaseError is set and every
	// metric result carries VerdictError.
	Response *ModelResponse `json:"response,omitempty"`

	// MetricResults holds exactly one entry per suite metric,
	// preserving the suite's metric ordering.
	MetricResults []MetricResult `json:"metric_results"`

	// CaseError describes an adapter failure for this case, if any.
	CaseError string `json:"case_error,omitempty"`
}

// Passed reports whether every non-skipped metric passed.
// Error verdicts count as failures.
func (cr CaseResult) Passed() bool {
	for _, mr := range cr.MetricResults {
		if mr.Verdict == VerdictSkip {
			continue
		}
		if mr.Verdict != VerdictPass {
			return false
		}
	}
	return true
}

// AvgScore is the mean score across non-skipped metric results.
// Error results contribute their zero score rather than being excluded,
// so a flaky metric degrades the case instead of disappearing.
func (cr CaseResult) AvgScore() float64 {
	var sum float64
	var n int
	for _, mr := range cr.MetricResults {
		if mr.Verdict == VerdictSkip {
			continue
		}
		sum += mr.Score
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// MetricStats summarizes one metric's scores across a suite run.
type MetricStats struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// SuiteResult is the aggregated outcome of running one suite against
// one model. Aggregates are computed on demand from the case results,
// never stored, so they cannot go stale.
type SuiteResult struct {
	// SuiteName identifies the evaluated suite.
	SuiteName string `json:"suite_name"`

	// Model identifies the evaluated model.
	Model string `json:"model"`

	// RunID uniquely identifies this run for reporting.
	RunID string `json:"run_id,omitempty"`

	// CaseResults holds one entry per suite case, preserving the
	// suite's case ordering regardless of completion order.
	CaseResults []CaseResult `json:"case_results"`

	// StartedAt and FinishedAt bound the run's wall-clock duration.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TotalCases returns the number of evaluated cases.
func (sr SuiteResult) TotalCases() int { return len(sr.CaseResults) }

// PassedCases counts cases where every metric passed.
func (sr SuiteResult) PassedCases() int {
	n := 0
	for _, cr := range sr.CaseResults {
		if cr.Passed() {
			n++
		}
	}
	return n
}

// FailedCases counts cases with at least one failing or erroring metric.
func (sr SuiteResult) FailedCases() int { return sr.TotalCases() - sr.PassedCases() }

// CasePassRate is the fraction of cases where every metric passed.
func (sr SuiteResult) CasePassRate() float64 {
	if sr.TotalCases() == 0 {
		return 0.0
	}
	return float64(sr.PassedCases()) / float64(sr.TotalCases())
}

// PassRate is the fraction of individual metric results that passed.
// Error results count as failures rather than being excluded, so a
// flaky judge degrades the model's score instead of vanishing.
// Skipped results are excluded entirely. This is the rate used for
// cross-model ranking.
func (sr SuiteResult) PassRate() float64 {
	var passed, total int
	for _, cr := range sr.CaseResults {
		for _, mr := range cr.MetricResults {
			if mr.Verdict == VerdictSkip {
				continue
			}
			total++
			if mr.Verdict == VerdictPass {
				passed++
			}
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(passed) / float64(total)
}

// AvgScore is the mean of per-case average scores.
func (sr SuiteResult) AvgScore() float64 {
	if len(sr.CaseResults) == 0 {
		return 0.0
	}
	var sum float64
	for _, cr := range sr.CaseResults {
		sum += cr.AvgScore()
	}
	return sum / float64(len(sr.CaseResults))
}

// MeanScore is the mean across all individual non-skipped metric
// results. This is the tie-break value used for cross-model ranking.
func (sr SuiteResult) MeanScore() float64 {
	var sum float64
	var n int
	for _, cr := range sr.CaseResults {
		for _, mr := range cr.MetricResults {
			if mr.Verdict == VerdictSkip {
				continue
			}
			sum += mr.Score
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// AvgLatencyMS is the mean model latency across cases that produced a
// response.
func (sr SuiteResult) AvgLatencyMS() float64 {
	var sum float64
	var n int
	for _, cr := range sr.CaseResults {
		if cr.Response == nil {
			continue
		}
		sum += cr.Response.LatencyMS
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// TotalCostUSD sums the estimated cost of all model calls in the run.
func (sr SuiteResult) TotalCostUSD() float64 {
	var sum float64
	for _, cr := range sr.CaseResults {
		if cr.Response != nil {
			sum += cr.Response.CostUSD
		}
	}
	return sum
}

// MetricSummary aggregates scores by metric name across all cases.
// Skipped results are excluded; error results contribute zero scores.
func (sr SuiteResult) MetricSummary() map[string]MetricStats {
	scores := make(map[string][]float64)
	for _, cr := range sr.CaseResults {
		for _, mr := range cr.MetricResults {
			if mr.Verdict == VerdictSkip {
				continue
			}
			scores[mr.MetricName] = append(scores[mr.MetricName], mr.Score)
		}
	}

	summary := make(map[string]MetricStats, len(scores))
	for name, vals := range scores {
		stats := MetricStats{Min: vals[0], Max: vals[0], Count: len(vals)}
		var sum float64
		for _, v := range vals {
			sum += v
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
		}
		stats.Mean = sum / float64(len(vals))
		summary[name] = stats
	}
	return summary
}
