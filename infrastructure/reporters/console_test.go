package reporters

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func sampleSuiteResult() domain.SuiteResult {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.SuiteResult{
		SuiteName:  "geography",
		Model:      "gpt-4o-mini",
		RunID:      "abcd1234",
		StartedAt:  now,
		FinishedAt: now.Add(2 * time.Second),
		CaseResults: []domain.CaseResult{
			{
				Case:     domain.Case{ID: "c1", Input: "What is the capital of France?"},
				Response: &domain.ModelResponse{Text: "Paris", LatencyMS: 120, CostUSD: 0.001},
				MetricResults: []domain.MetricResult{
					{MetricName: "exact_match", Score: 1.0, Verdict: domain.VerdictPass, Threshold: 1.0},
				},
			},
			{
				Case:      domain.Case{ID: "c2", Input: "What is the capital of Spain?"},
				CaseError: "upstream timeout",
				MetricResults: []domain.MetricResult{
					{MetricName: "exact_match", Verdict: domain.VerdictError, Reason: "model call failed"},
				},
			},
		},
	}
}

func sampleComparison() domain.ComparisonResult {
	sr := sampleSuiteResult()
	other := sampleSuiteResult()
	other.Model = "claude-3-haiku"
	return domain.ComparisonResult{
		SuiteName: "geography",
		PerModel:  map[string]domain.SuiteResult{"gpt-4o-mini": sr, "claude-3-haiku": other},
		Ranking:   []string{"gpt-4o-mini", "claude-3-haiku"},
	}
}

func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(false).Report(&buf, sampleSuiteResult()))

	out := buf.String()
	assert.Contains(t, out, "Eval Report: geography")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "Pass Rate: 1/2 cases (50%)")
	assert.Contains(t, out, "exact_match")
	assert.NotContains(t, out, "Case Details", "non-verbose output omits per-case rows")
}

func TestConsoleReporter_VerboseReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(true).Report(&buf, sampleSuiteResult()))

	out := buf.String()
	assert.Contains(t, out, "Case Details")
	assert.Contains(t, out, "PASS Case 1")
	assert.Contains(t, out, "FAIL Case 2")
	assert.Contains(t, out, "upstream timeout")
}

func TestConsoleReporter_ReportComparison(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(false).ReportComparison(&buf, sampleComparison()))

	out := buf.String()
	assert.Contains(t, out, "Model Comparison: geography")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "claude-3-haiku")
	assert.Contains(t, out, "Best: gpt-4o-mini")
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "##########", scoreBar(1.0, 10))
	assert.Equal(t, "#####.....", scoreBar(0.5, 10))
	assert.Equal(t, "..........", scoreBar(0.0, 10))
	assert.Equal(t, "..........", scoreBar(-1, 10), "scores are clamped")
	assert.Equal(t, "##########", scoreBar(2, 10))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "multi line", preview("multi\nline", 20))
	assert.Equal(t, "abcde...", preview("abcdefgh", 5))
}
