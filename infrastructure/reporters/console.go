// Package reporters renders completed evaluation runs: a formatted
// console view, a canonical JSON document with an integrity digest,
// and a self-contained HTML report.
package reporters

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Reporter = (*ConsoleReporter)(nil)

// ConsoleReporter writes a human-readable summary: run header,
// aggregate stats, per-metric score bars, and (verbosely) per-case
// verdict rows.
type ConsoleReporter struct {
	// Verbose adds a row per metric per case after the summary.
	Verbose bool
}

// NewConsoleReporter creates a console reporter.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{Verbose: verbose}
}

// Report writes the formatted suite result to w.
func (r *ConsoleReporter) Report(w io.Writer, result domain.SuiteResult) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "  Eval Report: %s\n", result.SuiteName)
	fmt.Fprintf(&b, "  Model: %s | Run: %s\n", result.Model, result.RunID)
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "  Pass Rate: %d/%d cases (%.0f%%), %.0f%% of metric checks\n",
		result.PassedCases(), result.TotalCases(),
		result.CasePassRate()*100, result.PassRate()*100)
	fmt.Fprintf(&b, "  Avg Score: %.2f\n", result.AvgScore())
	fmt.Fprintf(&b, "  Avg Latency: %.0fms\n", result.AvgLatencyMS())
	if cost := result.TotalCostUSD(); cost > 0 {
		fmt.Fprintf(&b, "  Total Cost: $%.4f\n", cost)
	}
	b.WriteString("\n")

	if summary := result.MetricSummary(); len(summary) > 0 {
		b.WriteString("  Metrics:\n")
		fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 50))
		for _, name := range sortedKeys(summary) {
			stats := summary[name]
			fmt.Fprintf(&b, "  %-25s %s %.2f  (min=%.2f, max=%.2f)\n",
				name, scoreBar(stats.Mean, 10), stats.Mean, stats.Min, stats.Max)
		}
		b.WriteString("\n")
	}

	if r.Verbose {
		b.WriteString("  Case Details:\n")
		fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 50))
		for i, cr := range result.CaseResults {
			fmt.Fprintf(&b, "  %s Case %d: %s\n",
				caseIcon(cr), i+1, preview(cr.Case.Input, 60))
			if cr.CaseError != "" {
				fmt.Fprintf(&b, "     ! model error: %s\n", preview(cr.CaseError, 80))
			}
			for _, mr := range cr.MetricResults {
				fmt.Fprintf(&b, "     %s %s: %.2f - %s\n",
					verdictIcon(mr.Verdict), mr.MetricName, mr.Score, preview(mr.Reason, 80))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// ReportComparison writes a ranked model table to w.
func (r *ConsoleReporter) ReportComparison(w io.Writer, result domain.ComparisonResult) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "  Model Comparison: %s\n", result.SuiteName)
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "  %-4s %-24s %10s %10s %10s %10s\n",
		"Rank", "Model", "Pass Rate", "Avg Score", "Latency", "Cost")
	fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 66))

	for i, name := range result.Ranking {
		sr := result.PerModel[name]
		fmt.Fprintf(&b, "  %-4d %-24s %9.0f%% %10.2f %8.0fms $%8.4f\n",
			i+1, name, sr.PassRate()*100, sr.AvgScore(), sr.AvgLatencyMS(), sr.TotalCostUSD())
	}

	if best := result.Best(); best != "" {
		fmt.Fprintf(&b, "\n  Best: %s\n", best)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func scoreBar(score float64, width int) string {
	filled := int(score * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func caseIcon(cr domain.CaseResult) string {
	if cr.Passed() {
		return "PASS"
	}
	return "FAIL"
}

func verdictIcon(v domain.Verdict) string {
	switch v {
	case domain.VerdictPass:
		return "+"
	case domain.VerdictFail:
		return "x"
	case domain.VerdictSkip:
		return "~"
	default:
		return "!"
	}
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func sortedKeys(m map[string]domain.MetricStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
