package reporters

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Reporter = (*HTMLReporter)(nil)

// HTMLReporter renders a self-contained HTML page: no external assets,
// suitable for CI artifact uploads and email attachments.
type HTMLReporter struct {
	tmpl *template.Template
}

// NewHTMLReporter creates the reporter with its templates parsed.
func NewHTMLReporter() (*HTMLReporter, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct":   func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
		"score": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"ms":    func(v float64) string { return fmt.Sprintf("%.0fms", v) },
		"usd":   func(v float64) string { return fmt.Sprintf("$%.4f", v) },
	}).Parse(htmlReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse HTML report template: %w", err)
	}
	return &HTMLReporter{tmpl: tmpl}, nil
}

type htmlSuiteView struct {
	Result  domain.SuiteResult
	Summary suiteSummary
}

// Report renders the suite result page to w.
func (r *HTMLReporter) Report(w io.Writer, result domain.SuiteResult) error {
	view := htmlSuiteView{
		Result: result,
		Summary: suiteSummary{
			TotalCases:   result.TotalCases(),
			PassedCases:  result.PassedCases(),
			CasePassRate: result.CasePassRate(),
			PassRate:     result.PassRate(),
			AvgScore:     result.AvgScore(),
			AvgLatencyMS: result.AvgLatencyMS(),
			TotalCostUSD: result.TotalCostUSD(),
			Metrics:      result.MetricSummary(),
		},
	}
	return r.tmpl.ExecuteTemplate(w, "suite", view)
}

type htmlComparisonRow struct {
	Rank    int
	Model   string
	Summary suiteSummary
}

type htmlComparisonView struct {
	SuiteName string
	Best      string
	Rows      []htmlComparisonRow
}

// ReportComparison renders the ranked comparison page to w.
func (r *HTMLReporter) ReportComparison(w io.Writer, result domain.ComparisonResult) error {
	view := htmlComparisonView{SuiteName: result.SuiteName, Best: result.Best()}
	for i, name := range result.Ranking {
		sr := result.PerModel[name]
		view.Rows = append(view.Rows, htmlComparisonRow{
			Rank:  i + 1,
			Model: name,
			Summary: suiteSummary{
				TotalCases:   sr.TotalCases(),
				PassedCases:  sr.PassedCases(),
				CasePassRate: sr.CasePassRate(),
				PassRate:     sr.PassRate(),
				AvgScore:     sr.AvgScore(),
				AvgLatencyMS: sr.AvgLatencyMS(),
				TotalCostUSD: sr.TotalCostUSD(),
			},
		})
	}
	return r.tmpl.ExecuteTemplate(w, "comparison", view)
}

const htmlReportTemplate = `
{{define "style"}}
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 960px; color: #1a1a2e; }
  h1 { font-size: 1.4rem; } h2 { font-size: 1.1rem; margin-top: 2rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; }
  th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; font-size: 0.9rem; }
  th { background: #f4f4f8; }
  .pass { color: #1b7f3a; font-weight: 600; } .fail { color: #b3261e; font-weight: 600; }
  .error { color: #9a6700; font-weight: 600; } .skip { color: #666; }
  .muted { color: #666; font-size: 0.85rem; }
</style>
{{end}}

{{define "suite"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Eval Report: {{.Result.SuiteName}}</title>{{template "style"}}</head>
<body>
  <h1>Eval Report: {{.Result.SuiteName}}</h1>
  <p class="muted">Model: {{.Result.Model}} &middot; Run: {{.Result.RunID}}</p>

  <h2>Summary</h2>
  <table>
    <tr><th>Cases Passed</th><th>Metric Pass Rate</th><th>Avg Score</th><th>Avg Latency</th><th>Total Cost</th></tr>
    <tr>
      <td>{{.Summary.PassedCases}}/{{.Summary.TotalCases}} ({{pct .Summary.CasePassRate}})</td>
      <td>{{pct .Summary.PassRate}}</td>
      <td>{{score .Summary.AvgScore}}</td>
      <td>{{ms .Summary.AvgLatencyMS}}</td>
      <td>{{usd .Summary.TotalCostUSD}}</td>
    </tr>
  </table>

  {{if .Summary.Metrics}}
  <h2>Metrics</h2>
  <table>
    <tr><th>Metric</th><th>Mean</th><th>Min</th><th>Max</th><th>Count</th></tr>
    {{range $name, $stats := .Summary.Metrics}}
    <tr><td>{{$name}}</td><td>{{score $stats.Mean}}</td><td>{{score $stats.Min}}</td><td>{{score $stats.Max}}</td><td>{{$stats.Count}}</td></tr>
    {{end}}
  </table>
  {{end}}

  <h2>Cases</h2>
  <table>
    <tr><th>#</th><th>Input</th><th>Status</th><th>Metric Results</th></tr>
    {{range $i, $cr := .Result.CaseResults}}
    <tr>
      <td>{{$cr.Case.ID}}</td>
      <td>{{$cr.Case.Input}}</td>
      <td>{{if $cr.Passed}}<span class="pass">PASS</span>{{else}}<span class="fail">FAIL</span>{{end}}
          {{if $cr.CaseError}}<div class="muted">{{$cr.CaseError}}</div>{{end}}</td>
      <td>
        {{range $cr.MetricResults}}
          <div><span class="{{.Verdict}}">{{.Verdict}}</span> {{.MetricName}}: {{score .Score}} <span class="muted">{{.Reason}}</span></div>
        {{end}}
      </td>
    </tr>
    {{end}}
  </table>
</body>
</html>
{{end}}

{{define "comparison"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Model Comparison: {{.SuiteName}}</title>{{template "style"}}</head>
<body>
  <h1>Model Comparison: {{.SuiteName}}</h1>
  {{if .Best}}<p>Best model: <span class="pass">{{.Best}}</span></p>{{end}}
  <table>
    <tr><th>Rank</th><th>Model</th><th>Metric Pass Rate</th><th>Avg Score</th><th>Avg Latency</th><th>Total Cost</th></tr>
    {{range .Rows}}
    <tr>
      <td>{{.Rank}}</td>
      <td>{{.Model}}</td>
      <td>{{pct .Summary.PassRate}}</td>
      <td>{{score .Summary.AvgScore}}</td>
      <td>{{ms .Summary.AvgLatencyMS}}</td>
      <td>{{usd .Summary.TotalCostUSD}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>
{{end}}
`
