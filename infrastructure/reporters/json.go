package reporters

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Reporter = (*JSONReporter)(nil)

// JSONReporter serializes results as a JSON document carrying a
// canonical-form digest. The digest is computed over the RFC 8785
// (JCS) canonicalization of the result, so two runs with identical
// outcomes produce byte-identical digests regardless of map ordering
// or whitespace, which makes result files diffable and tamper-evident.
type JSONReporter struct {
	// Indent pretty-prints the output when true.
	Indent bool
}

// NewJSONReporter creates a JSON reporter with pretty-printing on.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{Indent: true}
}

// jsonEnvelope wraps a serialized result with its canonical digest and
// the derived aggregates, which computed-on-demand methods do not
// carry through plain struct marshaling.
type jsonEnvelope struct {
	Result  json.RawMessage `json:"result"`
	Summary any             `json:"summary"`
	Digest  string          `json:"digest"`
}

type suiteSummary struct {
	TotalCases   int                           `json:"total_cases"`
	PassedCases  int                           `json:"passed_cases"`
	CasePassRate float64                       `json:"case_pass_rate"`
	PassRate     float64                       `json:"pass_rate"`
	AvgScore     float64                       `json:"avg_score"`
	AvgLatencyMS float64                       `json:"avg_latency_ms"`
	TotalCostUSD float64                       `json:"total_cost_usd"`
	Metrics      map[string]domain.MetricStats `json:"metrics"`
}

// Report writes the suite result with summary and digest to w.
func (r *JSONReporter) Report(w io.Writer, result domain.SuiteResult) error {
	summary := suiteSummary{
		TotalCases:   result.TotalCases(),
		PassedCases:  result.PassedCases(),
		CasePassRate: result.CasePassRate(),
		PassRate:     result.PassRate(),
		AvgScore:     result.AvgScore(),
		AvgLatencyMS: result.AvgLatencyMS(),
		TotalCostUSD: result.TotalCostUSD(),
		Metrics:      result.MetricSummary(),
	}
	return r.write(w, result, summary)
}

// ReportComparison writes the comparison result with digest to w.
func (r *JSONReporter) ReportComparison(w io.Writer, result domain.ComparisonResult) error {
	summaries := make(map[string]suiteSummary, len(result.PerModel))
	for name, sr := range result.PerModel {
		summaries[name] = suiteSummary{
			TotalCases:   sr.TotalCases(),
			PassedCases:  sr.PassedCases(),
			CasePassRate: sr.CasePassRate(),
			PassRate:     sr.PassRate(),
			AvgScore:     sr.AvgScore(),
			AvgLatencyMS: sr.AvgLatencyMS(),
			TotalCostUSD: sr.TotalCostUSD(),
			Metrics:      sr.MetricSummary(),
		}
	}
	return r.write(w, result, summaries)
}

func (r *JSONReporter) write(w io.Writer, result any, summary any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	digest, err := CanonicalDigest(raw)
	if err != nil {
		return fmt.Errorf("digest result: %w", err)
	}

	envelope := jsonEnvelope{Result: raw, Summary: summary, Digest: digest}

	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(envelope)
}

// CanonicalDigest canonicalizes JSON per RFC 8785 and returns the
// sha256 hex digest of the canonical form.
func CanonicalDigest(input []byte) (string, error) {
	canonical, err := jcs.Transform(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
