package reporters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLReporter_Report(t *testing.T) {
	r, err := NewHTMLReporter()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, sampleSuiteResult()))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Eval Report: geography")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, `<span class="pass">PASS</span>`)
	assert.Contains(t, out, `<span class="fail">FAIL</span>`)
	assert.Contains(t, out, "upstream timeout")
}

func TestHTMLReporter_ReportEscapesInput(t *testing.T) {
	r, err := NewHTMLReporter()
	require.NoError(t, err)

	result := sampleSuiteResult()
	result.CaseResults[0].Case.Input = `<script>alert("x")</script>`

	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, result))

	out := buf.String()
	assert.NotContains(t, out, `<script>alert`)
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHTMLReporter_ReportComparison(t *testing.T) {
	r, err := NewHTMLReporter()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.ReportComparison(&buf, sampleComparison()))

	out := buf.String()
	assert.Contains(t, out, "Model Comparison: geography")
	assert.Contains(t, out, "claude-3-haiku")
	assert.Contains(t, out, "Best model:")
}
