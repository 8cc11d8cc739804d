package ports

import (
	"context"
	"io"
	"time"

	"github.com/ahrav/go-evalkit/internal/domain"
)

// LLMClient defines the interface for interacting with Large Language
// Model providers. Implementations handle provider-specific details
// like authentication, request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider and
	// returns the generated text. The options map allows flexibility
	// for different providers without changing the interface. Common
	// options include:
	//   - "temperature": float64 (0.0-1.0)
	//   - "max_tokens": int
	//   - "model": string (specific model version)
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// CompleteWithUsage is Complete plus prompt/completion token counts
	// for cost accounting.
	CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (text string, tokensIn, tokensOut int, err error)

	// EstimateTokens calculates the approximate token count for a text.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations integrate with observability platforms like
// Prometheus or custom monitoring solutions. All methods must be safe
// for concurrent use; the runner reports from many goroutines.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric, e.g. cases evaluated,
	// adapter failures, or judge retries.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric, e.g. the
	// pass rate of the last completed run.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// Reporter renders a completed run for human or machine consumption.
// Reporters are external collaborators: they depend on the stability
// of the result schema but contribute nothing to execution.
type Reporter interface {
	// Report writes a rendering of the suite result to w.
	Report(w io.Writer, result domain.SuiteResult) error

	// ReportComparison writes a rendering of a multi-model comparison.
	ReportComparison(w io.Writer, result domain.ComparisonResult) error
}
