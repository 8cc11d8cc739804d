// Package ports defines the core interfaces that form the contract
// between the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system
// testable.
package ports

import (
	"context"

	"github.com/ahrav/go-evalkit/internal/domain"
)

// ModelAdapter turns a case input into a model response. It is the
// capability under test: the runner invokes it once per (model, case)
// pair, and judge metrics use a second adapter as the grader.
//
// Implementations must be stateless or internally thread-safe; the
// runner invokes Respond concurrently from multiple goroutines.
type ModelAdapter interface {
	// Respond sends the input (plus optional retrieval context) to the
	// model and returns its response. Implementations should respect
	// context cancellation and surface timeouts as errors; the runner
	// converts adapter failures into per-case errors rather than
	// aborting the run.
	Respond(ctx context.Context, input string, contextText string) (domain.ModelResponse, error)

	// Name returns the adapter's model identifier for result labeling.
	Name() string
}

// Metric scores one (case, response) pair. The runner treats all
// metrics uniformly through this interface: local metrics compute
// synchronously and never suspend, judge metrics internally call a
// grading model. Only the judge variants hold an LLM client reference;
// the runner performs no runtime type inspection.
//
// Metrics must be stateless and safe for concurrent use: the runner
// scores all metrics of a case concurrently against the same response.
type Metric interface {
	// Name returns a unique identifier for this metric, used in result
	// rows, logging, and registry lookups.
	Name() string

	// Score evaluates the response for the given case. A failure to
	// execute should be returned as an error; the runner converts it
	// into an error-verdict MetricResult so one bad metric never
	// discards the rest of the run.
	Score(ctx context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error)

	// Validate checks the metric is properly configured and ready for
	// execution. It is called during suite validation, before any
	// model traffic is generated.
	Validate() error
}
