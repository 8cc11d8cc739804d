package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// DefaultConcurrency bounds in-flight case evaluations when no explicit
// limit is configured.
const DefaultConcurrency = 5

// RunnerConfig holds the tunables for suite execution. Every recognized
// option and its effect is enumerated here; there are no hidden knobs.
type RunnerConfig struct {
	// Concurrency bounds the number of cases in flight at any moment.
	// Judge metrics carry their own distinct limit (see metrics.JudgeBudget),
	// so judge traffic cannot starve target-model traffic by exhausting
	// this budget alone. Default: DefaultConcurrency.
	Concurrency int `validate:"min=1,max=1024"`

	// TimeoutPerCase bounds the model-adapter call for a single case.
	// Zero means no timeout. The timeout covers only the adapter call,
	// not metric scoring; a timed-out case is recorded as a case error
	// and the rest of the run proceeds.
	TimeoutPerCase time.Duration

	// MaxParallelModels bounds how many models run at once during a
	// comparison. Zero means all models run concurrently, each still
	// internally bounded by Concurrency. This is the recommended global
	// cap for comparisons that hit a shared provider.
	MaxParallelModels int `validate:"min=0,max=64"`
}

// DefaultRunnerConfig returns a RunnerConfig with production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{Concurrency: DefaultConcurrency}
}

// Runner executes evaluation suites against model adapters. It owns the
// lifecycle of every result object it creates for one invocation and
// never mutates a case; adapters and metrics are supplied by the caller
// and used read-only.
//
// The central failure-isolation contract: one bad case or one bad
// metric never discards the rest of the run. Only configuration errors
// escape Run as returned errors; every per-case and per-metric failure
// is captured inside the result structures, so a run always completes
// with a full SuiteResult.
type Runner struct {
	config    RunnerConfig
	logger    *slog.Logger
	tracer    trace.Tracer
	collector ports.MetricsCollector
}

// RunnerOption customizes runner construction.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger used for run progress.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithMetricsCollector installs an operational metrics sink. The
// runner records case latencies, adapter failures, and run pass rates.
func WithMetricsCollector(collector ports.MetricsCollector) RunnerOption {
	return func(r *Runner) { r.collector = collector }
}

// NewRunner creates a runner with the given configuration.
// Returns a ConfigurationError if the configuration is invalid;
// validation happens here so a bad limit fails before any execution.
func NewRunner(config RunnerConfig, opts ...RunnerOption) (*Runner, error) {
	if config.Concurrency == 0 {
		config.Concurrency = DefaultConcurrency
	}
	if config.Concurrency < 1 {
		return nil, domain.NewConfigurationError("runner", domain.ErrInvalidConcurrency)
	}
	if err := validate.Struct(config); err != nil {
		return nil, domain.NewConfigurationError("runner", err)
	}

	r := &Runner{
		config: config,
		logger: slog.Default(),
		tracer: otel.Tracer("eval-runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the suite against a single model adapter and returns the
// aggregated result. Cases execute with bounded concurrency; the output
// CaseResult order equals the input case order regardless of completion
// order, because each case writes into its own pre-sized slot.
//
// An empty suite yields an empty SuiteResult, not an error. The only
// error Run returns is a ConfigurationError from suite validation.
func (r *Runner) Run(ctx context.Context, suite *Suite, adapter ports.ModelAdapter) (domain.SuiteResult, error) {
	if err := suite.Validate(); err != nil {
		return domain.SuiteResult{}, err
	}

	modelName := adapter.Name()
	ctx, span := r.tracer.Start(ctx, "Runner.Run",
		trace.WithAttributes(
			attribute.String("suite.name", suite.Name),
			attribute.String("model.name", modelName),
			attribute.Int("suite.cases", len(suite.Cases)),
			attribute.Int("suite.metrics", len(suite.Metrics)),
			attribute.Int("runner.concurrency", r.config.Concurrency),
		),
	)
	defer span.End()

	r.logger.Info("starting eval",
		"suite", suite.Name,
		"model", modelName,
		"cases", len(suite.Cases),
		"metrics", len(suite.Metrics),
		"concurrency", r.config.Concurrency,
	)

	result := domain.SuiteResult{
		SuiteName:   suite.Name,
		Model:       modelName,
		RunID:       newRunID(),
		CaseResults: make([]domain.CaseResult, len(suite.Cases)),
		StartedAt:   time.Now(),
	}

	cases := suite.normalizedCases()

	// Case goroutines never return errors: every failure is captured in
	// the case's own slot. The group exists for its concurrency limit
	// and completion barrier.
	g := new(errgroup.Group)
	g.SetLimit(r.config.Concurrency)

	for i, c := range cases {
		g.Go(func() error {
			result.CaseResults[i] = r.evalCase(ctx, c, suite.Metrics, adapter)
			return nil
		})
	}
	_ = g.Wait()

	result.FinishedAt = time.Now()

	passRate := result.PassRate()
	span.SetAttributes(
		attribute.Float64("eval.pass_rate", passRate),
		attribute.Float64("eval.avg_score", result.AvgScore()),
	)
	if r.collector != nil {
		labels := map[string]string{"suite": suite.Name, "model": modelName}
		r.collector.RecordGauge("eval_run_pass_rate", passRate, labels)
		r.collector.RecordLatency("suite_run", result.FinishedAt.Sub(result.StartedAt), labels)
	}

	r.logger.Info("eval complete",
		"suite", suite.Name,
		"model", modelName,
		"passed", result.PassedCases(),
		"total", result.TotalCases(),
		"pass_rate", fmt.Sprintf("%.1f%%", passRate*100),
		"avg_score", fmt.Sprintf("%.2f", result.AvgScore()),
	)

	return result, nil
}

// evalCase evaluates one case: one adapter call, then every suite
// metric scored concurrently against the response. All failures are
// converted into result fields; evalCase never fails.
func (r *Runner) evalCase(ctx context.Context, c domain.Case, metrics []ports.Metric, adapter ports.ModelAdapter) domain.CaseResult {
	ctx, span := r.tracer.Start(ctx, "Runner.evalCase",
		trace.WithAttributes(attribute.String("case.id", c.ID)),
	)
	defer span.End()

	resp, err := r.callAdapter(ctx, c, adapter)
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("model call failed", "case", c.ID, "error", err)
		if r.collector != nil {
			r.collector.RecordCounter("eval_adapter_failures_total", 1,
				map[string]string{"model": adapter.Name()})
		}

		// No response: synthesize an error result per configured metric
		// so reporting still shows a row per metric per case.
		synthesized := make([]domain.MetricResult, len(metrics))
		for j, m := range metrics {
			synthesized[j] = domain.ErrorMetricResult(m.Name(),
				fmt.Sprintf("model call failed: %v", err))
			synthesized[j].Threshold = metricThreshold(m)
		}
		return domain.CaseResult{
			Case:          c,
			MetricResults: synthesized,
			CaseError:     err.Error(),
		}
	}

	return domain.CaseResult{
		Case:          c,
		Response:      &resp,
		MetricResults: r.scoreMetrics(ctx, c, resp, metrics),
	}
}

// callAdapter invokes the model adapter with the configured per-case
// timeout. The timeout aborts only this call; it is recorded as a case
// failure and does not cancel sibling cases.
func (r *Runner) callAdapter(ctx context.Context, c domain.Case, adapter ports.ModelAdapter) (domain.ModelResponse, error) {
	if r.config.TimeoutPerCase > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.TimeoutPerCase)
		defer cancel()
	}

	start := time.Now()
	resp, err := adapter.Respond(ctx, c.Input, c.ContextString())
	if err != nil {
		return domain.ModelResponse{}, err
	}
	if resp.LatencyMS == 0 {
		resp.LatencyMS = float64(time.Since(start).Microseconds()) / 1000.0
	}
	if r.collector != nil {
		r.collector.RecordLatency("model_call", time.Since(start),
			map[string]string{"model": adapter.Name()})
	}
	return resp, nil
}

// scoreMetrics runs every metric concurrently against the same
// response. Metrics are independent read-only consumers, so local
// metrics never wait on judge-metric network calls. A metric that
// returns an error or panics is isolated into an error-verdict result
// in its own slot; sibling metrics are unaffected.
func (r *Runner) scoreMetrics(ctx context.Context, c domain.Case, resp domain.ModelResponse, metrics []ports.Metric) []domain.MetricResult {
	results := make([]domain.MetricResult, len(metrics))

	g := new(errgroup.Group)
	for j, m := range metrics {
		g.Go(func() error {
			results[j] = r.scoreOne(ctx, m, c, resp)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// scoreOne executes a single metric, converting errors and panics into
// error-verdict results.
func (r *Runner) scoreOne(ctx context.Context, m ports.Metric, c domain.Case, resp domain.ModelResponse) (result domain.MetricResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("metric panicked", "metric", m.Name(), "case", c.ID, "panic", rec)
			result = domain.ErrorMetricResult(m.Name(), fmt.Sprintf("metric panicked: %v", rec))
			result.Threshold = metricThreshold(m)
		}
	}()

	start := time.Now()
	mr, err := m.Score(ctx, c, resp)
	if err != nil {
		r.logger.Warn("metric failed", "metric", m.Name(), "case", c.ID, "error", err)
		result = domain.ErrorMetricResult(m.Name(), fmt.Sprintf("metric error: %v", err))
		result.Threshold = metricThreshold(m)
		return result
	}
	if r.collector != nil {
		r.collector.RecordLatency("metric_score", time.Since(start),
			map[string]string{"metric": m.Name()})
	}
	return mr
}

// thresholder is implemented by metrics that expose their pass/fail
// cutoff; synthesized error results reuse it so reports stay uniform.
type thresholder interface{ Threshold() float64 }

func metricThreshold(m ports.Metric) float64 {
	if t, ok := m.(thresholder); ok {
		return t.Threshold()
	}
	return 0.0
}

// newRunID returns a short random identifier for one run.
func newRunID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b[:])
}

// Package-level validator instance for configuration validation.
var validate = validator.New()
