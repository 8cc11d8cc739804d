package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-evalkit/infrastructure/adapters"
	"github.com/ahrav/go-evalkit/infrastructure/llm"
	"github.com/ahrav/go-evalkit/infrastructure/metrics"
	"github.com/ahrav/go-evalkit/infrastructure/middleware"
	"github.com/ahrav/go-evalkit/infrastructure/reporters"
	"github.com/ahrav/go-evalkit/internal/application"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// judgeMetrics lists the metrics that need an LLM client to score.
var judgeMetrics = map[string]bool{
	"faithfulness":     true,
	"answer_relevance": true,
	"hallucination":    true,
	"coherence":        true,
	"toxicity":         true,
	"correctness":      true,
}

type runFlags struct {
	name             string
	metricNames      []string
	metricConfigPath string
	models           []string
	judge            string
	staticPath       string
	format           string
	output           string
	verbose          bool
	concurrency      int
	timeoutPerCase   time.Duration
	judgeConcurrency int
	failUnder        float64
	metricsListen    string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <dataset>",
		Short: "Run an evaluation suite from a dataset file",
		Long: `Run loads cases from a dataset file (.json, .jsonl, .csv, .yaml),
scores each model response with the selected metrics, and renders a
report. With multiple --model flags the suite runs against every model
and the report ranks them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "suite name (defaults to the dataset file name)")
	cmd.Flags().StringSliceVar(&flags.metricNames, "metrics", []string{"exact_match"}, "comma-separated metric names")
	cmd.Flags().StringVar(&flags.metricConfigPath, "metric-config", "", "YAML/JSON file mapping metric name to its config")
	cmd.Flags().StringSliceVar(&flags.models, "model", nil, "model as provider/model, e.g. openai/gpt-4o-mini (repeatable)")
	cmd.Flags().StringVar(&flags.judge, "judge", "", "judge model as provider/model (defaults to the first --model)")
	cmd.Flags().StringVar(&flags.staticPath, "static", "", "JSON file mapping input to canned response; runs offline without a provider")
	cmd.Flags().StringVar(&flags.format, "report", "console", "report format: console, json, html")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "include per-case rows in the console report")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", application.DefaultConcurrency, "max cases evaluated in parallel")
	cmd.Flags().DurationVar(&flags.timeoutPerCase, "timeout", 0, "per-case timeout for the model call (0 = none)")
	cmd.Flags().IntVar(&flags.judgeConcurrency, "judge-concurrency", metrics.DefaultJudgeConcurrency, "max concurrent judge calls across all judge metrics")
	cmd.Flags().Float64Var(&flags.failUnder, "fail-under", 0, "exit non-zero when the case pass rate falls below this fraction")
	cmd.Flags().StringVar(&flags.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090) for the duration of the run")

	return cmd
}

func runSuite(cmd *cobra.Command, datasetPath string, flags runFlags) error {
	suite, err := application.LoadSuite(datasetPath)
	if err != nil {
		return err
	}
	if flags.name != "" {
		suite.Name = flags.name
	}

	judgeClient, err := buildJudgeClient(flags)
	if err != nil {
		return err
	}

	if err := addMetrics(suite, flags, judgeClient); err != nil {
		return err
	}

	entries, err := buildModelEntries(flags)
	if err != nil {
		return err
	}

	runnerOpts := []application.RunnerOption{application.WithLogger(slog.Default())}
	if flags.metricsListen != "" {
		collector, stop := serveMetrics(flags.metricsListen)
		defer stop()
		runnerOpts = append(runnerOpts, application.WithMetricsCollector(collector))
	}

	runner, err := application.NewRunner(application.RunnerConfig{
		Concurrency:    flags.concurrency,
		TimeoutPerCase: flags.timeoutPerCase,
	}, runnerOpts...)
	if err != nil {
		return err
	}

	reporter, err := buildReporter(flags)
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx := cmd.Context()
	if len(entries) > 1 {
		comparison, err := runner.RunComparison(ctx, suite, entries)
		if err != nil {
			return err
		}
		if err := reporter.ReportComparison(out, comparison); err != nil {
			return err
		}
		best := comparison.PerModel[comparison.Best()]
		return checkFailUnder(flags.failUnder, best.CasePassRate())
	}

	result, err := runner.Run(ctx, suite, entries[0].Adapter)
	if err != nil {
		return err
	}
	if err := reporter.Report(out, result); err != nil {
		return err
	}
	return checkFailUnder(flags.failUnder, result.CasePassRate())
}

// serveMetrics exposes a fresh Prometheus registry over HTTP so long
// evaluation runs can be watched from a dashboard or a curl loop. The
// returned stop function shuts the server down.
func serveMetrics(addr string) (ports.MetricsCollector, func()) {
	reg := prometheus.NewRegistry()
	collector := middleware.NewPrometheusMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	return collector, func() { _ = srv.Shutdown(context.Background()) }
}

func checkFailUnder(threshold, passRate float64) error {
	if threshold > 0 && passRate < threshold {
		return fmt.Errorf("pass rate %.0f%% below required %.0f%%", passRate*100, threshold*100)
	}
	return nil
}

// addMetrics resolves the requested metric names through the registry
// and attaches them to the suite.
func addMetrics(suite *application.Suite, flags runFlags, judgeClient ports.LLMClient) error {
	registry := application.NewMetricRegistry()
	budget := metrics.NewJudgeBudget(int64(flags.judgeConcurrency))
	if err := metrics.RegisterBuiltins(registry, budget); err != nil {
		return err
	}

	configs, err := loadMetricConfigs(flags.metricConfigPath)
	if err != nil {
		return err
	}

	for _, name := range flags.metricNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var client ports.LLMClient
		if judgeMetrics[name] {
			if judgeClient == nil {
				return fmt.Errorf("metric %q needs a judge model: set --judge or --model", name)
			}
			client = judgeClient
		}
		metric, err := registry.Create(name, client, configs[name])
		if err != nil {
			return err
		}
		suite.AddMetric(metric)
	}
	return nil
}

func loadMetricConfigs(path string) (map[string]map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metric config: %w", err)
	}
	configs := make(map[string]map[string]any)
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse metric config %s: %w", path, err)
	}
	return configs, nil
}

// buildModelEntries turns --model/--static flags into adapters. Static
// mode wins so suites can be replayed offline.
func buildModelEntries(flags runFlags) ([]application.ModelEntry, error) {
	if flags.staticPath != "" {
		data, err := os.ReadFile(flags.staticPath)
		if err != nil {
			return nil, fmt.Errorf("read static responses: %w", err)
		}
		responses := make(map[string]string)
		if err := json.Unmarshal(data, &responses); err != nil {
			return nil, fmt.Errorf("parse static responses %s: %w", flags.staticPath, err)
		}
		adapter := adapters.NewStaticAdapter("static", responses, "")
		return []application.ModelEntry{{Name: adapter.Name(), Adapter: adapter}}, nil
	}

	if len(flags.models) == 0 {
		return nil, fmt.Errorf("no model: set --model provider/model or --static responses.json")
	}

	entries := make([]application.ModelEntry, 0, len(flags.models))
	for _, spec := range flags.models {
		client, err := buildClient(spec)
		if err != nil {
			return nil, err
		}
		adapter, err := adapters.NewLLMAdapter(client)
		if err != nil {
			return nil, err
		}
		entries = append(entries, application.ModelEntry{Name: adapter.Name(), Adapter: adapter})
	}
	return entries, nil
}

func buildJudgeClient(flags runFlags) (ports.LLMClient, error) {
	needsJudge := false
	for _, name := range flags.metricNames {
		if judgeMetrics[strings.TrimSpace(name)] {
			needsJudge = true
			break
		}
	}
	if !needsJudge {
		return nil, nil
	}

	spec := flags.judge
	if spec == "" && len(flags.models) > 0 {
		spec = flags.models[0]
	}
	if spec == "" {
		return nil, fmt.Errorf("judge metrics requested but no judge model: set --judge provider/model")
	}
	return buildClient(spec)
}

// buildClient creates a provider client from a provider/model spec,
// pulling the API key from the provider's environment variable.
func buildClient(spec string) (*llm.Client, error) {
	provider, model, _ := strings.Cut(spec, "/")
	provider = strings.ToLower(strings.TrimSpace(provider))

	apiKey, err := apiKeyFor(provider)
	if err != nil {
		return nil, err
	}

	return llm.NewClient(provider, llm.ClientConfig{
		APIKey: apiKey,
		Model:  model,
		Middleware: []llm.Middleware{
			llm.RetryMiddleware(2, 500*time.Millisecond, 8*time.Second),
			llm.TimeoutMiddleware(60 * time.Second),
		},
	})
}

func apiKeyFor(provider string) (string, error) {
	var envVars []string
	switch provider {
	case "openai":
		envVars = []string{"OPENAI_API_KEY"}
	case "anthropic":
		envVars = []string{"ANTHROPIC_API_KEY"}
	case "google":
		envVars = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	default:
		return "", fmt.Errorf("unknown provider %q (want openai, anthropic, or google)", provider)
	}
	for _, name := range envVars {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("no API key for %s: set %s", provider, strings.Join(envVars, " or "))
}

func buildReporter(flags runFlags) (ports.Reporter, error) {
	switch flags.format {
	case "console":
		return reporters.NewConsoleReporter(flags.verbose), nil
	case "json":
		return reporters.NewJSONReporter(), nil
	case "html":
		return reporters.NewHTMLReporter()
	default:
		return nil, fmt.Errorf("unknown report format %q (want console, json, or html)", flags.format)
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
