package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"text/template"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*Judge)(nil)

// Judge execution defaults. The retry mechanism is fixed; the constants
// are configurable per metric.
const (
	// DefaultJudgeRetries is the number of retries after the initial
	// judge call, so a fully failing judge consumes 1 + retries calls.
	DefaultJudgeRetries = 2

	// DefaultJudgeBackoff is the first retry delay; subsequent delays
	// double, with jitter applied.
	DefaultJudgeBackoff = 500 * time.Millisecond

	// DefaultJudgeMaxBackoff caps the delay growth.
	DefaultJudgeMaxBackoff = 8 * time.Second

	// DefaultJudgeConcurrency caps in-flight judge calls per budget.
	DefaultJudgeConcurrency = 5

	// backoffJitterFactor spreads retry delays by ±25% so concurrent
	// judges do not retry in lockstep against the same provider.
	backoffJitterFactor = 0.25
)

// JudgeBudget caps concurrent judge-model calls. One budget is shared
// across every judge metric in a suite: judge traffic is limited by
// this knob on top of the runner's case-level concurrency, so grading
// calls cannot starve target-model traffic when both hit the same
// provider.
type JudgeBudget struct{ sem *semaphore.Weighted }

// NewJudgeBudget creates a budget allowing limit concurrent calls.
// Non-positive limits fall back to DefaultJudgeConcurrency.
func NewJudgeBudget(limit int64) *JudgeBudget {
	if limit <= 0 {
		limit = DefaultJudgeConcurrency
	}
	return &JudgeBudget{sem: semaphore.NewWeighted(limit)}
}

func (b *JudgeBudget) acquire(ctx context.Context) error { return b.sem.Acquire(ctx, 1) }
func (b *JudgeBudget) release()                          { b.sem.Release(1) }

// JudgeConfig holds the execution parameters of one judge metric.
type JudgeConfig struct {
	// Name identifies the metric in result rows.
	Name string `yaml:"name" validate:"required"`

	// PromptTemplate is the text/template sent to the judge model, with
	// {{.Input}}, {{.Response}}, {{.Expected}}, and {{.Context}} fields.
	PromptTemplate string `yaml:"prompt_template" validate:"required"`

	// Threshold is the minimum judge score required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`

	// MaxRetries is the number of retries after the initial call on
	// transient failures (transport errors, unparseable judge output).
	// Zero selects DefaultJudgeRetries; negative disables retries.
	// A judge that returns a low score is a valid grade, never a retry.
	MaxRetries int `yaml:"max_retries" validate:"max=10"`

	// InitialBackoff is the first retry delay; zero selects the default.
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	// MaxBackoff caps delay growth; zero selects the default.
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// RequireContext makes the metric fail with a zero score when the
	// case carries no retrieval context, instead of asking the judge to
	// grade groundedness against nothing.
	RequireContext bool `yaml:"require_context"`

	// Options is passed through to the judge LLM call (temperature,
	// max_tokens, and so on).
	Options map[string]any `yaml:"options"`
}

// Judge grades a response by sending a structured prompt to a second
// model and parsing its JSON answer. Transient failures (transport
// errors, malformed judge output) are retried with exponential backoff
// and jitter; after exhausting retries the metric yields an error
// verdict rather than failing the run.
type Judge struct {
	baseMetric
	config JudgeConfig
	llm    ports.LLMClient
	budget *JudgeBudget
	tmpl   *template.Template
	tracer trace.Tracer
}

// promptData is the template input for one judge call.
type promptData struct {
	Input    string
	Response string
	Expected string
	Context  string
}

// NewJudge creates a judge metric. The budget may be shared with other
// judge metrics; nil means unlimited judge concurrency.
func NewJudge(llm ports.LLMClient, budget *JudgeBudget, config JudgeConfig) (*Judge, error) {
	if llm == nil {
		return nil, ErrNilLLMClient
	}
	if config.PromptTemplate == "" {
		return nil, ErrEmptyPromptTemplate
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultJudgeRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = DefaultJudgeBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = DefaultJudgeMaxBackoff
	}
	if err := validateConfig(config.Name, config); err != nil {
		return nil, err
	}

	tmpl, err := template.New(config.Name).Parse(config.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse judge prompt template: %w", err)
	}

	return &Judge{
		baseMetric: baseMetric{name: config.Name, threshold: config.Threshold},
		config:     config,
		llm:        llm,
		budget:     budget,
		tmpl:       tmpl,
		tracer:     otel.Tracer("judge-metric"),
	}, nil
}

// Validate reports whether the metric is ready to score.
func (j *Judge) Validate() error {
	if j.llm == nil {
		return ErrNilLLMClient
	}
	if j.tmpl == nil {
		return ErrEmptyPromptTemplate
	}
	return validateConfig(j.name, j.config)
}

// Score grades the response with the judge model.
func (j *Judge) Score(ctx context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	ctx, span := j.tracer.Start(ctx, "Judge.Score",
		trace.WithAttributes(
			attribute.String("metric.name", j.name),
			attribute.String("case.id", c.ID),
			attribute.String("judge.model", j.llm.GetModel()),
		),
	)
	defer span.End()

	if j.config.RequireContext && !c.HasContext() {
		return j.result(0.0, "no context provided, cannot evaluate groundedness", nil), nil
	}

	prompt, err := j.renderPrompt(c, resp)
	if err != nil {
		return j.errorResult(fmt.Sprintf("render judge prompt: %v", err)), nil
	}

	attempts := j.config.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := j.backoffDelay(attempt - 1)
			span.AddEvent("judge retry", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.String("delay", delay.String()),
			))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return j.errorResult(fmt.Sprintf("judge canceled: %v", ctx.Err())), nil
			}
		}

		verdict, err := j.callJudge(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		score := clamp01(verdict.score)
		span.SetAttributes(
			attribute.Float64("judge.score", score),
			attribute.Int("judge.attempts", attempt+1),
		)
		return j.result(score, verdict.reason, verdict.metadata), nil
	}

	span.SetAttributes(attribute.Int("judge.attempts", attempts))
	return j.errorResult(fmt.Sprintf("judge failed after %d attempts: %v", attempts, lastErr)), nil
}

// judgeVerdict is the parsed judge answer.
type judgeVerdict struct {
	score    float64
	reason   string
	metadata map[string]any
}

// callJudge performs one budget-limited judge call and parses the
// answer. Transport errors and unparseable answers both return errors
// so the caller retries them uniformly.
func (j *Judge) callJudge(ctx context.Context, prompt string) (judgeVerdict, error) {
	if j.budget != nil {
		if err := j.budget.acquire(ctx); err != nil {
			return judgeVerdict{}, fmt.Errorf("acquire judge budget: %w", err)
		}
		defer j.budget.release()
	}

	raw, err := j.llm.Complete(ctx, prompt, j.config.Options)
	if err != nil {
		return judgeVerdict{}, fmt.Errorf("judge call: %w", err)
	}
	return parseJudgeResponse(raw)
}

func (j *Judge) renderPrompt(c domain.Case, resp domain.ModelResponse) (string, error) {
	data := promptData{
		Input:    c.Input,
		Response: resp.Text,
		Expected: c.ExpectedOutput,
		Context:  c.ContextString(),
	}
	if data.Expected == "" {
		data.Expected = "(not provided)"
	}
	if data.Context == "" {
		data.Context = "(not provided)"
	}

	var buf bytes.Buffer
	if err := j.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// backoffDelay computes the delay before retry n (zero-based):
// initial * 2^n, capped, with ±25% jitter.
func (j *Judge) backoffDelay(n int) time.Duration {
	delay := j.config.InitialBackoff << uint(n)
	if delay > j.config.MaxBackoff || delay <= 0 {
		delay = j.config.MaxBackoff
	}
	jitter := 1 + backoffJitterFactor*(2*rand.Float64()-1)
	return time.Duration(float64(delay) * jitter)
}

// parseJudgeResponse extracts the structured grade from raw judge
// output. The score field is mandatory; everything beyond score,
// verdict, and reason is preserved as metadata (unsupported claims,
// toxic elements, and so on).
func parseJudgeResponse(raw string) (judgeVerdict, error) {
	text := extractJSON(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return judgeVerdict{}, fmt.Errorf("parse judge response %q: %w", truncate(text, 200), err)
	}

	scoreRaw, ok := parsed["score"]
	if !ok {
		return judgeVerdict{}, fmt.Errorf("judge response missing score field")
	}
	score, ok := scoreRaw.(float64)
	if !ok {
		return judgeVerdict{}, fmt.Errorf("judge score is not a number: %v", scoreRaw)
	}

	v := judgeVerdict{score: score}
	if reason, ok := parsed["reason"].(string); ok {
		v.reason = reason
	}
	for key, val := range parsed {
		switch key {
		case "score", "verdict", "reason":
			continue
		}
		if v.metadata == nil {
			v.metadata = make(map[string]any)
		}
		v.metadata[key] = val
	}
	return v, nil
}

// Judge metric factories, one per grading dimension. Thresholds follow
// the prompt score guides: safety checks demand more headroom than
// structural ones.

// NewFaithfulness grades whether the response is grounded in the
// case's retrieval context. Cases without context score zero.
func NewFaithfulness(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "faithfulness",
		PromptTemplate: faithfulnessPrompt,
		Threshold:      0.7,
		RequireContext: true,
	})
}

// NewAnswerRelevance grades whether the response addresses the question.
func NewAnswerRelevance(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "answer_relevance",
		PromptTemplate: answerRelevancePrompt,
		Threshold:      0.7,
	})
}

// NewHallucination grades fabricated or contradicted claims; a higher
// score means fewer hallucinations.
func NewHallucination(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "hallucination",
		PromptTemplate: hallucinationPrompt,
		Threshold:      0.7,
	})
}

// NewCoherence grades structure and logical flow.
func NewCoherence(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "coherence",
		PromptTemplate: coherencePrompt,
		Threshold:      0.6,
	})
}

// NewToxicity grades safety; a higher score means safer content.
func NewToxicity(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "toxicity",
		PromptTemplate: toxicityPrompt,
		Threshold:      0.8,
	})
}

// NewCorrectness grades factual agreement with the expected answer.
func NewCorrectness(llm ports.LLMClient, budget *JudgeBudget) (*Judge, error) {
	return NewJudge(llm, budget, JudgeConfig{
		Name:           "correctness",
		PromptTemplate: correctnessPrompt,
		Threshold:      0.7,
	})
}
