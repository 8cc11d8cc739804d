package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/infrastructure/llm"
	"github.com/ahrav/go-evalkit/internal/application"
	"github.com/ahrav/go-evalkit/internal/domain"
)

func builtinsRegistry(t *testing.T) *application.MetricRegistry {
	t.Helper()
	registry := application.NewMetricRegistry()
	require.NoError(t, RegisterBuiltins(registry, NewJudgeBudget(2)))
	return registry
}

func TestRegisterBuiltins_RegistersEverything(t *testing.T) {
	registry := builtinsRegistry(t)

	expected := []string{
		"answer_relevance", "coherence", "contains_all", "contains_any",
		"correctness", "cost", "exact_match", "faithfulness", "fuzzy_match",
		"hallucination", "json_match", "latency", "length_range",
		"regex_match", "toxicity",
	}
	assert.Equal(t, expected, registry.List())
}

func TestRegisterBuiltins_DeterministicWithConfig(t *testing.T) {
	registry := builtinsRegistry(t)

	metric, err := registry.Create("contains_any", nil, map[string]any{
		"keywords":  []any{"alpha", "beta"},
		"threshold": 1.0,
	})
	require.NoError(t, err)

	mr, err := metric.Score(context.Background(), domain.Case{Input: "q"}, response("alpha only"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictFail, mr.Verdict, "configured threshold 1.0 overrides the default")
}

func TestRegisterBuiltins_JudgeRequiresClient(t *testing.T) {
	registry := builtinsRegistry(t)

	_, err := registry.Create("correctness", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilLLMClient)

	client := llm.NewClientFromCore(llm.NewMockCoreLLM())
	metric, err := registry.Create("correctness", client, nil)
	require.NoError(t, err)
	assert.Equal(t, "correctness", metric.Name())
}

func TestRegisterBuiltins_JudgeThresholdOverride(t *testing.T) {
	registry := builtinsRegistry(t)
	client := llm.NewClientFromCore(llm.NewMockCoreLLM())

	metric, err := registry.Create("coherence", client, map[string]any{"threshold": 0.9})
	require.NoError(t, err)

	judge, ok := metric.(*Judge)
	require.True(t, ok)
	assert.InDelta(t, 0.9, judge.Threshold(), 1e-9)
}

func TestConfigAccessors(t *testing.T) {
	config := map[string]any{
		"f_float":  0.25,
		"f_int":    3,
		"b":        true,
		"s":        "hello",
		"list_any": []any{"a", "b", 7},
	}

	assert.InDelta(t, 0.25, floatOpt(config, "f_float", 0), 1e-9)
	assert.InDelta(t, 3.0, floatOpt(config, "f_int", 0), 1e-9, "JSON/YAML ints coerce to float")
	assert.InDelta(t, 0.5, floatOpt(config, "absent", 0.5), 1e-9)
	assert.InDelta(t, 0.5, floatOpt(nil, "anything", 0.5), 1e-9)

	assert.Equal(t, 3, intOpt(config, "f_int", 0))
	assert.True(t, boolOpt(config, "b", false))
	assert.Equal(t, "hello", stringOpt(config, "s", ""))
	assert.Equal(t, []string{"a", "b"}, stringsOpt(config, "list_any"),
		"non-string list entries are dropped")
}
