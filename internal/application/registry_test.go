package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

func stubFactory(name string) MetricFactory {
	return func(llm ports.LLMClient, config map[string]any) (ports.Metric, error) {
		return passMetric(name), nil
	}
}

func TestMetricRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewMetricRegistry()
	require.NoError(t, registry.Register("stub", stubFactory("stub")))

	assert.True(t, registry.Has("stub"))
	assert.False(t, registry.Has("missing"))

	metric, err := registry.Create("stub", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "stub", metric.Name())
}

func TestMetricRegistry_CreateUnknownType(t *testing.T) {
	registry := NewMetricRegistry()
	require.NoError(t, registry.Register("known", stubFactory("known")))

	_, err := registry.Create("unknown", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown metric type "unknown"`)
	assert.Contains(t, err.Error(), "known", "the error should list what is registered")
}

func TestMetricRegistry_RegisterValidation(t *testing.T) {
	registry := NewMetricRegistry()
	assert.Error(t, registry.Register("", stubFactory("x")))
	assert.Error(t, registry.Register("x", nil))
}

func TestMetricRegistry_ReRegisterReplaces(t *testing.T) {
	registry := NewMetricRegistry()
	require.NoError(t, registry.Register("m", stubFactory("first")))
	require.NoError(t, registry.Register("m", stubFactory("second")))

	metric, err := registry.Create("m", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", metric.Name())
}

func TestMetricRegistry_ListSorted(t *testing.T) {
	registry := NewMetricRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(name, stubFactory(name)))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.List())
}

func TestMetricRegistry_FactoryErrorsPropagate(t *testing.T) {
	registry := NewMetricRegistry()
	factoryErr := errors.New("missing keywords")
	require.NoError(t, registry.Register("strict", func(llm ports.LLMClient, config map[string]any) (ports.Metric, error) {
		return nil, factoryErr
	}))

	_, err := registry.Create("strict", nil, map[string]any{})
	assert.ErrorIs(t, err, factoryErr)
}

// Guard: factories receive the config and client they were called with.
func TestMetricRegistry_PassesArgumentsThrough(t *testing.T) {
	registry := NewMetricRegistry()
	var gotConfig map[string]any
	require.NoError(t, registry.Register("echo", func(llm ports.LLMClient, config map[string]any) (ports.Metric, error) {
		gotConfig = config
		return &stubMetric{name: "echo", scoreFn: func(ctx context.Context, c domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
			return domain.MetricResult{}, nil
		}}, nil
	}))

	_, err := registry.Create("echo", nil, map[string]any{"threshold": 0.9})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"threshold": 0.9}, gotConfig)
}
