package metrics

import (
	"fmt"

	"github.com/ahrav/go-evalkit/internal/application"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// RegisterBuiltins adds every built-in metric factory to the registry.
// Deterministic metrics ignore the LLM client; judge metrics require
// one and share the given budget. Config keys match the yaml tags of
// each metric's config struct.
func RegisterBuiltins(registry *application.MetricRegistry, budget *JudgeBudget) error {
	deterministic := map[string]application.MetricFactory{
		"exact_match": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			c := DefaultExactMatchConfig()
			c.CaseSensitive = boolOpt(config, "case_sensitive", c.CaseSensitive)
			c.TrimSpace = boolOpt(config, "trim_space", c.TrimSpace)
			c.Threshold = floatOpt(config, "threshold", c.Threshold)
			return NewExactMatch(c)
		},
		"contains_any": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			return NewContainsAny(KeywordConfig{
				Keywords:      stringsOpt(config, "keywords"),
				CaseSensitive: boolOpt(config, "case_sensitive", false),
				Threshold:     floatOpt(config, "threshold", 0.5),
			})
		},
		"contains_all": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			return NewContainsAll(KeywordConfig{
				Keywords:      stringsOpt(config, "keywords"),
				CaseSensitive: boolOpt(config, "case_sensitive", false),
				Threshold:     floatOpt(config, "threshold", 1.0),
			})
		},
		"regex_match": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			return NewRegexMatch(RegexMatchConfig{
				Pattern:       stringOpt(config, "pattern", ""),
				CaseSensitive: boolOpt(config, "case_sensitive", false),
				Threshold:     floatOpt(config, "threshold", 1.0),
			})
		},
		"fuzzy_match": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			c := DefaultFuzzyMatchConfig()
			c.CaseSensitive = boolOpt(config, "case_sensitive", c.CaseSensitive)
			c.TrimSpace = boolOpt(config, "trim_space", c.TrimSpace)
			c.Threshold = floatOpt(config, "threshold", c.Threshold)
			return NewFuzzyMatch(c)
		},
		"json_match": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			return NewJSONMatch(JSONMatchConfig{
				RequiredKeys: stringsOpt(config, "required_keys"),
				Schema:       stringOpt(config, "schema", ""),
				Threshold:    floatOpt(config, "threshold", 1.0),
			})
		},
		"length_range": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			c := DefaultLengthRangeConfig()
			c.MinChars = intOpt(config, "min_chars", c.MinChars)
			c.MaxChars = intOpt(config, "max_chars", c.MaxChars)
			c.Threshold = floatOpt(config, "threshold", c.Threshold)
			return NewLengthRange(c)
		},
		"latency": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			c := DefaultLatencyConfig()
			c.TargetMS = floatOpt(config, "target_ms", c.TargetMS)
			c.MaxMS = floatOpt(config, "max_ms", c.MaxMS)
			c.Threshold = floatOpt(config, "threshold", c.Threshold)
			return NewLatency(c)
		},
		"cost": func(_ ports.LLMClient, config map[string]any) (ports.Metric, error) {
			c := DefaultCostConfig()
			c.BudgetUSD = floatOpt(config, "budget_usd", c.BudgetUSD)
			c.MaxUSD = floatOpt(config, "max_usd", c.MaxUSD)
			c.Threshold = floatOpt(config, "threshold", c.Threshold)
			return NewCost(c)
		},
	}

	judges := map[string]func(ports.LLMClient, *JudgeBudget) (*Judge, error){
		"faithfulness":     NewFaithfulness,
		"answer_relevance": NewAnswerRelevance,
		"hallucination":    NewHallucination,
		"coherence":        NewCoherence,
		"toxicity":         NewToxicity,
		"correctness":      NewCorrectness,
	}

	for name, factory := range deterministic {
		if err := registry.Register(name, factory); err != nil {
			return err
		}
	}
	for name, build := range judges {
		err := registry.Register(name, func(llm ports.LLMClient, config map[string]any) (ports.Metric, error) {
			if llm == nil {
				return nil, fmt.Errorf("metric %q: %w", name, ErrNilLLMClient)
			}
			judge, err := build(llm, budget)
			if err != nil {
				return nil, err
			}
			if threshold, ok := config["threshold"]; ok {
				judge.config.Threshold = toFloat(threshold, judge.threshold)
				judge.threshold = judge.config.Threshold
			}
			return judge, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Config-map accessors. Dataset and CLI configs arrive as untyped maps
// from JSON or YAML, so numbers may be float64 or int.

func floatOpt(config map[string]any, key string, fallback float64) float64 {
	if config == nil {
		return fallback
	}
	if raw, ok := config[key]; ok {
		return toFloat(raw, fallback)
	}
	return fallback
}

func toFloat(raw any, fallback float64) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

func intOpt(config map[string]any, key string, fallback int) int {
	if config == nil {
		return fallback
	}
	if raw, ok := config[key]; ok {
		switch v := raw.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return fallback
}

func boolOpt(config map[string]any, key string, fallback bool) bool {
	if config == nil {
		return fallback
	}
	if v, ok := config[key].(bool); ok {
		return v
	}
	return fallback
}

func stringOpt(config map[string]any, key, fallback string) string {
	if config == nil {
		return fallback
	}
	if v, ok := config[key].(string); ok {
		return v
	}
	return fallback
}

func stringsOpt(config map[string]any, key string) []string {
	if config == nil {
		return nil
	}
	switch v := config[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
