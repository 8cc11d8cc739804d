// Package adapters connects LLM clients to the evaluation runner: it
// implements ports.ModelAdapter on top of ports.LLMClient with latency
// and cost accounting, plus a deterministic static adapter for tests
// and offline runs.
package adapters

import (
	"sort"
	"strings"
)

// modelPrice holds per-1K-token prices in USD.
type modelPrice struct {
	input  float64
	output float64
}

// pricing maps model-name fragments to approximate per-1K-token USD
// prices. Matching is by substring against the lowercased model name.
var pricing = map[string]modelPrice{
	"gpt-4":             {input: 0.03, output: 0.06},
	"gpt-4-turbo":       {input: 0.01, output: 0.03},
	"gpt-4o":            {input: 0.005, output: 0.015},
	"gpt-4o-mini":       {input: 0.00015, output: 0.0006},
	"gpt-3.5-turbo":     {input: 0.0005, output: 0.0015},
	"claude-3-5-sonnet": {input: 0.003, output: 0.015},
	"claude-3-haiku":    {input: 0.00025, output: 0.00125},
	"claude-3-opus":     {input: 0.015, output: 0.075},
	"gemini-2.0-flash":  {input: 0.0001, output: 0.0004},
	"gemini-1.5-pro":    {input: 0.00125, output: 0.005},
}

// pricingKeys holds the pricing table keys sorted longest first, so
// "gpt-4o-mini" matches its own entry before the "gpt-4" prefix.
var pricingKeys = func() []string {
	keys := make([]string, 0, len(pricing))
	for k := range pricing {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// EstimateCost returns the approximate USD cost of one call. Unknown
// models cost zero, which keeps local and mock models free.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	lower := strings.ToLower(model)
	for _, key := range pricingKeys {
		if strings.Contains(lower, key) {
			p := pricing[key]
			return float64(promptTokens)/1000*p.input + float64(completionTokens)/1000*p.output
		}
	}
	return 0.0
}
