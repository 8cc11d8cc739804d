package llm

import "sync"

// DefaultMaxTokens bounds generation when the caller does not specify
// a limit. Judge answers and eval responses rarely need more.
const DefaultMaxTokens = 1024

// BaseProvider supplies thread-safe model-name management shared by
// the provider implementations.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the configured model name.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name for subsequent requests.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// RequestOptions is the standardized parameter set extracted from the
// untyped options map on each request.
type RequestOptions struct {
	// MaxTokens bounds the generation length.
	MaxTokens int
	// Model overrides the client's configured model for this request.
	Model string
	// Temperature controls sampling randomness; nil uses the provider
	// default.
	Temperature *float64
	// TopP enables nucleus sampling; nil uses the provider default.
	TopP *float64
	// System carries the system prompt, when the provider supports one.
	System string
	// Extra holds unrecognized provider-specific options.
	Extra map[string]any
}

// ParseRequestOptions extracts the standard parameters from an options
// map, applying defaults for anything missing or invalid. Unrecognized
// keys are preserved in Extra for provider-specific handling.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: DefaultMaxTokens,
		Model:     defaultModel,
		Extra:     make(map[string]any),
	}

	for key, raw := range opts {
		switch key {
		case "max_tokens":
			if n, ok := asInt(raw); ok && n > 0 {
				options.MaxTokens = n
			}
		case "model":
			if s, ok := raw.(string); ok && s != "" {
				options.Model = s
			}
		case "system":
			if s, ok := raw.(string); ok {
				options.System = s
			}
		case "temperature":
			if f, ok := asFloat64(raw); ok && f >= 0 && f <= 2 {
				options.Temperature = &f
			}
		case "top_p":
			if f, ok := asFloat64(raw); ok && f >= 0 && f <= 1 {
				options.TopP = &f
			}
		default:
			options.Extra[key] = raw
		}
	}

	return options
}

// TokenCounter estimates token counts when the provider omits usage
// data, at a configurable characters-per-token ratio.
type TokenCounter struct {
	// CharactersPerToken is the average token width; 4.0 approximates
	// English text.
	CharactersPerToken float64
}

// NewTokenCounter returns a counter with the English-text ratio.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the provider-reported count and falls back to
// estimation when the report is missing or zero.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}

func asFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// clampFloat64 restricts a value to [min, max].
func clampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
