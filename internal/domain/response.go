package domain

// ModelResponse is the output of one model invocation for one case.
// It is produced exactly once per (model, case) pair and treated as
// immutable by every metric that scores it.
type ModelResponse struct {
	// Text is the generated completion.
	Text string `json:"text"`

	// Model identifies which model produced this response.
	Model string `json:"model"`

	// LatencyMS measures the wall-clock duration of the call in
	// milliseconds.
	LatencyMS float64 `json:"latency_ms"`

	// TokenCount is the total token usage (prompt + completion).
	TokenCount int `json:"token_count,omitempty"`

	// PromptTokens and CompletionTokens break down token usage when the
	// provider reports it.
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`

	// CostUSD is the estimated cost of the call in US dollars.
	CostUSD float64 `json:"cost_usd,omitempty"`

	// Raw preserves the original provider response for debugging.
	// It is excluded from serialized output.
	Raw any `json:"-"`
}
