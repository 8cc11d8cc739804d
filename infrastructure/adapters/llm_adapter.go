package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.ModelAdapter = (*LLMAdapter)(nil)

// ErrNilClient indicates an adapter was constructed without a client.
var ErrNilClient = errors.New("LLM client cannot be nil")

// LLMAdapter exposes a ports.LLMClient as a model under test. It
// measures wall-clock latency, carries token usage through, and
// estimates the call cost from the pricing table.
type LLMAdapter struct {
	client  ports.LLMClient
	name    string
	options map[string]any
}

// LLMAdapterOption customizes adapter construction.
type LLMAdapterOption func(*LLMAdapter)

// WithName overrides the result label; default is the client's model.
func WithName(name string) LLMAdapterOption {
	return func(a *LLMAdapter) { a.name = name }
}

// WithOptions sets the request options (temperature, max_tokens) sent
// on every call.
func WithOptions(options map[string]any) LLMAdapterOption {
	return func(a *LLMAdapter) { a.options = options }
}

// NewLLMAdapter wraps an LLM client as a model adapter.
func NewLLMAdapter(client ports.LLMClient, opts ...LLMAdapterOption) (*LLMAdapter, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	a := &LLMAdapter{client: client, name: client.GetModel()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the model label used in results.
func (a *LLMAdapter) Name() string { return a.name }

// Respond sends the input to the model. Retrieval context, when
// present, is prepended so the model answers with it in scope.
func (a *LLMAdapter) Respond(ctx context.Context, input string, contextText string) (domain.ModelResponse, error) {
	prompt := input
	if contextText != "" {
		prompt = "Context:\n" + contextText + "\n\nQuestion:\n" + input
	}

	start := time.Now()
	text, tokensIn, tokensOut, err := a.client.CompleteWithUsage(ctx, prompt, a.options)
	if err != nil {
		return domain.ModelResponse{}, err
	}
	latency := time.Since(start)

	model := a.client.GetModel()
	return domain.ModelResponse{
		Text:             text,
		Model:            model,
		LatencyMS:        float64(latency.Microseconds()) / 1000.0,
		TokenCount:       tokensIn + tokensOut,
		PromptTokens:     tokensIn,
		CompletionTokens: tokensOut,
		CostUSD:          EstimateCost(model, tokensIn, tokensOut),
	}, nil
}
