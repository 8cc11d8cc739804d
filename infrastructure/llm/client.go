// Package llm provides the model clients used by evaluation runs: the
// target models under test and the judge models that grade them. It
// abstracts OpenAI, Anthropic, and Google Gemini behind one interface
// and layers cross-cutting concerns (retry, timeout, rate limiting)
// through a middleware chain, so adapters and judge metrics never deal
// with provider specifics.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	text, err := client.Complete(ctx, "What is 2+2?", nil)
//
// With middleware:
//
//	client, err := llm.NewClient("anthropic", llm.ClientConfig{
//	    APIKey: key,
//	    Model:  "claude-3-5-sonnet-20241022",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(10, 20),
//	        llm.RetryMiddleware(2, 500*time.Millisecond, 8*time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ahrav/go-evalkit/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation, so resilience features compose
// without touching provider code.
type CoreLLM interface {
	// DoRequest sends a prompt and returns the response text plus input
	// and output token counts. The opts map carries provider-tunable
	// parameters such as temperature or max_tokens.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string

	// SetModel switches the model for subsequent requests.
	SetModel(model string)
}

// TokenEstimator approximates token counts when the provider does not
// report exact usage, for cost estimation before a call is made.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// ClientConfig holds everything needed to build a provider client.
type ClientConfig struct {
	// APIKey authenticates with the provider.
	APIKey string

	// Model selects the provider model; empty uses the provider default.
	Model string

	// BaseURL overrides the provider endpoint, e.g. for proxies or
	// local OpenAI-compatible servers.
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// TokenEstimator overrides the default character-based estimator.
	TokenEstimator TokenEstimator

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Middleware wraps a CoreLLM to add behavior around each request.
type Middleware func(CoreLLM) CoreLLM

// Client implements ports.LLMClient by delegating to a middleware-
// wrapped provider core.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient builds a client for the named provider ("openai",
// "anthropic", "google") and assembles its middleware chain.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}

	// Reverse order so the first configured middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = &SimpleTokenEstimator{}
	}

	return &Client{core: core, estimator: estimator}, nil
}

// NewClientFromCore wraps an existing CoreLLM (typically a mock) in
// the ports.LLMClient surface. Used by tests and custom providers.
func NewClientFromCore(core CoreLLM, middleware ...Middleware) *Client {
	for i := len(middleware) - 1; i >= 0; i-- {
		core = middleware[i](core)
	}
	return &Client{core: core, estimator: &SimpleTokenEstimator{}}
}

// Complete sends a prompt and returns only the response text.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.CompleteWithUsage(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response text plus
// token usage for cost accounting.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens approximates the token count of text.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the model name of the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SimpleTokenEstimator approximates tokens at four characters each,
// a reasonable heuristic for English text.
type SimpleTokenEstimator struct{}

// EstimateTokens returns the character-based approximation.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ProviderFactory builds a provider core from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory adds a provider under the given name,
// replacing any existing registration.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
