package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockCoreLLM is a configurable CoreLLM for tests: it controls the
// response, failure schedule, and timing, and records every call so
// tests can assert on retry counts and pacing.
type MockCoreLLM struct {
	mu sync.Mutex

	// Response configuration.
	Response      string
	TokensIn      int
	TokensOut     int
	Err           error
	Model         string
	ResponseDelay time.Duration

	// FailUntilAttempt fails the first N calls, then succeeds. Combined
	// with retry logic this exercises the recover-after-transient path.
	FailUntilAttempt int

	// ResponseFn, when set, computes the response from the prompt and
	// overrides Response. Useful for judge mocks that answer per prompt.
	ResponseFn func(prompt string) (string, error)

	// Call tracking.
	CallCount      int
	LastPrompt     string
	LastOpts       map[string]any
	Prompts        []string
	CallTimestamps []time.Time
}

// NewMockCoreLLM returns a mock that always succeeds with a canned
// response.
func NewMockCoreLLM() *MockCoreLLM {
	return &MockCoreLLM{
		Response:  "test response",
		TokensIn:  10,
		TokensOut: 20,
		Model:     "test-model",
	}
}

// DoRequest implements CoreLLM with the configured behavior.
func (m *MockCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	m.mu.Lock()
	m.CallCount++
	call := m.CallCount
	m.LastPrompt = prompt
	m.LastOpts = opts
	m.Prompts = append(m.Prompts, prompt)
	m.CallTimestamps = append(m.CallTimestamps, time.Now())
	m.mu.Unlock()

	if m.ResponseDelay > 0 {
		select {
		case <-time.After(m.ResponseDelay):
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		}
	}

	if m.FailUntilAttempt > 0 && call <= m.FailUntilAttempt {
		if m.Err != nil {
			return "", 0, 0, m.Err
		}
		return "", 0, 0, errors.New("simulated failure")
	}

	if m.ResponseFn != nil {
		text, err := m.ResponseFn(prompt)
		if err != nil {
			return "", 0, 0, err
		}
		return text, m.TokensIn, m.TokensOut, nil
	}

	if m.Err != nil && m.FailUntilAttempt == 0 {
		return "", 0, 0, m.Err
	}
	return m.Response, m.TokensIn, m.TokensOut, nil
}

// GetModel returns the configured model name.
func (m *MockCoreLLM) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Model
}

// SetModel updates the model name.
func (m *MockCoreLLM) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Model = model
}

// GetCallCount returns how many times DoRequest ran.
func (m *MockCoreLLM) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset clears tracking state while keeping configuration.
func (m *MockCoreLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastPrompt = ""
	m.LastOpts = nil
	m.Prompts = nil
	m.CallTimestamps = nil
}
