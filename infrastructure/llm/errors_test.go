package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassifier_ClassifyHTTPError(t *testing.T) {
	ec := &ErrorClassifier{Provider: "openai"}

	tests := []struct {
		status        int
		wantType      ErrorType
		wantRetryable bool
	}{
		{401, ErrorTypeAuthentication, false},
		{403, ErrorTypeAuthentication, false},
		{429, ErrorTypeRateLimit, true},
		{400, ErrorTypeBadRequest, false},
		{404, ErrorTypeNotFound, false},
		{500, ErrorTypeServerError, true},
		{502, ErrorTypeServerError, true},
		{503, ErrorTypeServerError, true},
		{418, ErrorTypeBadRequest, false},
		{599, ErrorTypeServerError, true},
	}

	for _, tt := range tests {
		pe := ec.ClassifyHTTPError(tt.status, "message", errors.New("raw"))
		assert.Equal(t, tt.wantType, pe.Type, "status %d", tt.status)
		assert.Equal(t, tt.wantRetryable, pe.IsRetryable(), "status %d", tt.status)
		assert.Equal(t, tt.status, pe.StatusCode)
		assert.Equal(t, "openai", pe.Provider)
	}
}

func TestErrorClassifier_ClassifyContextError(t *testing.T) {
	ec := &ErrorClassifier{Provider: "google"}

	pe := ec.ClassifyContextError(context.DeadlineExceeded)
	assert.Equal(t, ErrorTypeTimeout, pe.Type)
	assert.True(t, pe.IsRetryable())

	pe = ec.ClassifyContextError(context.Canceled)
	assert.Equal(t, ErrorTypeNetwork, pe.Type)

	pe = ec.ClassifyContextError(errors.New("something else"))
	assert.Equal(t, ErrorTypeUnknown, pe.Type)
	assert.False(t, pe.IsRetryable())
}

func TestProviderError_ErrorStringAndUnwrap(t *testing.T) {
	wrapped := errors.New("socket closed")
	pe := NewProviderError("anthropic", ErrorTypeNetwork, 0, "connection lost", wrapped)

	msg := pe.Error()
	assert.Contains(t, msg, "anthropic error")
	assert.Contains(t, msg, "[network]")
	assert.Contains(t, msg, "connection lost")
	assert.Contains(t, msg, "socket closed")

	require.ErrorIs(t, pe, wrapped)

	withStatus := NewProviderError("openai", ErrorTypeRateLimit, 429, "", nil)
	assert.Contains(t, withStatus.Error(), "HTTP 429")
}

func TestIsContextError(t *testing.T) {
	assert.True(t, isContextError(context.DeadlineExceeded))
	assert.True(t, isContextError(context.Canceled))
	assert.False(t, isContextError(errors.New("other")))
}
