package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare JSON",
			in:   `{"score": 0.9}`,
			want: `{"score": 0.9}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"score\": 0.9}\n```",
			want: `{"score": 0.9}`,
		},
		{
			name: "plain fence",
			in:   "```\n{\"score\": 0.9}\n```",
			want: `{"score": 0.9}`,
		},
		{
			name: "surrounding prose",
			in:   `Sure, here is my evaluation: {"score": 0.9, "reason": "good"} hope that helps`,
			want: `{"score": 0.9, "reason": "good"}`,
		},
		{
			name: "no JSON at all",
			in:   "no braces here",
			want: "no braces here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 0.0, clamp01(0.0))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.0))
	assert.Equal(t, 1.0, clamp01(1.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
