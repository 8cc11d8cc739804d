package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func TestLengthRange_Score(t *testing.T) {
	m, err := NewLengthRange(LengthRangeConfig{MinChars: 10, MaxChars: 20, Threshold: 0.5})
	require.NoError(t, err)

	tests := []struct {
		name      string
		text      string
		wantScore float64
	}{
		{name: "inside range", text: strings.Repeat("a", 15), wantScore: 1.0},
		{name: "at lower bound", text: strings.Repeat("a", 10), wantScore: 1.0},
		{name: "at upper bound", text: strings.Repeat("a", 20), wantScore: 1.0},
		{name: "half the minimum", text: strings.Repeat("a", 5), wantScore: 0.5},
		{name: "overshoot by half the max", text: strings.Repeat("a", 30), wantScore: 0.5},
		{name: "empty", text: "", wantScore: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, response(tt.text))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, mr.Score, 1e-9)
		})
	}
}

func TestLengthRange_CountsRunesNotBytes(t *testing.T) {
	m, err := NewLengthRange(LengthRangeConfig{MinChars: 3, MaxChars: 5, Threshold: 0.5})
	require.NoError(t, err)

	// 4 runes, 12 bytes.
	mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, response("日本語文"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mr.Score, 1e-9)
	assert.Equal(t, 4, mr.Metadata["length"])
}

func TestLengthRange_InvalidBounds(t *testing.T) {
	_, err := NewLengthRange(LengthRangeConfig{MinChars: 100, MaxChars: 10})
	assert.Error(t, err, "max below min should be rejected")
}

func TestLatency_Score(t *testing.T) {
	m, err := NewLatency(LatencyConfig{TargetMS: 1000, MaxMS: 5000, Threshold: 0.5})
	require.NoError(t, err)

	tests := []struct {
		name      string
		latencyMS float64
		wantScore float64
	}{
		{name: "under target", latencyMS: 500, wantScore: 1.0},
		{name: "at target", latencyMS: 1000, wantScore: 1.0},
		{name: "midway", latencyMS: 3000, wantScore: 0.5},
		{name: "at max", latencyMS: 5000, wantScore: 0.0},
		{name: "beyond max", latencyMS: 9000, wantScore: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := domain.ModelResponse{Text: "x", LatencyMS: tt.latencyMS}
			mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, resp)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, mr.Score, 1e-9)
		})
	}
}

func TestCost_Score(t *testing.T) {
	m, err := NewCost(DefaultCostConfig())
	require.NoError(t, err)

	tests := []struct {
		name      string
		costUSD   float64
		wantScore float64
	}{
		{name: "free adapter", costUSD: 0, wantScore: 1.0},
		{name: "under budget", costUSD: 0.005, wantScore: 1.0},
		{name: "midway", costUSD: 0.055, wantScore: 0.5},
		{name: "at max", costUSD: 0.10, wantScore: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := domain.ModelResponse{Text: "x", CostUSD: tt.costUSD}
			mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, resp)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, mr.Score, 1e-9)
		})
	}
}
