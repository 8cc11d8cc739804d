package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "hello", b: "hello", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "abcd", b: "", want: 0.0},
		{name: "one edit in four runes", a: "abcd", b: "abcx", want: 0.75},
		{name: "completely different", a: "aaaa", b: "zzzz", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarityScore(tt.a, tt.b), 1e-9)
		})
	}
}

func TestFuzzyMatch_Score(t *testing.T) {
	m, err := NewFuzzyMatch(DefaultFuzzyMatchConfig())
	require.NoError(t, err)

	// "paris" vs "pariS" normalizes to equal.
	mr, err := m.Score(context.Background(),
		domain.Case{Input: "q", ExpectedOutput: "Paris"}, response("pariS "))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)

	// One substitution over five runes: similarity 0.8 meets the default
	// threshold exactly.
	mr, err = m.Score(context.Background(),
		domain.Case{Input: "q", ExpectedOutput: "paris"}, response("parid"))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)

	// Far apart: fails.
	mr, err = m.Score(context.Background(),
		domain.Case{Input: "q", ExpectedOutput: "paris"}, response("a completely different answer"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictFail, mr.Verdict)
	assert.Less(t, mr.Score, 0.5)
	assert.Contains(t, mr.Metadata, "similarity")
}

func TestFuzzyMatch_NoExpectedOutput(t *testing.T) {
	m, err := NewFuzzyMatch(DefaultFuzzyMatchConfig())
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, response("anything"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictError, mr.Verdict)
}
