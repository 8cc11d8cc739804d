package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func TestContainsAny_FractionalScore(t *testing.T) {
	m, err := NewContainsAny(KeywordConfig{Keywords: []string{"alpha", "beta", "gamma", "delta"}})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"},
		response("the answer mentions Alpha and also beta but nothing else"))
	require.NoError(t, err)

	// 2 of 4 keywords found, matched case-insensitively.
	assert.InDelta(t, 0.5, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict, "default threshold 0.5 passes at half")
	assert.ElementsMatch(t, []string{"alpha", "beta"}, mr.Metadata["found"])
	assert.ElementsMatch(t, []string{"gamma", "delta"}, mr.Metadata["missing"])
}

func TestContainsAny_ExpectedOutputFallback(t *testing.T) {
	// Without keywords the expected output serves as the single keyword.
	m, err := NewContainsAny(KeywordConfig{})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(),
		domain.Case{Input: "q", ExpectedOutput: "Paris"}, response("The capital is Paris."))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)

	// No keywords and no expected output: nothing to check.
	mr, err = m.Score(context.Background(), domain.Case{Input: "q"}, response("anything"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictError, mr.Verdict)
}

func TestContainsAny_CaseSensitive(t *testing.T) {
	m, err := NewContainsAny(KeywordConfig{Keywords: []string{"Paris"}, CaseSensitive: true})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, response("the city is paris"))
	require.NoError(t, err)
	assert.Zero(t, mr.Score)
	assert.Equal(t, domain.VerdictFail, mr.Verdict)
}

func TestContainsAll_RequiresEveryKeyword(t *testing.T) {
	m, err := NewContainsAll(KeywordConfig{Keywords: []string{"red", "green", "blue"}})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"},
		response("red and green but no third color"))
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictFail, mr.Verdict, "default threshold 1.0 demands every keyword")
	assert.Contains(t, mr.Reason, "missing")

	mr, err = m.Score(context.Background(), domain.Case{Input: "q"},
		response("red, green, and blue"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)
}

func TestContainsAll_RequiresExplicitKeywords(t *testing.T) {
	_, err := NewContainsAll(KeywordConfig{})
	assert.ErrorIs(t, err, ErrNoKeywords)
}
