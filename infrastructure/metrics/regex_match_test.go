package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func TestRegexMatch_ConfiguredPattern(t *testing.T) {
	m, err := NewRegexMatch(RegexMatchConfig{Pattern: `\b\d{4}\b`})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"},
		response("the treaty was signed in 1648"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mr.Score, 1e-9)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)

	mr, err = m.Score(context.Background(), domain.Case{Input: "q"},
		response("no year mentioned"))
	require.NoError(t, err)
	assert.Zero(t, mr.Score)
	assert.Equal(t, domain.VerdictFail, mr.Verdict)
}

func TestRegexMatch_CaseInsensitiveByDefault(t *testing.T) {
	m, err := NewRegexMatch(RegexMatchConfig{Pattern: "paris"})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(), domain.Case{Input: "q"}, response("PARIS"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)
}

func TestRegexMatch_ExpectedOutputFallback(t *testing.T) {
	// Without a pattern the expected output is quoted literally, so
	// regex metacharacters in it do not blow up.
	m, err := NewRegexMatch(RegexMatchConfig{})
	require.NoError(t, err)

	mr, err := m.Score(context.Background(),
		domain.Case{Input: "q", ExpectedOutput: "f(x) = x+1"}, response("the function f(x) = x+1 is linear"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictPass, mr.Verdict)

	mr, err = m.Score(context.Background(), domain.Case{Input: "q"}, response("anything"))
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictError, mr.Verdict, "no pattern and no expected output")
}

func TestRegexMatch_InvalidPattern(t *testing.T) {
	_, err := NewRegexMatch(RegexMatchConfig{Pattern: "([unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern")
}
