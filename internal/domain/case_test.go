package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCaseID_StableAndShort(t *testing.T) {
	id := DefaultCaseID("What is the capital of France?")
	assert.Len(t, id, CaseIDLength)
	assert.Equal(t, id, DefaultCaseID("What is the capital of France?"),
		"same input must produce the same ID")
	assert.NotEqual(t, id, DefaultCaseID("What is the capital of Spain?"))
}

func TestCase_WithDefaultID(t *testing.T) {
	c := Case{Input: "question"}.WithDefaultID()
	assert.Equal(t, DefaultCaseID("question"), c.ID)

	explicit := Case{ID: "keep-me", Input: "question"}.WithDefaultID()
	assert.Equal(t, "keep-me", explicit.ID, "explicit IDs are preserved")
}

func TestCase_ContextString(t *testing.T) {
	assert.Empty(t, Case{}.ContextString())
	assert.Equal(t, "one", Case{Context: []string{"one"}}.ContextString())
	assert.Equal(t, "one\n\ntwo", Case{Context: []string{"one", "two"}}.ContextString())
}

func TestCase_Has(t *testing.T) {
	assert.False(t, Case{}.HasContext())
	assert.True(t, Case{Context: []string{"x"}}.HasContext())
	assert.False(t, Case{}.HasExpectedOutput())
	assert.True(t, Case{ExpectedOutput: "x"}.HasExpectedOutput())
}
