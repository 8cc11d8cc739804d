// Package domain contains pure, dependency-free data models for the
// evaluation framework: cases, model responses, metric results, and the
// aggregated suite and comparison results the runner produces.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CaseIDLength is the number of hex characters used for auto-generated
// case identifiers.
const CaseIDLength = 8

// Case is a single evaluation test case: the input sent to the model,
// the optional reference answer, and optional retrieval context.
// Cases are immutable once loaded; the runner never mutates them.
type Case struct {
	// ID uniquely identifies this case within a suite.
	// If empty at construction time, DefaultCaseID derives a stable one
	// from the input text.
	ID string `json:"case_id" yaml:"case_id"`

	// Input is the prompt or question sent to the model under test.
	Input string `json:"input" yaml:"input"`

	// ExpectedOutput is the reference answer, when one exists.
	// Deterministic metrics that compare against ground truth require it.
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`

	// Context holds retrieved context passages for RAG-style evaluation.
	Context []string `json:"context,omitempty" yaml:"context,omitempty"`

	// Metadata carries arbitrary tags for filtering and grouping.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DefaultCaseID returns a stable identifier derived from the case input.
// The same input always produces the same ID, so re-loading a dataset
// without explicit IDs yields identical suites.
func DefaultCaseID(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:CaseIDLength]
}

// WithDefaultID returns the case with its ID populated from the input
// when no explicit ID was provided. The receiver is not modified.
func (c Case) WithDefaultID() Case {
	if c.ID == "" {
		c.ID = DefaultCaseID(c.Input)
	}
	return c
}

// ContextString flattens the context passages into a single string,
// suitable for prompt interpolation. Returns "" when no context is set.
func (c Case) ContextString() string {
	if len(c.Context) == 0 {
		return ""
	}
	return strings.Join(c.Context, "\n\n")
}

// HasContext reports whether the case carries any retrieval context.
func (c Case) HasContext() bool { return len(c.Context) > 0 }

// HasExpectedOutput reports whether a reference answer is available.
func (c Case) HasExpectedOutput() bool { return c.ExpectedOutput != "" }
