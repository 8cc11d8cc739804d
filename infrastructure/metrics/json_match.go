package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*JSONMatch)(nil)

// JSONMatchConfig holds the options for JSONMatch.
type JSONMatchConfig struct {
	// RequiredKeys lists top-level object keys the response must carry.
	// The score is the fraction of required keys present.
	RequiredKeys []string `yaml:"required_keys"`

	// Schema is an optional JSON Schema document the parsed response
	// must satisfy. Schema violations force the score to zero.
	Schema string `yaml:"schema"`

	// Threshold is the minimum score required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// JSONMatch checks that the response is valid JSON, optionally that it
// carries required top-level keys, and optionally that it validates
// against a JSON Schema. Markdown fences around the JSON are tolerated
// since chat models routinely add them.
type JSONMatch struct {
	baseMetric
	config   JSONMatchConfig
	compiled *jsonschema.Schema // nil when no schema configured
}

// NewJSONMatch creates a JSON metric with the given config. A schema,
// when provided, is compiled once here so a malformed schema fails
// during setup rather than per case.
func NewJSONMatch(config JSONMatchConfig) (*JSONMatch, error) {
	if config.Threshold == 0 {
		config.Threshold = 1.0
	}
	if err := validateConfig("json_match", config); err != nil {
		return nil, err
	}

	m := &JSONMatch{
		baseMetric: baseMetric{name: "json_match", threshold: config.Threshold},
		config:     config,
	}
	if config.Schema != "" {
		compiler := jsonschema.NewCompiler()
		schema, err := compiler.Compile([]byte(config.Schema))
		if err != nil {
			return nil, fmt.Errorf("compile JSON schema: %w", err)
		}
		m.compiled = schema
	}
	return m, nil
}

// Validate reports whether the metric is ready to score.
func (m *JSONMatch) Validate() error {
	if m.config.Schema != "" && m.compiled == nil {
		return fmt.Errorf("JSON schema not compiled")
	}
	return validateConfig("json_match", m.config)
}

// Score parses the response as JSON and applies the configured checks.
func (m *JSONMatch) Score(_ context.Context, _ domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	text := extractJSON(resp.Text)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return m.result(0.0, fmt.Sprintf("invalid JSON: %v", err), nil), nil
	}

	if m.compiled != nil {
		result := m.compiled.ValidateJSON([]byte(text))
		if !result.IsValid() {
			return m.result(0.0, "JSON does not satisfy schema",
				map[string]any{"schema_errors": result.Errors}), nil
		}
	}

	if len(m.config.RequiredKeys) == 0 {
		return m.result(1.0, "valid JSON", nil), nil
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return m.result(0.5, "valid JSON but not an object (required keys unchecked)", nil), nil
	}

	var found, missing []string
	for _, key := range m.config.RequiredKeys {
		if _, present := obj[key]; present {
			found = append(found, key)
		} else {
			missing = append(missing, key)
		}
	}

	score := float64(len(found)) / float64(len(m.config.RequiredKeys))
	reason := fmt.Sprintf("JSON keys: %d/%d", len(found), len(m.config.RequiredKeys))
	if len(missing) > 0 {
		reason += fmt.Sprintf(", missing: %v", missing)
	}
	return m.result(score, reason, map[string]any{
		"found_keys":   found,
		"missing_keys": missing,
	}), nil
}
