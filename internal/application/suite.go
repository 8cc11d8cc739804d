// Package application contains the orchestration layer of the
// evaluation framework: the suite definition, the metric registry,
// the dataset loader, and the runner that executes suites against
// models with bounded concurrency.
package application

import (
	"fmt"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// Suite is a named, ordered collection of evaluation cases plus the
// metrics applied to every case. A suite defines WHAT to evaluate and
// HOW to score it; the runner handles executing it against models.
type Suite struct {
	// Name identifies the suite in results and reports.
	Name string

	// Description is optional free-form documentation.
	Description string

	// Cases holds the ordered test cases. Case order is preserved in
	// suite results regardless of execution completion order.
	Cases []domain.Case

	// Metrics holds the ordered metrics applied to every case.
	Metrics []ports.Metric

	// Metadata carries arbitrary suite-level tags.
	Metadata map[string]any
}

// NewSuite creates an empty suite with the given name.
func NewSuite(name string) *Suite {
	return &Suite{Name: name}
}

// AddCase appends a case, populating a default ID when none is set.
// Returns the suite for chaining.
func (s *Suite) AddCase(c domain.Case) *Suite {
	s.Cases = append(s.Cases, c.WithDefaultID())
	return s
}

// AddCases appends multiple cases. Returns the suite for chaining.
func (s *Suite) AddCases(cases ...domain.Case) *Suite {
	for _, c := range cases {
		s.AddCase(c)
	}
	return s
}

// AddMetric appends a metric. Returns the suite for chaining.
func (s *Suite) AddMetric(m ports.Metric) *Suite {
	s.Metrics = append(s.Metrics, m)
	return s
}

// AddMetrics appends multiple metrics. Returns the suite for chaining.
func (s *Suite) AddMetrics(metrics ...ports.Metric) *Suite {
	s.Metrics = append(s.Metrics, metrics...)
	return s
}

// Len returns the number of cases in the suite.
func (s *Suite) Len() int { return len(s.Cases) }

// Validate checks the suite is well-formed: a non-empty name, no empty
// case inputs, unique case IDs, and no nil or misconfigured metrics.
// Validation runs before any execution so a bad suite fails fast
// instead of mid-run. An empty suite is valid; running it yields an
// empty result.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return domain.NewConfigurationError("suite", domain.ErrEmptySuiteName)
	}

	seen := make(map[string]struct{}, len(s.Cases))
	for i, c := range s.Cases {
		if c.Input == "" {
			return domain.NewConfigurationError(
				fmt.Sprintf("suite %q case %d", s.Name, i), domain.ErrNilCase)
		}
		id := c.ID
		if id == "" {
			id = domain.DefaultCaseID(c.Input)
		}
		if _, dup := seen[id]; dup {
			return domain.NewConfigurationError(
				fmt.Sprintf("suite %q case %q", s.Name, id), domain.ErrDuplicateCaseID)
		}
		seen[id] = struct{}{}
	}

	for i, m := range s.Metrics {
		if m == nil {
			return domain.NewConfigurationError(
				fmt.Sprintf("suite %q metric %d", s.Name, i), domain.ErrNilMetric)
		}
		if err := m.Validate(); err != nil {
			return domain.NewConfigurationError(
				fmt.Sprintf("suite %q metric %q", s.Name, m.Name()), err)
		}
	}

	return nil
}

// normalizedCases returns the suite cases with default IDs populated.
// The suite itself is not modified.
func (s *Suite) normalizedCases() []domain.Case {
	cases := make([]domain.Case, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = c.WithDefaultID()
	}
	return cases
}
