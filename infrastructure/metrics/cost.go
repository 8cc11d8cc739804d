package metrics

import (
	"context"
	"fmt"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.Metric = (*Cost)(nil)

// CostConfig holds the spending budget for the Cost metric.
type CostConfig struct {
	// BudgetUSD is the per-case cost under which a response scores 1.0.
	BudgetUSD float64 `yaml:"budget_usd" validate:"min=0"`

	// MaxUSD is the cost at or above which a response scores 0.0.
	// Scores degrade linearly between BudgetUSD and MaxUSD.
	MaxUSD float64 `yaml:"max_usd" validate:"min=0,gtefield=BudgetUSD"`

	// Threshold is the minimum score required to pass.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=1"`
}

// DefaultCostConfig budgets one cent per case with a ten-cent ceiling.
func DefaultCostConfig() CostConfig {
	return CostConfig{BudgetUSD: 0.01, MaxUSD: 0.10, Threshold: 0.5}
}

// Cost scores the estimated cost of the model call: 1.0 under budget,
// degrading linearly to 0.0 at the maximum. Adapters without cost
// accounting report zero cost and therefore always pass.
type Cost struct {
	baseMetric
	config CostConfig
}

// NewCost creates a cost metric with the given config.
func NewCost(config CostConfig) (*Cost, error) {
	if err := validateConfig("cost", config); err != nil {
		return nil, err
	}
	return &Cost{
		baseMetric: baseMetric{name: "cost", threshold: config.Threshold},
		config:     config,
	}, nil
}

// Validate reports whether the metric is ready to score.
func (m *Cost) Validate() error {
	return validateConfig("cost", m.config)
}

// Score converts the estimated call cost into a [0, 1] score.
func (m *Cost) Score(_ context.Context, _ domain.Case, resp domain.ModelResponse) (domain.MetricResult, error) {
	cost := resp.CostUSD

	var score float64
	switch {
	case cost <= m.config.BudgetUSD:
		score = 1.0
	case cost >= m.config.MaxUSD:
		score = 0.0
	default:
		score = 1.0 - (cost-m.config.BudgetUSD)/(m.config.MaxUSD-m.config.BudgetUSD)
	}

	return m.result(score,
		fmt.Sprintf("cost $%.4f (budget $%.4f)", cost, m.config.BudgetUSD),
		map[string]any{"cost_usd": cost}), nil
}
