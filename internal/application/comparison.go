package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

// Comparison configuration errors.
var (
	// ErrNoModels indicates a comparison was requested with zero models.
	ErrNoModels = errors.New("comparison requires at least one model")

	// ErrDuplicateModelName indicates two comparison entries share a name.
	ErrDuplicateModelName = errors.New("duplicate model name in comparison")

	// ErrNilAdapter indicates a comparison entry has no adapter.
	ErrNilAdapter = errors.New("model adapter cannot be nil")
)

// ModelEntry pairs a model name with the adapter that serves it.
// Entry order is the declaration order used as the ranking tie-break.
type ModelEntry struct {
	Name    string
	Adapter ports.ModelAdapter
}

// RunComparison runs the suite against every model and ranks them.
// Models execute concurrently (bounded by MaxParallelModels when set),
// each internally bounded by the runner's case concurrency. Every model
// is evaluated against the identical case list; a model whose adapter
// fails on every case still appears in the result and the ranking, it
// just ranks last on merit.
//
// Ranking is strict and deterministic: pass rate descending, then mean
// score descending, then declaration order.
func (r *Runner) RunComparison(ctx context.Context, suite *Suite, models []ModelEntry) (domain.ComparisonResult, error) {
	if len(models) == 0 {
		return domain.ComparisonResult{}, domain.NewConfigurationError("comparison", ErrNoModels)
	}
	seen := make(map[string]struct{}, len(models))
	for i, m := range models {
		if m.Adapter == nil {
			return domain.ComparisonResult{}, domain.NewConfigurationError(
				fmt.Sprintf("comparison model %d", i), ErrNilAdapter)
		}
		name := m.Name
		if name == "" {
			name = m.Adapter.Name()
		}
		if _, dup := seen[name]; dup {
			return domain.ComparisonResult{}, domain.NewConfigurationError(
				fmt.Sprintf("comparison model %q", name), ErrDuplicateModelName)
		}
		seen[name] = struct{}{}
	}
	// Validate once up front so a bad suite fails before any model runs.
	if err := suite.Validate(); err != nil {
		return domain.ComparisonResult{}, err
	}

	r.logger.Info("starting comparison",
		"suite", suite.Name,
		"models", len(models),
		"cases", len(suite.Cases),
	)

	declared := make([]string, len(models))
	results := make([]domain.SuiteResult, len(models))

	g := new(errgroup.Group)
	if r.config.MaxParallelModels > 0 {
		g.SetLimit(r.config.MaxParallelModels)
	}
	for i, m := range models {
		name := m.Name
		if name == "" {
			name = m.Adapter.Name()
		}
		declared[i] = name
		g.Go(func() error {
			sr, err := r.Run(ctx, suite, m.Adapter)
			if err != nil {
				return err
			}
			sr.Model = name
			results[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ComparisonResult{}, err
	}

	perModel := make(map[string]domain.SuiteResult, len(models))
	for i, name := range declared {
		perModel[name] = results[i]
	}

	comparison := domain.ComparisonResult{
		SuiteName: suite.Name,
		PerModel:  perModel,
		Ranking:   domain.RankModels(declared, perModel),
	}

	r.logger.Info("comparison complete",
		"suite", suite.Name,
		"best", comparison.Best(),
		"ranking", comparison.Ranking,
	)

	return comparison, nil
}
