package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ahrav/go-evalkit/internal/ports"
)

// MetricFactory creates a configured metric instance. The LLM client is
// non-nil only for judge metrics; deterministic factories ignore it.
// The config map carries metric-specific parameters (threshold,
// keywords, patterns) straight from the CLI or a suite file.
type MetricFactory func(llm ports.LLMClient, config map[string]any) (ports.Metric, error)

// MetricRegistry maps metric type names to factories. It exists so
// datasets and the CLI can reference metrics by name without linking
// against concrete metric types.
//
// Registries are explicit objects, not package-level globals: each
// consumer constructs its own, registers what it needs, and passes it
// where required. All methods are safe for concurrent use.
type MetricRegistry struct {
	mu        sync.RWMutex
	factories map[string]MetricFactory
}

// NewMetricRegistry creates an empty registry.
func NewMetricRegistry() *MetricRegistry {
	return &MetricRegistry{factories: make(map[string]MetricFactory)}
}

// Register adds a factory under the given type name. Registering the
// same name twice replaces the earlier factory, which allows tests to
// override builtins.
func (r *MetricRegistry) Register(name string, factory MetricFactory) error {
	if name == "" {
		return fmt.Errorf("metric type name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory for metric type %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}

// Create instantiates a metric of the given type with the given config.
func (r *MetricRegistry) Create(name string, llm ports.LLMClient, config map[string]any) (ports.Metric, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown metric type %q (registered: %v)", name, r.List())
	}
	return factory(llm, config)
}

// List returns the registered type names in sorted order.
func (r *MetricRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a type name is registered.
func (r *MetricRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}
