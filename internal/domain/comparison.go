package domain

import "sort"

// ComparisonResult is the outcome of running one suite against several
// models: the per-model suite results plus a deterministic ranking.
type ComparisonResult struct {
	// SuiteName identifies the evaluated suite.
	SuiteName string `json:"suite_name"`

	// PerModel maps model name to that model's full suite result.
	PerModel map[string]SuiteResult `json:"per_model"`

	// Ranking lists model names best-first. Ordering is strict:
	// pass rate descending, then mean score descending, then the order
	// the models were declared. No ties surface as unordered.
	Ranking []string `json:"ranking"`
}

// Best returns the top-ranked model name, or "" for an empty comparison.
func (cr ComparisonResult) Best() string {
	if len(cr.Ranking) == 0 {
		return ""
	}
	return cr.Ranking[0]
}

// RankModels computes the comparison ranking for the given results.
// declared preserves the caller's model declaration order and acts as
// the final tie-break, which guarantees a total order: identical
// (pass rate, mean score) pairs rank in declaration order.
func RankModels(declared []string, results map[string]SuiteResult) []string {
	type entry struct {
		name      string
		passRate  float64
		meanScore float64
		position  int
	}

	entries := make([]entry, 0, len(declared))
	for i, name := range declared {
		sr, ok := results[name]
		if !ok {
			continue
		}
		entries = append(entries, entry{
			name:      name,
			passRate:  sr.PassRate(),
			meanScore: sr.MeanScore(),
			position:  i,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].passRate != entries[j].passRate {
			return entries[i].passRate > entries[j].passRate
		}
		if entries[i].meanScore != entries[j].meanScore {
			return entries[i].meanScore > entries[j].meanScore
		}
		return entries[i].position < entries[j].position
	})

	ranking := make([]string, len(entries))
	for i, e := range entries {
		ranking[i] = e.name
	}
	return ranking
}
