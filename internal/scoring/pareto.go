package scoring

import "github.com/MikeSquared-Agency/Locus/internal/store"

// Frontier returns the Pareto-optimal candidates over their normalized
// criterion values. A candidate is dominated if another one is >= on every
// criterion and strictly better on at least one. Normalized values are
// already oriented so higher is always better.
// O(n^2) dominance check; municipality tables are a few hundred rows.
func Frontier(cands []store.Candidate, criteria []Criterion) []store.Candidate {
	if len(cands) <= 1 {
		return store.CloneAll(cands)
	}

	var frontier []store.Candidate
	for i := range cands {
		dominated := false
		for j := range cands {
			if i == j {
				continue
			}
			if dominates(cands[j], cands[i], criteria) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, cands[i].Clone())
		}
	}
	return frontier
}

// dominates returns true if a dominates b.
func dominates(a, b store.Candidate, criteria []Criterion) bool {
	better := false
	for _, c := range criteria {
		av, bv := a.Normalized[c.ID], b.Normalized[c.ID]
		if av < bv {
			return false
		}
		if av > bv {
			better = true
		}
	}
	return better
}
