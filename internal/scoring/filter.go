package scoring

import "github.com/MikeSquared-Agency/Locus/internal/store"

// FilterRange keeps candidates whose column lies in [min, max]. Candidates
// without the column are dropped. Order is preserved.
func FilterRange(cands []store.Candidate, column string, min, max float64) []store.Candidate {
	var out []store.Candidate
	for _, c := range cands {
		v, ok := c.Attribute(column)
		if !ok || v < min || v > max {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}
