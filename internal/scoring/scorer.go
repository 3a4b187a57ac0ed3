package scoring

import (
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// FactorResult captures one criterion's contribution to a candidate's score.
type FactorResult struct {
	Name       string  `json:"name"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Share      float64 `json:"share"`
	Reason     string  `json:"reason"`
}

// Score applies weights to normalized candidates. Contribution is weight
// times normalized value, Score is their sum, DisplayScore is Score scaled so
// the best candidate reads 100 (0 for everyone when the best is <= 0).
// Criteria without a weight are ignored. The result is sorted by Score
// descending with ties kept in input order and ranked 1..N.
func Score(cands []store.Candidate, w Weights) ([]store.Candidate, error) {
	if len(cands) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	ids := w.IDs()
	out := store.CloneAll(cands)
	maxScore := 0.0
	for i := range out {
		c := &out[i]
		c.Contributions = make(map[string]float64, len(ids))
		c.Score = 0
		for _, id := range ids {
			n, ok := c.Normalized[id]
			if !ok {
				return nil, &MissingAttributeError{Code: c.Code, Column: id}
			}
			contrib := w[id] * n
			c.Contributions[id] = contrib
			c.Score += contrib
		}
		if i == 0 || c.Score > maxScore {
			maxScore = c.Score
		}
	}

	for i := range out {
		if maxScore > 0 {
			out[i].DisplayScore = out[i].Score / maxScore * 100
		} else {
			out[i].DisplayScore = 0
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Explain breaks a scored candidate down per criterion, heaviest
// contribution first.
func Explain(c store.Candidate, w Weights) []FactorResult {
	factors := make([]FactorResult, 0, len(w))
	for _, id := range w.IDs() {
		n, ok := c.Normalized[id]
		f := FactorResult{Name: id, Normalized: n, Weight: w[id]}
		if !ok {
			f.Reason = "no normalized value"
			factors = append(factors, f)
			continue
		}
		f.Weighted = w[id] * n
		if c.Score > 0 {
			f.Share = f.Weighted / c.Score
		}
		f.Reason = fmt.Sprintf("%.3f x %.3f", w[id], n)
		factors = append(factors, f)
	}
	sort.SliceStable(factors, func(i, j int) bool { return factors[i].Weighted > factors[j].Weighted })
	return factors
}
