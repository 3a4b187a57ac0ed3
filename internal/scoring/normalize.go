package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// ErrEmptyCandidateSet is returned when there is nothing to normalize or score.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// MissingAttributeError reports a candidate lacking a column the criteria
// (or weights) require.
type MissingAttributeError struct {
	Code   string
	Column string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("candidate %s: missing attribute %q", e.Code, e.Column)
}

// Normalize maps every criterion column onto [0,1] where higher is better,
// using min and max of the given set only. Cost criteria are inverted. A
// zero range divides by 1, so benefit columns become 0 and cost columns 1.
// The input is not modified.
func Normalize(cands []store.Candidate, criteria []Criterion) ([]store.Candidate, error) {
	if len(cands) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	out := store.CloneAll(cands)
	for i := range out {
		out[i].Normalized = make(map[string]float64, len(criteria))
	}

	for _, crit := range criteria {
		lo, hi := math.Inf(1), math.Inf(-1)
		values := make([]float64, len(out))
		for i := range out {
			v, ok := out[i].Attribute(crit.Column)
			if !ok {
				return nil, &MissingAttributeError{Code: out[i].Code, Column: crit.Column}
			}
			values[i] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}

		rng := hi - lo
		if rng == 0 {
			rng = 1
		}
		for i, v := range values {
			n := (v - lo) / rng
			if crit.Orientation == Cost {
				n = 1 - n
			}
			out[i].Normalized[crit.ID] = n
		}
	}
	return out, nil
}
