package scoring

import (
	"fmt"
	"math"
	"sort"
)

// Weights maps criterion IDs to their relative importance.
// A valid set is non-negative and sums to 1.0 (±0.001 tolerance).
type Weights map[string]float64

// EqualWeights gives every criterion 1/n. It is the fallback when
// preference weighting fails.
func EqualWeights(ids []string) Weights {
	w := make(Weights, len(ids))
	if len(ids) == 0 {
		return w
	}
	share := 1.0 / float64(len(ids))
	for _, id := range ids {
		w[id] = share
	}
	return w
}

// WeightsFromVector keys an AHP weight vector by criterion ID.
func WeightsFromVector(criteria []Criterion, v []float64) (Weights, error) {
	if len(v) != len(criteria) {
		return nil, fmt.Errorf("weight vector has %d entries for %d criteria", len(v), len(criteria))
	}
	w := make(Weights, len(v))
	for i, c := range criteria {
		w[c.ID] = v[i]
	}
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, id := range w.IDs() {
		total += w[id]
	}
	return total
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	for _, id := range w.IDs() {
		if v := w[id]; v < 0 || math.IsNaN(v) {
			return fmt.Errorf("negative weight for %s: %f", id, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}

// IDs returns the criterion IDs in sorted order.
func (w Weights) IDs() []string {
	ids := make([]string, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Normalized rescales to sum 1. A zero or negative total is returned as is.
func (w Weights) Normalized() Weights {
	total := w.Sum()
	out := make(Weights, len(w))
	for id, v := range w {
		if total > 0 {
			v /= total
		}
		out[id] = v
	}
	return out
}
