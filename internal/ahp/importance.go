package ahp

import "math"

// RankCodesFromImportance converts user-facing importance scores on a
// 1..scaleMax scale (higher = more important) into rank codes (lower = more
// important). An importance of 10 on a 1..10 scale becomes code 1. Zero means
// "no importance" and stays zero; BuildMatrix ranks it below everything else.
// Negative or non-finite scores are rejected with *InvalidJudgmentError.
func RankCodesFromImportance(importance []float64, scaleMax float64) ([]float64, error) {
	codes := make([]float64, len(importance))
	for i, r := range importance {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &InvalidJudgmentError{Index: i, Value: r}
		}
		if r == 0 {
			continue
		}
		if r > scaleMax {
			r = scaleMax
		}
		codes[i] = scaleMax + 1 - r
	}
	return codes, nil
}
