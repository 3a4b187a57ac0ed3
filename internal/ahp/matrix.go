package ahp

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Mode selects how preference values are read.
type Mode string

const (
	ModeRanking  Mode = "ranking"
	ModePairwise Mode = "pairwise"
)

// SaatyCeiling is the largest ratio on Saaty's 1-9 scale.
const SaatyCeiling = 9.0

// ParseMode accepts "ranking", "pairwise" and the legacy "comparison" alias.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ranking":
		return ModeRanking, nil
	case "pairwise", "comparison":
		return ModePairwise, nil
	default:
		return "", &InvalidModeError{Mode: s}
	}
}

// BuildMatrix turns preference values into a reciprocal comparison matrix.
//
// In ranking mode values are rank codes: a lower code means a more important
// criterion and 0 means "no importance". In pairwise mode values are Saaty
// ratios for the upper triangle, enumerated row-major.
func BuildMatrix(values []float64, mode Mode) (*mat.Dense, error) {
	switch mode {
	case ModePairwise:
		return pairwiseMatrix(values)
	case ModeRanking:
		return rankingMatrix(values)
	default:
		return nil, &InvalidModeError{Mode: string(mode)}
	}
}

// TriangularSize returns n such that k == n(n-1)/2.
func TriangularSize(k int) (int, bool) {
	if k < 0 {
		return 0, false
	}
	n := int(math.Round((1 + math.Sqrt(1+8*float64(k))) / 2))
	return n, n*(n-1)/2 == k
}

func pairwiseMatrix(values []float64) (*mat.Dense, error) {
	n, ok := TriangularSize(len(values))
	if !ok {
		return nil, &DimensionError{Length: len(values), Reason: "pairwise input must have n(n-1)/2 values"}
	}
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, &InvalidJudgmentError{Index: i, Value: v}
		}
	}

	a := identity(n)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := values[idx]
			a.Set(i, j, v)
			a.Set(j, i, 1/v)
			idx++
		}
	}
	return a, nil
}

func rankingMatrix(ranks []float64) (*mat.Dense, error) {
	n := len(ranks)
	if n == 0 {
		return nil, &DimensionError{Length: 0, Reason: "ranking input is empty"}
	}
	for i, r := range ranks {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &InvalidJudgmentError{Index: i, Value: r}
		}
	}

	a := identity(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := rankRatio(ranks[i], ranks[j])
			a.Set(i, j, v)
			a.Set(j, i, 1/v)
		}
	}
	return a, nil
}

// rankRatio is the priority of a criterion ranked ri over one ranked rj.
func rankRatio(ri, rj float64) float64 {
	if ri == rj {
		return 1
	}
	// Zero is "no importance", so it loses to every ranked criterion.
	if ri == 0 {
		return 1 / SaatyCeiling
	}
	if rj == 0 {
		return SaatyCeiling
	}

	d := math.Min(math.Round(math.Max(ri, rj)/math.Min(ri, rj)), SaatyCeiling)
	if ri < rj {
		return d
	}
	return 1 / d
}

func identity(n int) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
	}
	return a
}

// IsReciprocal reports whether a has a unit diagonal and a[j][i] == 1/a[i][j]
// within tol.
func IsReciprocal(a mat.Matrix, tol float64) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		if math.Abs(a.At(i, i)-1) > tol {
			return false
		}
		for j := i + 1; j < r; j++ {
			if math.Abs(a.At(i, j)*a.At(j, i)-1) > tol {
				return false
			}
		}
	}
	return true
}
