package ahp

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is the conventional acceptable Consistency Ratio.
const DefaultThreshold = 0.10

// randomIndex is Saaty's benchmark Random Index for n = 1..13.
var randomIndex = [...]float64{0.00, 0.00, 0.52, 0.89, 1.11, 1.25, 1.35, 1.40, 1.45, 1.49, 1.52, 1.54, 1.56}

// fallbackRandomIndex is used above the published table (the n = 7 value).
const fallbackRandomIndex = 1.35

var errNoRealEigenvalue = errors.New("ahp: no real dominant eigenvalue")

// RandomIndex returns the benchmark RI for an n x n matrix.
func RandomIndex(n int) float64 {
	if n >= 1 && n <= len(randomIndex) {
		return randomIndex[n-1]
	}
	return fallbackRandomIndex
}

// ConsistencyRatio computes CR = CI / RI for a reciprocal matrix.
func ConsistencyRatio(a mat.Matrix) (float64, error) {
	n, c := a.Dims()
	if n != c {
		return 0, &DimensionError{Length: n * c, Reason: "comparison matrix is not square"}
	}
	if n <= 1 {
		return 0, nil
	}

	lambda, err := dominantEigenvalue(a)
	if err != nil {
		return 0, err
	}

	ci := (lambda - float64(n)) / float64(n-1)
	ri := RandomIndex(n)
	if ri == 0 {
		return 0, nil
	}
	// lambda_max >= n for reciprocal matrices; anything below is rounding.
	return math.Max(0, ci/ri), nil
}

func dominantEigenvalue(a mat.Matrix) (float64, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return 0, errors.New("ahp: eigen decomposition did not converge")
	}
	_, lambda, err := principal(eig.Values(nil))
	return lambda, err
}

// principal returns the index and real part of the eigenvalue with the
// largest real part.
func principal(values []complex128) (int, float64, error) {
	best := -1
	lambda := math.Inf(-1)
	for i, v := range values {
		if cmplx.IsNaN(v) {
			continue
		}
		if re := real(v); re > lambda {
			best, lambda = i, re
		}
	}
	if best < 0 || math.IsInf(lambda, 0) {
		return 0, 0, errNoRealEigenvalue
	}
	return best, lambda, nil
}
