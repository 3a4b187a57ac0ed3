package ahp

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// PriorityWeights extracts the principal right eigenvector of a comparison
// matrix and normalizes it to sum to one.
//
// Components are taken in absolute value since eigenvector sign is
// arbitrary. A criterion whose every comparison is the reciprocal of the
// ceiling keeps a small positive weight; it is not forced to zero.
func PriorityWeights(a mat.Matrix) ([]float64, error) {
	n, c := a.Dims()
	if n != c || n == 0 {
		return nil, &DimensionError{Length: n * c, Reason: "comparison matrix is not square"}
	}
	if n == 1 {
		return []float64{1}, nil
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return nil, errors.New("ahp: eigen decomposition did not converge")
	}
	col, _, err := principal(eig.Values(nil))
	if err != nil {
		return nil, err
	}

	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	w := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		w[i] = cmplx.Abs(vecs.At(i, col))
		sum += w[i]
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, errors.New("ahp: degenerate principal eigenvector")
	}
	for i := range w {
		w[i] /= sum
	}
	return w, nil
}
