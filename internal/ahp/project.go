package ahp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Project maps a reciprocal matrix onto the nearest fully consistent
// reciprocal matrix in the logarithmic least-squares sense. The result is
// transitive, so its Consistency Ratio is zero, and projecting it again
// returns the same matrix up to rounding.
func Project(a mat.Matrix) *mat.Dense {
	n, _ := a.Dims()

	// Row sums of the element-wise log.
	rows := make([]float64, n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			rows[i] += math.Log(a.At(i, k))
		}
	}

	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, math.Exp((rows[i]-rows[j])/float64(n)))
		}
	}

	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				out.Set(i, j, 1)
				continue
			}
			out.Set(i, j, (b.At(i, j)+1/b.At(j, i))/2)
		}
	}
	return out
}
