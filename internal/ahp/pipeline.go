package ahp

import (
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of one preferences -> weights run.
type Result struct {
	Weights          []float64   `json:"weights"`
	ConsistencyRatio float64     `json:"consistency_ratio"`
	Projected        bool        `json:"projected"`
	ProjectedRatio   float64     `json:"projected_ratio"`
	Matrix           [][]float64 `json:"matrix"`
}

type options struct {
	threshold float64
}

// Option tunes PreferencesToWeights.
type Option func(*options)

// WithThreshold overrides the Consistency Ratio above which the matrix is
// projected before weight extraction. Non-positive values are ignored.
func WithThreshold(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.threshold = t
		}
	}
}

// PreferencesToWeights runs the full AHP pipeline: build the comparison
// matrix, check its consistency, project it when CR >= threshold and extract
// the priority vector. Every failure is returned as *WeightingError; the
// pipeline never substitutes weights on its own.
func PreferencesToWeights(values []float64, mode Mode, opts ...Option) (Result, error) {
	o := options{threshold: DefaultThreshold}
	for _, fn := range opts {
		fn(&o)
	}

	a, err := BuildMatrix(values, mode)
	if err != nil {
		return Result{}, &WeightingError{Stage: "matrix", Err: err}
	}

	cr, err := ConsistencyRatio(a)
	if err != nil {
		return Result{}, &WeightingError{Stage: "consistency", Err: err}
	}

	res := Result{ConsistencyRatio: cr, ProjectedRatio: cr}
	if cr >= o.threshold {
		a = Project(a)
		res.Projected = true
		if res.ProjectedRatio, err = ConsistencyRatio(a); err != nil {
			return Result{}, &WeightingError{Stage: "consistency", Err: err}
		}
	}

	w, err := PriorityWeights(a)
	if err != nil {
		return Result{}, &WeightingError{Stage: "weights", Err: err}
	}
	res.Weights = w
	res.Matrix = toRows(a)
	return res, nil
}

func toRows(a mat.Matrix) [][]float64 {
	r, c := a.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = a.At(i, j)
		}
	}
	return rows
}
