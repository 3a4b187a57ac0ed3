package ahp

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// intransitive: 1 > 2, 2 > 3, but 3 > 1.
func intransitive() *mat.Dense {
	a, _ := BuildMatrix([]float64{9, 1.0 / 9, 9}, ModePairwise)
	return a
}

func TestRandomIndex(t *testing.T) {
	assert.Equal(t, 0.0, RandomIndex(1))
	assert.Equal(t, 0.0, RandomIndex(2))
	assert.Equal(t, 0.52, RandomIndex(3))
	assert.Equal(t, 1.35, RandomIndex(7))
	assert.Equal(t, 1.56, RandomIndex(13))
	assert.Equal(t, 1.35, RandomIndex(14), "above the table falls back to the n=7 value")
}

func TestConsistencyRatioConsistentMatrix(t *testing.T) {
	a, err := BuildMatrix([]float64{2, 4, 2}, ModePairwise)
	require.NoError(t, err)

	cr, err := ConsistencyRatio(a)
	require.NoError(t, err)
	assert.InDelta(t, 0, cr, 1e-9)
}

func TestConsistencyRatioSmallMatrices(t *testing.T) {
	for _, values := range [][]float64{{}, {7}} {
		a, err := BuildMatrix(values, ModePairwise)
		require.NoError(t, err)
		cr, err := ConsistencyRatio(a)
		require.NoError(t, err)
		assert.Equal(t, 0.0, cr)
	}
}

func TestConsistencyRatioIntransitive(t *testing.T) {
	cr, err := ConsistencyRatio(intransitive())
	require.NoError(t, err)
	assert.Greater(t, cr, DefaultThreshold)
}

func TestProjectYieldsConsistentReciprocal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scale := []float64{1.0 / 9, 1.0 / 7, 1.0 / 5, 1.0 / 3, 1, 3, 5, 7, 9}

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(7)
		values := make([]float64, n*(n-1)/2)
		for i := range values {
			values[i] = scale[rng.Intn(len(scale))]
		}
		a, err := BuildMatrix(values, ModePairwise)
		require.NoError(t, err)

		cr, err := ConsistencyRatio(a)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cr, 0.0)

		p := Project(a)
		assert.True(t, IsReciprocal(p, 1e-9), "projection must stay reciprocal")

		pcr, err := ConsistencyRatio(p)
		require.NoError(t, err)
		assert.Less(t, pcr, 1e-6)

		// Idempotence.
		pp := Project(p)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				assert.InDelta(t, p.At(i, j), pp.At(i, j), 1e-9)
			}
		}
	}
}

func TestProjectConsistentMatrixIsUnchanged(t *testing.T) {
	a, err := BuildMatrix([]float64{2, 4, 8, 2, 4, 2}, ModePairwise)
	require.NoError(t, err)

	p := Project(a)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, a.At(i, j), p.At(i, j), 1e-9)
		}
	}
}

func TestPriorityWeightsConsistent(t *testing.T) {
	// Weights proportional to 4:2:1.
	a, err := BuildMatrix([]float64{2, 4, 2}, ModePairwise)
	require.NoError(t, err)

	w, err := PriorityWeights(a)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/7, w[0], 1e-9)
	assert.InDelta(t, 2.0/7, w[1], 1e-9)
	assert.InDelta(t, 1.0/7, w[2], 1e-9)
}

func TestPriorityWeightsSingleCriterion(t *testing.T) {
	a, err := BuildMatrix([]float64{5}, ModeRanking)
	require.NoError(t, err)
	w, err := PriorityWeights(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, w)
}

func TestPreferencesToWeightsRankingExample(t *testing.T) {
	res, err := PreferencesToWeights([]float64{1, 1, 10}, ModeRanking)
	require.NoError(t, err)
	require.Len(t, res.Weights, 3)

	w := res.Weights
	assert.InDelta(t, w[0], w[1], 1e-9)
	assert.Less(t, w[2], w[0])
	assert.InDelta(t, 9.0/19, w[0], 1e-6)
	assert.InDelta(t, 1.0/19, w[2], 1e-6)
	assert.InDelta(t, 1, sum(w), 1e-9)
	assert.False(t, res.Projected)
}

func TestPreferencesToWeightsEqualRanksAreUniform(t *testing.T) {
	for n := 1; n <= 10; n++ {
		ranks := make([]float64, n)
		for i := range ranks {
			ranks[i] = 4
		}
		res, err := PreferencesToWeights(ranks, ModeRanking)
		require.NoError(t, err)
		for _, w := range res.Weights {
			assert.InDelta(t, 1.0/float64(n), w, 1e-9)
		}
	}
}

func TestPreferencesToWeightsRankingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(10)
		ranks := make([]float64, n)
		for i := range ranks {
			ranks[i] = float64(rng.Intn(11))
		}
		res, err := PreferencesToWeights(ranks, ModeRanking)
		require.NoError(t, err, "ranks %v", ranks)
		require.Len(t, res.Weights, n)
		for _, w := range res.Weights {
			assert.GreaterOrEqual(t, w, 0.0)
		}
		assert.InDelta(t, 1, sum(res.Weights), 1e-9)
		if res.Projected {
			assert.Less(t, res.ProjectedRatio, 1e-6)
		}
	}
}

func TestPreferencesToWeightsZeroImportanceStaysPositive(t *testing.T) {
	res, err := PreferencesToWeights([]float64{1, 2, 0}, ModeRanking)
	require.NoError(t, err)

	w := res.Weights
	assert.Greater(t, w[2], 0.0, "zero-importance criterion keeps a positive weight")
	assert.Less(t, w[2], w[1])
	assert.Less(t, w[1], w[0])
}

func TestPreferencesToWeightsProjectsInconsistentInput(t *testing.T) {
	res, err := PreferencesToWeights([]float64{9, 1.0 / 9, 9}, ModePairwise)
	require.NoError(t, err)
	assert.True(t, res.Projected)
	assert.Greater(t, res.ConsistencyRatio, DefaultThreshold)
	assert.Less(t, res.ProjectedRatio, 1e-6)
	assert.InDelta(t, 1, sum(res.Weights), 1e-9)
}

func TestPreferencesToWeightsThresholdOption(t *testing.T) {
	// Mildly inconsistent ranks: 1, 2, 3 -> ratios 2, 3, 2 (2*2 != 3).
	base, err := PreferencesToWeights([]float64{1, 2, 3}, ModeRanking)
	require.NoError(t, err)
	require.Greater(t, base.ConsistencyRatio, 0.0)
	assert.False(t, base.Projected)

	strict, err := PreferencesToWeights([]float64{1, 2, 3}, ModeRanking, WithThreshold(base.ConsistencyRatio/2))
	require.NoError(t, err)
	assert.True(t, strict.Projected)
}

func TestPreferencesToWeightsWrapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		mode   Mode
		target interface{}
	}{
		{"dimension", []float64{1, 2}, ModePairwise, new(*DimensionError)},
		{"mode", []float64{1, 2}, Mode("vote"), new(*InvalidModeError)},
		{"judgment", []float64{-1, 2}, ModeRanking, new(*InvalidJudgmentError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PreferencesToWeights(tt.values, tt.mode)
			require.Error(t, err)

			var wErr *WeightingError
			require.True(t, errors.As(err, &wErr), "expected WeightingError, got %T", err)
			assert.Equal(t, "matrix", wErr.Stage)
			assert.True(t, errors.As(err, tt.target))
		})
	}
}

func TestPreferencesToWeightsMatrixIsReported(t *testing.T) {
	res, err := PreferencesToWeights([]float64{1, 3}, ModeRanking)
	require.NoError(t, err)
	require.Len(t, res.Matrix, 2)
	assert.Equal(t, 3.0, res.Matrix[0][1])
	assert.False(t, math.IsNaN(res.Matrix[1][0]))
}
