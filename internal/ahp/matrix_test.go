package ahp

import (
	"errors"
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"ranking", ModeRanking, false},
		{"Ranking ", ModeRanking, false},
		{"pairwise", ModePairwise, false},
		{"comparison", ModePairwise, false},
		{"vote", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				var modeErr *InvalidModeError
				if !errors.As(err, &modeErr) {
					t.Fatalf("expected InvalidModeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTriangularSize(t *testing.T) {
	tests := []struct {
		k    int
		n    int
		isOK bool
	}{
		{0, 1, true},
		{1, 2, true},
		{3, 3, true},
		{21, 7, true},
		{2, 0, false},
		{4, 0, false},
		{20, 0, false},
	}
	for _, tt := range tests {
		n, ok := TriangularSize(tt.k)
		if ok != tt.isOK {
			t.Errorf("k=%d: ok=%v, want %v", tt.k, ok, tt.isOK)
		}
		if ok && n != tt.n {
			t.Errorf("k=%d: n=%d, want %d", tt.k, n, tt.n)
		}
	}
}

func TestBuildMatrixPairwise(t *testing.T) {
	a, err := BuildMatrix([]float64{3, 5, 2}, ModePairwise)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	r, c := a.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("expected 3x3, got %dx%d", r, c)
	}
	want := [][]float64{
		{1, 3, 5},
		{1.0 / 3, 1, 2},
		{1.0 / 5, 1.0 / 2, 1},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(a.At(i, j)-want[i][j]) > 1e-12 {
				t.Errorf("A[%d][%d] = %f, want %f", i, j, a.At(i, j), want[i][j])
			}
		}
	}
	if !IsReciprocal(a, 1e-12) {
		t.Error("expected reciprocal matrix")
	}
}

func TestBuildMatrixPairwiseDimension(t *testing.T) {
	_, err := BuildMatrix([]float64{1, 2, 3, 4}, ModePairwise)
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Length != 4 {
		t.Errorf("expected length 4 in error, got %d", dimErr.Length)
	}
}

func TestBuildMatrixPairwiseRejectsNonPositive(t *testing.T) {
	_, err := BuildMatrix([]float64{3, 0, 2}, ModePairwise)
	var jErr *InvalidJudgmentError
	if !errors.As(err, &jErr) {
		t.Fatalf("expected InvalidJudgmentError, got %v", err)
	}
	if jErr.Index != 1 {
		t.Errorf("expected index 1, got %d", jErr.Index)
	}
}

func TestBuildMatrixInvalidMode(t *testing.T) {
	_, err := BuildMatrix([]float64{1, 2}, Mode("borda"))
	var modeErr *InvalidModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("expected InvalidModeError, got %v", err)
	}
}

func TestBuildMatrixRanking(t *testing.T) {
	a, err := BuildMatrix([]float64{1, 1, 10}, ModeRanking)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if a.At(0, 1) != 1 {
		t.Errorf("equal ranks: expected 1, got %f", a.At(0, 1))
	}
	// 10/1 is capped to the Saaty ceiling.
	if a.At(0, 2) != 9 || a.At(1, 2) != 9 {
		t.Errorf("expected ceiling 9, got %f and %f", a.At(0, 2), a.At(1, 2))
	}
	if math.Abs(a.At(2, 0)-1.0/9) > 1e-12 {
		t.Errorf("expected reciprocal 1/9, got %f", a.At(2, 0))
	}
	if !IsReciprocal(a, 1e-12) {
		t.Error("expected reciprocal matrix")
	}
}

func TestBuildMatrixRankingRounding(t *testing.T) {
	// 3/2 = 1.5 rounds to 2; 4/1 = 4.
	a, err := BuildMatrix([]float64{2, 3, 1, 4}, ModeRanking)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if a.At(0, 1) != 2 {
		t.Errorf("expected 2, got %f", a.At(0, 1))
	}
	if a.At(1, 0) != 0.5 {
		t.Errorf("expected 0.5, got %f", a.At(1, 0))
	}
	if a.At(2, 3) != 4 {
		t.Errorf("expected 4, got %f", a.At(2, 3))
	}
	if a.At(0, 2) != 0.5 {
		t.Errorf("rank 2 vs rank 1: expected 0.5, got %f", a.At(0, 2))
	}
}

func TestBuildMatrixRankingZeroIsLeastImportant(t *testing.T) {
	a, err := BuildMatrix([]float64{0, 1, 0}, ModeRanking)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if math.Abs(a.At(0, 1)-1.0/9) > 1e-12 {
		t.Errorf("zero vs ranked: expected 1/9, got %f", a.At(0, 1))
	}
	if a.At(1, 2) != 9 {
		t.Errorf("ranked vs zero: expected 9, got %f", a.At(1, 2))
	}
	if a.At(0, 2) != 1 {
		t.Errorf("zero vs zero: expected 1, got %f", a.At(0, 2))
	}
}

func TestBuildMatrixRankingErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := BuildMatrix(nil, ModeRanking)
		var dimErr *DimensionError
		if !errors.As(err, &dimErr) {
			t.Fatalf("expected DimensionError, got %v", err)
		}
	})
	t.Run("negative", func(t *testing.T) {
		_, err := BuildMatrix([]float64{1, -2}, ModeRanking)
		var jErr *InvalidJudgmentError
		if !errors.As(err, &jErr) {
			t.Fatalf("expected InvalidJudgmentError, got %v", err)
		}
	})
	t.Run("nan", func(t *testing.T) {
		_, err := BuildMatrix([]float64{1, math.NaN()}, ModeRanking)
		var jErr *InvalidJudgmentError
		if !errors.As(err, &jErr) {
			t.Fatalf("expected InvalidJudgmentError, got %v", err)
		}
	})
}

func TestRankCodesFromImportance(t *testing.T) {
	got, err := RankCodesFromImportance([]float64{10, 1, 0, 5, 12}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 10, 0, 6, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("code[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestRankCodesFromImportanceRejectsNegative(t *testing.T) {
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := RankCodesFromImportance([]float64{5, bad, 3}, 10)
		var je *InvalidJudgmentError
		if !errors.As(err, &je) {
			t.Fatalf("importance %v: expected InvalidJudgmentError, got %v", bad, err)
		}
		if je.Index != 1 {
			t.Errorf("importance %v: expected index 1, got %d", bad, je.Index)
		}
	}
}
