package ahp

import (
	"fmt"
)

// DimensionError reports preference input whose length cannot describe a
// comparison matrix.
type DimensionError struct {
	Length int
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("ahp: invalid preference length %d: %s", e.Length, e.Reason)
}

// InvalidModeError reports a comparison mode other than ranking or pairwise.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("ahp: mode must be either %q or %q, got %q", ModeRanking, ModePairwise, e.Mode)
}

// InvalidJudgmentError reports a single unusable rank or ratio.
type InvalidJudgmentError struct {
	Index int
	Value float64
}

func (e *InvalidJudgmentError) Error() string {
	return fmt.Sprintf("ahp: invalid judgment %v at position %d", e.Value, e.Index)
}

// WeightingError wraps every failure of the preferences -> weights pipeline.
// Callers that want the equal-weight fallback check for this type.
type WeightingError struct {
	Stage string
	Err   error
}

func (e *WeightingError) Error() string {
	return fmt.Sprintf("weighting failed at %s: %v", e.Stage, e.Err)
}

func (e *WeightingError) Unwrap() error { return e.Err }
