package ranking

import (
	"errors"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Locus/internal/accessibility"
	"github.com/MikeSquared-Agency/Locus/internal/ahp"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// ErrInvalidRequest marks requests rejected before any work is done.
var ErrInvalidRequest = errors.New("invalid ranking request")

// Range bounds a numeric column, both ends inclusive.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Request carries one user's preferences. In ranking mode either Importance
// (user scale, higher is more important, 0 is no importance) or Ranks (codes,
// 1 is most important) is given, one value per criterion. In pairwise mode
// Comparisons holds the n(n-1)/2 Saaty ratios.
type Request struct {
	Mode        string                 `json:"mode,omitempty"`
	Importance  []float64              `json:"importance,omitempty"`
	Ranks       []float64              `json:"ranks,omitempty"`
	Comparisons []float64              `json:"comparisons,omitempty"`
	Travel      *accessibility.Answers `json:"travel,omitempty"`
	Profile     *accessibility.Profile `json:"profile,omitempty"`
	Population  *Range                 `json:"population,omitempty"`
	Codes       []string               `json:"codes,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
	Sensitivity bool                   `json:"sensitivity,omitempty"`
	Explain     bool                   `json:"explain,omitempty"`
}

// Weighting is the outcome of turning preferences into weights.
type Weighting struct {
	Mode             ahp.Mode            `json:"mode"`
	Criteria         []scoring.Criterion `json:"criteria"`
	Weights          scoring.Weights     `json:"weights"`
	ConsistencyRatio float64             `json:"consistency_ratio"`
	Projected        bool                `json:"projected"`
	ProjectedRatio   float64             `json:"projected_ratio"`
	Matrix           [][]float64         `json:"matrix,omitempty"`
	Fallback         bool                `json:"fallback"`
	Warnings         []string            `json:"warnings,omitempty"`
}

// Result is a ranked candidate table plus everything needed to explain it.
// Empty is set when no candidate survived filtering.
type Result struct {
	RunID        string                            `json:"run_id"`
	Weighting    Weighting                         `json:"weighting"`
	Period       accessibility.Period              `json:"period,omitempty"`
	Total        int                               `json:"total"`
	Empty        bool                              `json:"empty"`
	Candidates   []store.Candidate                 `json:"candidates"`
	Frontier     []string                          `json:"frontier,omitempty"`
	Sensitivity  *scoring.SensitivityReport        `json:"sensitivity,omitempty"`
	Explanations map[string][]scoring.FactorResult `json:"explanations,omitempty"`
	Warnings     []string                          `json:"warnings,omitempty"`
	Duration     time.Duration                     `json:"-"`
	DurationMs   int64                             `json:"duration_ms"`
	ComputedAt   time.Time                         `json:"computed_at"`
}

// preferences resolves the request into AHP input values. Mode and length
// are not checked here: the pipeline reports them as *ahp.WeightingError so
// malformed preferences end in the equal-weight fallback.
func (s *Service) preferences(req Request) (ahp.Mode, []float64, error) {
	mode := s.settings.DefaultMode
	if req.Mode != "" {
		mode = ahp.Mode(req.Mode)
		if m, err := ahp.ParseMode(req.Mode); err == nil {
			mode = m
		}
	}

	switch {
	case mode == ahp.ModePairwise:
		return mode, req.Comparisons, nil
	case len(req.Ranks) == 0 && len(req.Importance) > 0:
		codes, err := ahp.RankCodesFromImportance(req.Importance, float64(s.settings.ImportanceScale))
		if err != nil {
			return mode, nil, &ahp.WeightingError{Stage: "matrix", Err: err}
		}
		return mode, codes, nil
	default:
		return mode, req.Ranks, nil
	}
}

// profile resolves the travel profile, falling back to default answers.
func (s *Service) profile(req Request) (accessibility.Profile, error) {
	if req.Profile != nil {
		return *req.Profile, nil
	}
	answers := DefaultAnswers()
	if req.Travel != nil {
		answers = *req.Travel
	}
	p, err := accessibility.ProfileFromAnswers(answers, s.settings.BaseVisits)
	if err != nil {
		return accessibility.Profile{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return p, nil
}

// DefaultAnswers describe a household that drives a few days a week, does
// sport occasionally and has no children.
func DefaultAnswers() accessibility.Answers {
	return accessibility.Answers{
		CarUse:    accessibility.UseSometimes,
		SportUse:  accessibility.UseSometimes,
		HealthUse: accessibility.HealthCheckups,
	}
}
