// Package ranking runs the full preference-to-ranking flow for one request:
// weights from preferences, travel hours, normalization and scoring.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Locus/internal/accessibility"
	"github.com/MikeSquared-Agency/Locus/internal/ahp"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

const topEventEntries = 5

type Service struct {
	store    store.Store
	hermes   hermes.Client
	metrics  *metrics.Metrics
	settings Settings
	logger   *slog.Logger
}

// NewService wires a ranking service. hermes may be nil when running
// without an event bus.
func NewService(st store.Store, h hermes.Client, m *metrics.Metrics, settings Settings, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		hermes:   h,
		metrics:  m,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the parameters the service was built with.
func (s *Service) Settings() Settings {
	return s.settings
}

// Weights runs only the preference weighting, including the equal-weight
// fallback.
func (s *Service) Weights(req Request) (*Weighting, error) {
	w, _, err := s.weigh(req)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// weigh returns the weighting and, when it fell back, the failure that
// caused it. A weight vector that does not cover the configured criteria
// counts as a failure of the weights stage.
func (s *Service) weigh(req Request) (*Weighting, *ahp.WeightingError, error) {
	start := time.Now()
	defer func() { s.metrics.Duration.WithLabelValues("weights").Observe(time.Since(start).Seconds()) }()

	criteria := s.settings.Criteria
	mode, values, err := s.preferences(req)
	w := &Weighting{Mode: mode, Criteria: criteria}

	var res ahp.Result
	if err == nil {
		res, err = ahp.PreferencesToWeights(values, mode, ahp.WithThreshold(s.settings.Threshold))
	}
	var weights scoring.Weights
	if err == nil {
		if weights, err = scoring.WeightsFromVector(criteria, res.Weights); err != nil {
			err = &ahp.WeightingError{Stage: "weights", Err: err}
		}
	}

	var werr *ahp.WeightingError
	if errors.As(err, &werr) {
		w.Weights = scoring.EqualWeights(scoring.CriterionIDs(criteria))
		w.Fallback = true
		w.Warnings = append(w.Warnings, fmt.Sprintf("could not derive weights from preferences (%v); using equal weights", werr.Err))
		s.metrics.Fallbacks.WithLabelValues(werr.Stage).Inc()
		s.logger.Warn("weighting failed, using equal weights", "stage", werr.Stage, "mode", mode, "error", werr.Err)
		return w, werr, nil
	}
	if err != nil {
		return nil, nil, err
	}

	w.Weights = weights
	w.ConsistencyRatio = res.ConsistencyRatio
	w.Projected = res.Projected
	w.ProjectedRatio = res.ProjectedRatio
	w.Matrix = res.Matrix

	s.metrics.Consistency.Observe(res.ConsistencyRatio)
	if res.Projected {
		s.metrics.Projections.Inc()
		w.Warnings = append(w.Warnings, fmt.Sprintf("preferences were inconsistent (CR %.3f); adjusted to the nearest consistent judgments", res.ConsistencyRatio))
	}
	return w, nil, nil
}

// Rank scores the stored candidates against the request's preferences.
func (s *Service) Rank(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	weighting, werr, err := s.weigh(req)
	if err != nil {
		s.metrics.Rankings.WithLabelValues(string(s.settings.DefaultMode), "rejected").Inc()
		return nil, err
	}
	profile, err := s.profile(req)
	if err != nil {
		s.metrics.Rankings.WithLabelValues(modeLabel(weighting.Mode), "rejected").Inc()
		return nil, err
	}
	if req.Population != nil && req.Population.Min > req.Population.Max {
		return nil, fmt.Errorf("%w: population range min %v above max %v", ErrInvalidRequest, req.Population.Min, req.Population.Max)
	}

	res := &Result{
		RunID:     runID,
		Weighting: *weighting,
		Warnings:  weighting.Warnings,
	}

	cands, err := s.store.ListCandidates(ctx, store.CandidateFilter{Codes: req.Codes})
	if err != nil {
		s.metrics.Rankings.WithLabelValues(modeLabel(weighting.Mode), "error").Inc()
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	if req.Population != nil {
		cands = scoring.FilterRange(cands, s.settings.PopulationColumn, req.Population.Min, req.Population.Max)
	}

	ranked, err := s.score(cands, weighting.Weights, profile, res)
	if errors.Is(err, scoring.ErrEmptyCandidateSet) {
		res.Empty = true
		res.Candidates = []store.Candidate{}
		res.Warnings = append(res.Warnings, "no candidates match the filters")
	} else if err != nil {
		s.metrics.Rankings.WithLabelValues(modeLabel(weighting.Mode), "error").Inc()
		return nil, err
	} else {
		res.Total = len(ranked)
		if req.Sensitivity {
			rep, err := scoring.Sensitivity(ranked, weighting.Weights, s.settings.Sensitivity)
			if err != nil {
				return nil, fmt.Errorf("sensitivity: %w", err)
			}
			res.Sensitivity = rep
		}
		if s.settings.ParetoEnabled {
			for _, c := range scoring.Frontier(ranked, s.settings.Criteria) {
				res.Frontier = append(res.Frontier, c.Code)
			}
		}
		res.Candidates = truncate(ranked, s.limit(req))
		if req.Explain {
			res.Explanations = make(map[string][]scoring.FactorResult, len(res.Candidates))
			for _, c := range res.Candidates {
				res.Explanations[c.Code] = scoring.Explain(c, weighting.Weights)
			}
		}
	}

	res.ComputedAt = time.Now().UTC()
	res.Duration = time.Since(start)
	res.DurationMs = res.Duration.Milliseconds()

	outcome := "ok"
	if weighting.Fallback {
		outcome = "fallback"
	}
	s.metrics.Rankings.WithLabelValues(modeLabel(weighting.Mode), outcome).Inc()
	s.metrics.Duration.WithLabelValues("total").Observe(res.Duration.Seconds())
	s.metrics.Candidates.Set(float64(res.Total))

	s.publish(res, werr)
	s.logger.Info("ranking computed",
		"run_id", runID,
		"mode", weighting.Mode,
		"candidates", res.Total,
		"cr", weighting.ConsistencyRatio,
		"projected", weighting.Projected,
		"fallback", weighting.Fallback,
		"duration_ms", res.DurationMs,
	)
	return res, nil
}

// score runs travel hours, normalization and aggregation on cands.
func (s *Service) score(cands []store.Candidate, w scoring.Weights, profile accessibility.Profile, res *Result) ([]store.Candidate, error) {
	if len(cands) == 0 {
		return nil, scoring.ErrEmptyCandidateSet
	}

	if s.settings.usesAccessibility() {
		start := time.Now()
		travel, err := accessibility.Compute(cands, s.settings.Catalog, profile)
		if err != nil {
			var lvl *accessibility.UnknownLevelError
			if errors.As(err, &lvl) || errors.Is(err, accessibility.ErrInvalidProfile) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
			return nil, fmt.Errorf("accessibility: %w", err)
		}
		cands, err = accessibility.Annotate(cands, travel, s.settings.AccessibilityColumn)
		if err != nil {
			return nil, err
		}
		if len(travel) > 0 {
			res.Period = travel[0].Period
		}
		s.metrics.Duration.WithLabelValues("accessibility").Observe(time.Since(start).Seconds())
	}

	start := time.Now()
	norm, err := scoring.Normalize(cands, s.settings.Criteria)
	if err != nil {
		return nil, err
	}
	ranked, err := scoring.Score(norm, w)
	if err != nil {
		return nil, err
	}
	s.metrics.Duration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())
	return ranked, nil
}

// modeLabel keeps unknown request modes out of metric label values.
func modeLabel(m ahp.Mode) string {
	switch m {
	case ahp.ModeRanking, ahp.ModePairwise:
		return string(m)
	}
	return "invalid"
}

// limit resolves the response size. A negative request limit returns the
// whole table.
func (s *Service) limit(req Request) int {
	switch {
	case req.Limit > 0:
		return req.Limit
	case req.Limit < 0:
		return 0
	}
	return s.settings.MaxResults
}

func truncate(cands []store.Candidate, n int) []store.Candidate {
	if n > 0 && len(cands) > n {
		return cands[:n]
	}
	return cands
}

func (s *Service) publish(res *Result, werr *ahp.WeightingError) {
	if s.hermes == nil {
		return
	}
	now := time.Now().UTC()

	if werr != nil {
		evt := hermes.RankingFallbackEvent{RunID: res.RunID, Stage: werr.Stage, Error: werr.Err.Error(), Timestamp: now}
		if err := hermes.PublishRankingFallback(s.hermes, evt); err != nil {
			s.logger.Warn("failed to publish fallback event", "run_id", res.RunID, "error", err)
		}
	}

	evt := hermes.RankingComputedEvent{
		RunID:            res.RunID,
		Mode:             string(res.Weighting.Mode),
		Candidates:       res.Total,
		Weights:          res.Weighting.Weights,
		ConsistencyRatio: res.Weighting.ConsistencyRatio,
		Projected:        res.Weighting.Projected,
		Fallback:         res.Weighting.Fallback,
		DurationMs:       res.DurationMs,
		Timestamp:        now,
	}
	for _, c := range truncate(res.Candidates, topEventEntries) {
		evt.Top = append(evt.Top, hermes.RankedEntry{Code: c.Code, Name: c.Name, Rank: c.Rank, DisplayScore: c.DisplayScore})
	}
	if err := hermes.PublishRankingComputed(s.hermes, evt); err != nil {
		s.logger.Warn("failed to publish ranking event", "run_id", res.RunID, "error", err)
	}
}
