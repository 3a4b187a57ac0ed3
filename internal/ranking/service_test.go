package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Locus/internal/accessibility"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

type published struct {
	subject string
	data    interface{}
}

type mockHermes struct {
	published []published
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	m.published = append(m.published, published{subject, data})
	return nil
}
func (m *mockHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockHermes) Close()                                           {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Criteria = []scoring.Criterion{
		{ID: "air", Column: "aire", Orientation: scoring.Benefit},
		{ID: "schools", Column: "educacion", Orientation: scoring.Benefit},
		{ID: "price", Column: "precio", Orientation: scoring.Cost},
	}
	s.PopulationColumn = "poblacion"
	return s
}

func testCandidates() []store.Candidate {
	return []store.Candidate{
		{Code: "a", Name: "Alpha", Attributes: map[string]float64{"aire": 9, "educacion": 3, "precio": 4000, "poblacion": 200000}},
		{Code: "b", Name: "Bravo", Attributes: map[string]float64{"aire": 4, "educacion": 8, "precio": 2500, "poblacion": 15000}},
		{Code: "c", Name: "Charlie", Attributes: map[string]float64{"aire": 6, "educacion": 6, "precio": 1500, "poblacion": 4000}},
		{Code: "d", Name: "Delta", Attributes: map[string]float64{"aire": 2, "educacion": 2, "precio": 3800, "poblacion": 900}},
	}
}

func newTestService(t *testing.T, settings Settings) (*Service, *mockHermes, *metrics.Metrics) {
	t.Helper()
	h := &mockHermes{}
	m := metrics.New()
	return NewService(store.NewMemoryStore(testCandidates()), h, m, settings, discardLogger()), h, m
}

func TestRankByImportance(t *testing.T) {
	svc, h, _ := newTestService(t, testSettings())

	res, err := svc.Rank(context.Background(), Request{Importance: []float64{10, 1, 1}, Explain: true})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.Weighting.Fallback)
	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Candidates, 4)

	w := res.Weighting.Weights
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.Greater(t, w["air"], w["schools"])
	assert.InDelta(t, w["schools"], w["price"], 1e-9)

	assert.Equal(t, "a", res.Candidates[0].Code, "cleanest air wins when air dominates")
	assert.Equal(t, 100.0, res.Candidates[0].DisplayScore)
	for i, c := range res.Candidates {
		assert.Equal(t, i+1, c.Rank)
	}
	assert.Len(t, res.Explanations["a"], 3)
	assert.Empty(t, res.Period, "no accessibility criterion configured")

	require.Len(t, h.published, 1)
	assert.Equal(t, hermes.SubjectRankingComputed(res.RunID), h.published[0].subject)
	evt := h.published[0].data.(hermes.RankingComputedEvent)
	assert.Equal(t, 4, evt.Candidates)
	assert.Equal(t, "a", evt.Top[0].Code)
}

func TestRankFallsBackToEqualWeights(t *testing.T) {
	settings := testSettings()
	settings.DefaultMode = "pairwise"
	svc, h, m := newTestService(t, settings)

	// A zero judgment is rejected by the matrix builder.
	res, err := svc.Rank(context.Background(), Request{Comparisons: []float64{3, 0, 2}})
	require.NoError(t, err)

	assert.True(t, res.Weighting.Fallback)
	for _, v := range res.Weighting.Weights {
		assert.InDelta(t, 1.0/3.0, v, 1e-12)
	}
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "equal weights")

	subjects := []string{h.published[0].subject, h.published[1].subject}
	assert.Equal(t, []string{hermes.SubjectRankingFallback(res.RunID), hermes.SubjectRankingComputed(res.RunID)}, subjects)
	fb := h.published[0].data.(hermes.RankingFallbackEvent)
	assert.Equal(t, "matrix", fb.Stage)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "locus_weighting_fallbacks_total" {
			found = f.GetMetric()[0].GetCounter().GetValue() == 1
		}
	}
	assert.True(t, found, "fallback counter incremented")
}

func TestRankProjectsInconsistentPreferences(t *testing.T) {
	svc, _, _ := newTestService(t, testSettings())

	res, err := svc.Rank(context.Background(), Request{Mode: "comparison", Comparisons: []float64{9, 1.0 / 9, 9}})
	require.NoError(t, err)
	assert.True(t, res.Weighting.Projected)
	assert.Less(t, res.Weighting.ProjectedRatio, 1e-6)
	assert.False(t, res.Weighting.Fallback)
	assert.NotEmpty(t, res.Warnings)
}

func TestRankMalformedPreferencesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		stage string
	}{
		{"too few comparisons", Request{Mode: "pairwise", Comparisons: []float64{3, 5}}, "matrix"},
		{"no preferences", Request{}, "matrix"},
		{"unknown mode", Request{Mode: "voting", Ranks: []float64{1, 2, 3}}, "matrix"},
		{"negative importance", Request{Importance: []float64{5, -1, 3}}, "matrix"},
		{"too few ranks", Request{Ranks: []float64{1, 2}}, "weights"},
		{"comparisons for two criteria", Request{Mode: "pairwise", Comparisons: []float64{3}}, "weights"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, h, _ := newTestService(t, testSettings())

			res, err := svc.Rank(context.Background(), tt.req)
			require.NoError(t, err)
			assert.True(t, res.Weighting.Fallback)
			require.NotEmpty(t, res.Warnings)
			assert.Contains(t, res.Warnings[0], "using equal weights")
			for _, id := range []string{"air", "schools", "price"} {
				assert.InDelta(t, 1.0/3.0, res.Weighting.Weights[id], 1e-9)
			}
			assert.Len(t, res.Candidates, 4)

			require.Len(t, h.published, 2)
			fb := h.published[0].data.(hermes.RankingFallbackEvent)
			assert.Equal(t, tt.stage, fb.Stage)
		})
	}
}

func TestRankRejectsInvalidFilters(t *testing.T) {
	svc, h, _ := newTestService(t, testSettings())

	tests := []struct {
		name string
		req  Request
	}{
		{"inverted population", Request{Ranks: []float64{1, 2, 3}, Population: &Range{Min: 10, Max: 1}}},
		{"bad travel answer", Request{Ranks: []float64{1, 2, 3}, Travel: &accessibility.Answers{CarUse: "never"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Rank(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	assert.Empty(t, h.published)
}

func TestRankPopulationFilter(t *testing.T) {
	svc, _, _ := newTestService(t, testSettings())

	res, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 1, 1}, Population: &Range{Min: 10000, Max: 20000}})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "b", res.Candidates[0].Code)
	assert.Equal(t, 100.0, res.Candidates[0].DisplayScore)
}

func TestRankEmptyAfterFilter(t *testing.T) {
	svc, h, _ := newTestService(t, testSettings())

	res, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 1, 1}, Population: &Range{Min: 1e7, Max: 2e7}})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Candidates)
	assert.Zero(t, res.Total)
	assert.Len(t, h.published, 1)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), `"candidates":[]`))
}

func TestRankLimitAndFrontier(t *testing.T) {
	settings := testSettings()
	settings.ParetoEnabled = true
	svc, _, _ := newTestService(t, settings)

	res, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 2, 3}, Limit: 2, Sensitivity: true})
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, 4, res.Total)
	assert.NotContains(t, res.Frontier, "d", "delta is dominated by charlie")
	assert.Contains(t, res.Frontier, "a")
	require.NotNil(t, res.Sensitivity)
	assert.Equal(t, 4, len(res.Sensitivity.BaseTop))
}

func TestRankMissingAttribute(t *testing.T) {
	settings := testSettings()
	settings.Criteria = append(settings.Criteria, scoring.Criterion{ID: "noise", Column: "ruido", Orientation: scoring.Cost})
	svc, _, _ := newTestService(t, settings)

	_, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 1, 1, 1}})
	var missing *scoring.MissingAttributeError
	assert.True(t, errors.As(err, &missing))
}

func TestRankWithAccessibility(t *testing.T) {
	settings := testSettings()
	settings.Criteria = append([]scoring.Criterion{
		{ID: scoring.CriterionAccessibility, Column: settings.AccessibilityColumn, Orientation: scoring.Cost},
	}, settings.Criteria...)
	settings.Catalog = accessibility.Catalog{
		Period: accessibility.Weekly,
		Services: []accessibility.Service{
			{Key: accessibility.Supermarket, CarColumn: "super_coche", TransitColumn: "super_tp"},
		},
	}

	cands := testCandidates()
	for i := range cands {
		cands[i].Attributes["super_coche"] = float64(5 + 5*i)
		cands[i].Attributes["super_tp"] = float64(10 + 10*i)
	}
	svc := NewService(store.NewMemoryStore(cands), nil, metrics.New(), settings, discardLogger())

	res, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 0, 0, 0}})
	require.NoError(t, err)

	assert.Equal(t, accessibility.Weekly, res.Period)
	assert.Equal(t, "a", res.Candidates[0].Code, "shortest trips win when travel dominates")
	assert.Greater(t, res.Candidates[0].Accessibility[accessibility.Supermarket], 0.0)
	assert.InDelta(t, res.Candidates[0].AccessibilityTotal, res.Candidates[0].Attributes[settings.AccessibilityColumn], 1e-12)
}

func TestWeightsOnly(t *testing.T) {
	svc, h, _ := newTestService(t, testSettings())

	w, err := svc.Weights(Request{Ranks: []float64{1, 1, 10}})
	require.NoError(t, err)
	assert.InDelta(t, 9.0/19.0, w.Weights["air"], 1e-6)
	assert.InDelta(t, 1.0/19.0, w.Weights["price"], 1e-6)
	assert.Len(t, w.Matrix, 3)
	assert.True(t, math.Abs(w.ConsistencyRatio) < 1e-6)
	assert.Empty(t, h.published, "weights alone publish nothing")
}

func TestRankNegativeLimitReturnsAll(t *testing.T) {
	settings := testSettings()
	settings.MaxResults = 1
	svc, _, _ := newTestService(t, settings)

	res, err := svc.Rank(context.Background(), Request{Ranks: []float64{1, 1, 1}})
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 1, "max_results caps the default response")

	res, err = svc.Rank(context.Background(), Request{Ranks: []float64{1, 1, 1}, Limit: -1})
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 4)
	assert.Equal(t, 4, res.Total)
}
