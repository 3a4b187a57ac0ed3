package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestCountersAreRegistered(t *testing.T) {
	m := New()
	m.Rankings.WithLabelValues("ranking", "ok").Inc()
	m.Rankings.WithLabelValues("pairwise", "fallback").Inc()
	m.Fallbacks.WithLabelValues("matrix").Inc()
	m.Projections.Inc()

	if v := counterValue(t, m, "locus_rankings_total"); v != 2 {
		t.Errorf("expected 2 rankings, got %v", v)
	}
	if v := counterValue(t, m, "locus_weighting_fallbacks_total"); v != 1 {
		t.Errorf("expected 1 fallback, got %v", v)
	}
	if v := counterValue(t, m, "locus_consistency_projections_total"); v != 1 {
		t.Errorf("expected 1 projection, got %v", v)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Consistency.Observe(0.04)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "locus_consistency_ratio_bucket") {
		t.Error("expected consistency histogram in output")
	}
}
