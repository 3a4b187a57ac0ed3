package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
)

type ExplainHandler struct {
	svc *ranking.Service
}

func NewExplainHandler(svc *ranking.Service) *ExplainHandler {
	return &ExplainHandler{svc: svc}
}

// Explain ranks with the submitted preferences and returns the scoring
// breakdown of one candidate.
// POST /api/v1/rankings/explain/{code}
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Limit = -1
	req.Explain = false

	res, err := h.svc.Rank(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	for _, c := range res.Candidates {
		if c.Code != code {
			continue
		}
		resp := map[string]interface{}{
			"run_id":        res.RunID,
			"code":          c.Code,
			"name":          c.Name,
			"rank":          c.Rank,
			"of":            res.Total,
			"score":         c.Score,
			"display_score": c.DisplayScore,
			"factors":       scoring.Explain(c, res.Weighting.Weights),
			"weighting":     res.Weighting,
		}
		if c.Accessibility != nil {
			resp["accessibility_breakdown"] = c.Accessibility
			resp["accessibility_total"] = c.AccessibilityTotal
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeError(w, http.StatusNotFound, "candidate not ranked")
}
