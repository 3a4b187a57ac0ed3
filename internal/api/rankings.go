package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/Locus/internal/export"
	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
)

type RankingsHandler struct {
	svc    *ranking.Service
	logger *slog.Logger
}

func NewRankingsHandler(svc *ranking.Service, logger *slog.Logger) *RankingsHandler {
	return &RankingsHandler{svc: svc, logger: logger}
}

type criteriaResponse struct {
	Criteria        []scoring.Criterion `json:"criteria"`
	Mode            string              `json:"default_mode"`
	ImportanceScale int                 `json:"importance_scale"`
	Threshold       float64             `json:"consistency_threshold"`
	Comparisons     int                 `json:"pairwise_comparisons"`
}

// Criteria lists the configured criteria in matrix order.
// GET /api/v1/criteria
func (h *RankingsHandler) Criteria(w http.ResponseWriter, r *http.Request) {
	s := h.svc.Settings()
	n := len(s.Criteria)
	writeJSON(w, http.StatusOK, criteriaResponse{
		Criteria:        s.Criteria,
		Mode:            string(s.DefaultMode),
		ImportanceScale: s.ImportanceScale,
		Threshold:       s.Threshold,
		Comparisons:     n * (n - 1) / 2,
	})
}

// Weights turns preferences into criterion weights without ranking.
// POST /api/v1/weights
func (h *RankingsHandler) Weights(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Weights(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Rank scores every candidate against the submitted preferences.
// POST /api/v1/rankings
func (h *RankingsHandler) Rank(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Rank(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Export ranks like Rank and streams the table as a file. Without a limit
// the whole table is written.
// POST /api/v1/rankings/export?format=csv|xlsx
func (h *RankingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = -1
	}
	res, err := h.svc.Rank(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	report := export.Report{
		Candidates:       res.Candidates,
		Criteria:         scoring.CriterionIDs(res.Weighting.Criteria),
		Weights:          res.Weighting.Weights,
		ConsistencyRatio: res.Weighting.ConsistencyRatio,
		Projected:        res.Weighting.Projected,
		Fallback:         res.Weighting.Fallback,
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ranking-%s.%s"`, res.RunID, format.Extension()))
	if err := export.Write(w, format, report); err != nil {
		h.logger.Error("export failed", "run_id", res.RunID, "format", format, "error", err)
	}
}
