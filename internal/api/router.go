package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func NewRouter(svc *ranking.Service, s store.Store, adminToken string, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	rankings := NewRankingsHandler(svc, logger)
	candidates := NewCandidatesHandler(s)
	explain := NewExplainHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/criteria", rankings.Criteria)
		r.Post("/weights", rankings.Weights)
		r.Post("/rankings", rankings.Rank)
		r.Post("/rankings/export", rankings.Export)
		r.Post("/rankings/explain/{code}", explain.Explain)

		r.Get("/candidates/{code}", candidates.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/candidates", candidates.List)
		})
	})

	return r
}

func NewMetricsRouter(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())
	return r
}
