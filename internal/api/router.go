package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/currypot/recommender/internal/config"
	"github.com/currypot/recommender/internal/scoring"
)

func NewRouter(svc Recommender, scorer *scoring.Scorer, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware())
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	rec := NewRecommendHandler(svc, cfg.Recommend.DefaultLimit)
	explain := NewExplainHandler(scorer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Curry Pot AI Recommendation Service",
			"status":  "running",
		})
	})
	r.Get("/health", healthHandler)

	r.Post("/recommend", rec.Recommend)

	r.Group(func(r chi.Router) {
		r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
		r.Post("/scoring/explain", explain.Explain)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "ai-recommendation"})
}
