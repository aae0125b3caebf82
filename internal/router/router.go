package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-life-planner/internal/config"
	"go-life-planner/internal/handler"
	"go-life-planner/internal/middleware"
)

type Handlers struct {
	Recycle *handler.RecycleHandler
	Entity  *handler.EntityHandler
	Docs    *handler.DocsHandler
	Health  http.HandlerFunc

	// Metrics is nil when METRICS_ENABLED is false.
	Metrics prometheus.Gatherer
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.WriteRateLimitRPM, cfg.TrustedProxies)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	health := h.Health
	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}
	}
	r.Get("/health", health)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.RequireAuth)

		api.Route("/recycle", func(recycle chi.Router) {
			recycle.Get("/", h.Recycle.List)
			recycle.Post("/", h.Recycle.Archive)
			recycle.Delete("/", h.Recycle.Clear)
			recycle.Get("/{id}", h.Recycle.Get)
			recycle.Delete("/{id}", h.Recycle.Delete)
			recycle.Post("/{id}/restore", h.Recycle.Restore)
		})

		api.Route("/entities/{type}", func(entities chi.Router) {
			entities.Get("/", h.Entity.List)
			entities.Post("/", h.Entity.Create)
			entities.Get("/{id}", h.Entity.Get)
			entities.Delete("/{id}", h.Entity.Delete)
		})
	})

	return r
}
