// Package http exposes the catalog over a chi router: the public
// catalog reads, the secret-gated revalidation endpoint, health checks
// and metrics.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/housevarsha/catalog-service/internal/catalog"
	"github.com/housevarsha/catalog-service/pkg/health"
	"github.com/housevarsha/catalog-service/pkg/middleware"
)

// RouterConfig carries the handler-level knobs.
type RouterConfig struct {
	Environment        string
	AllowedOrigins     []string
	RevalidationSecret string
	RevalidateRPS      int
	RevalidateBurst    int
	CacheMaxAgeSeconds int
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *catalog.Service,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(catalogService, cfg.RevalidationSecret, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CacheMaxAgeSeconds))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/settings", catalogHandler.GetSettings)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RevalidateRPS, cfg.RevalidateBurst, logger))

			r.Post("/revalidate", catalogHandler.Revalidate)
		})
	})

	return r
}
