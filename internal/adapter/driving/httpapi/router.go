// Package httpapi exposes cost summaries over HTTP for the chart front-end.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/handlers/aggregate"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/handlers/costs"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/handlers/health"
)

// Service is everything the API needs from the dashboard use case.
type Service interface {
	costs.Service
	aggregate.Service
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	DefaultProfile string
	// DefaultDays is the cost window of /api/costs when the request omits days.
	DefaultDays    int
	AllowedOrigins []string
}

// NewRouter registers every route and middleware of the API.
func NewRouter(log *slog.Logger, svc Service, metrics *Metrics, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	profile := opts.DefaultProfile
	if profile == "" {
		profile = "default"
	}

	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}),
		metrics.Middleware,
	)

	r.Get("/healthz", health.New().ServeHTTP)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/costs", costs.New(log, svc, metrics, costs.Defaults{Profile: profile, Days: opts.DefaultDays}).ServeHTTP)
		r.Post("/aggregate", aggregate.New(log, svc, metrics).ServeHTTP)
	})

	return r
}
