package handler

import (
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rolodex/rolodex/internal/metrics"
	"github.com/rolodex/rolodex/internal/middleware"
	"github.com/rolodex/rolodex/internal/service"
)

// RouterConfig wires services and settings into the HTTP router.
type RouterConfig struct {
	Logger    *slog.Logger
	APIPrefix string

	AuthService    *service.AuthService
	ContactService *service.ContactService
	Tokens         middleware.TokenVerifier

	// HealthChecks are pinged by /readyz.
	HealthChecks map[string]HealthChecker
	Metrics      metrics.Snapshotter

	CORS                 middleware.CORSConfig
	IsDevelopment        bool
	MaxRequestBodySize   int64
	ExposeInternalErrors bool
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := New(logger, cfg.ExposeInternalErrors)
	healthHandler := NewHealthHandler(cfg.HealthChecks)
	metricsHandler := NewMetricsHandler(cfg.Metrics)
	authHandler := NewAuthHandler(base, cfg.AuthService)
	contactHandler := NewContactHandler(base, cfg.ContactService)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)

	// Operational endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/openapi.yaml", OpenAPI)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: cfg.Tokens,
	}

	api := func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", contactHandler.List)
				r.Post("/", contactHandler.Create)
				r.Get("/{id}", contactHandler.Get)
				r.Put("/{id}", contactHandler.Update)
				r.Delete("/{id}", contactHandler.Delete)
			})

			r.Get("/dashboard/stats", contactHandler.Stats)
		})
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		r.Group(api)
	} else {
		r.Route(prefix, api)
	}

	return r
}
