// Package api provides the HTTP API for StrideLab.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/api/handler"
	"github.com/stridelab/stridelab/internal/api/middleware"
	"github.com/stridelab/stridelab/internal/effort"
	"github.com/stridelab/stridelab/internal/route"
	"github.com/stridelab/stridelab/internal/splits"
	"github.com/stridelab/stridelab/internal/store"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	Store         store.Store
	EffortService *effort.Service
	SplitsService *splits.Service
	RouteService  *route.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "stridelab-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Store)
	activityHandler := handler.NewActivityHandler(cfg.EffortService, cfg.SplitsService, cfg.RouteService, cfg.Logger)
	routeHandler := handler.NewRouteHandler(cfg.EffortService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Batch ingest - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/activities:process", activityHandler.ProcessActivities)

		// Per-activity analysis lookups - standard rate limiting
		r.Route("/activities/{activityId}", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/effort", activityHandler.GetEffort)
			r.Get("/splits", activityHandler.GetSplits)
		})

		// Recognized routes - standard rate limiting
		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", routeHandler.ListRoutes)
			r.Get("/{routeId}/efforts", routeHandler.RouteEfforts)
		})

		// Route rendering - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:render", routeHandler.RenderRoute)
	})

	return r
}
