package rest

import (
	"net/http"

	"threatsync/application/ports"
	"threatsync/application/services"
	"threatsync/interfaces/http/rest/handlers"
	"threatsync/interfaces/http/rest/middleware"
	"threatsync/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the admin HTTP router. The surface is
// observational only: health, readiness, metrics and sync status.
type Router struct {
	sync    *services.SyncService
	writer  ports.GraphWriter
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	sync *services.SyncService,
	writer ports.GraphWriter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		sync:    sync,
		writer:  writer,
		metrics: metrics,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Metrics
	router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		syncHandler := handlers.NewSyncHandler(rt.sync, rt.logger)
		r.Get("/sync/status", syncHandler.GetStatus)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the graph store is reachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := rt.writer.Ping(req.Context()); err != nil {
		rt.logger.Warn("readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
