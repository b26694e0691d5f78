// Package server exposes the aligner over HTTP with chi.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/katalvlaran/seqalign/internal/config"
	"github.com/katalvlaran/seqalign/internal/metrics"
	"github.com/katalvlaran/seqalign/internal/service"
)

// Router creates and configures the HTTP router.
type Router struct {
	aligner *service.Aligner
	cfg     config.ServerConfig
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil, in which
// case /metrics is not mounted.
func NewRouter(
	aligner *service.Aligner,
	cfg config.ServerConfig,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		aligner: aligner,
		cfg:     cfg,
		metrics: collector,
		logger:  logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	router.Use(Metrics(rt.metrics))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", AlignmentIDHeader},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		h := NewAlignHandler(rt.aligner, rt.cfg.MaxBodyBytes, rt.logger)
		r.Post("/align", h.Align)
		r.Get("/modes", h.Modes)
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
