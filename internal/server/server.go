// Package server exposes the organizer over HTTP: organize requests,
// store lookups, layout listings, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pantryops/aisleflow/internal/layout"
	"github.com/pantryops/aisleflow/internal/metrics"
	"github.com/pantryops/aisleflow/internal/rules"
	"github.com/pantryops/aisleflow/internal/service"
)

// FallbackFactory builds the fallback classifier for one request. It is
// invoked per organize call so credential changes take effect without a
// restart; returning nil runs the request with the fallback disabled.
type FallbackFactory func() service.FallbackClassifier

// Server handles the HTTP API.
type Server struct {
	storage  service.Storage
	resolver *layout.Resolver
	rules    *rules.Classifier
	fallback FallbackFactory
	metrics  *metrics.Collector
	registry *prometheus.Registry
	logger   *slog.Logger
	addr     string
}

// Config holds the server's collaborators. Rules is required; everything
// else degrades gracefully when absent.
type Config struct {
	Addr     string
	Storage  service.Storage
	Rules    *rules.Classifier
	Fallback FallbackFactory
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// New creates a server. The metrics collector is registered on a private
// registry so tests can run servers side by side.
func New(cfg Config) (*Server, error) {
	if cfg.Rules == nil {
		return nil, errors.New("rule classifier is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New()
	}
	registry := prometheus.NewRegistry()
	met.Register(registry)

	var source service.LayoutSource
	if cfg.Storage != nil {
		source = cfg.Storage
	}

	return &Server{
		storage:  cfg.Storage,
		resolver: layout.NewResolver(source, logger),
		rules:    cfg.Rules,
		fallback: cfg.Fallback,
		metrics:  met,
		registry: registry,
		logger:   logger,
		addr:     cfg.Addr,
	}, nil
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/organize", s.handleOrganize)
	r.Get("/api/stores", s.handleStores)
	r.Get("/api/layouts", s.handleLayouts)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
