package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/platefeed/platefeed/internal/metrics"
	"github.com/platefeed/platefeed/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates an HTTP handler with all routes configured.
// db may be nil, in which case readiness always reports ok.
func NewServer(logger *slog.Logger, feed *service.Feed, db Pinger) http.Handler {
	mux := chi.NewRouter()

	mux.Use(RequestID)
	mux.Use(Logging(logger))
	mux.Use(Recovery(logger))
	mux.Use(metrics.Metrics)

	cfg := huma.DefaultConfig("platefeed", "1.0.0")
	cfg.DocsPath = "/docs"
	humaAPI := humachi.New(mux, cfg)

	registerFeedRoutes(humaAPI, NewFeedHandler(feed, logger))

	health := NewHealthHandler(db, logger)
	mux.Get("/livez", health.Livez)
	mux.Get("/readyz", health.Readyz)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
