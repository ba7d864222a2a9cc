// Package api eflrscan REST API
//
// @title           eflrscan REST API
// @version         1.0.0
// @description     Scan RP66 files for explicitly formatted logical records and browse stored results.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/ssargent/eflrscan/pkg/scan"
)

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>eflrscan API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter wires every route of the API. Metrics are served from gatherer.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(server.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))
		r.Get("/registry", metrics.InstrumentHandler("GET", "/api/v1/registry", server.handleRegistry))

		r.Post("/scans", metrics.InstrumentHandler("POST", "/api/v1/scans", server.handleCreateScan))
		r.Get("/scans", metrics.InstrumentHandler("GET", "/api/v1/scans", server.handleListScans))
		r.Get("/scans/{id}", metrics.InstrumentHandler("GET", "/api/v1/scans/{id}", server.handleGetScan))
		r.Delete("/scans/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/scans/{id}", server.handleDeleteScan))
		r.Get("/scans/{id}/objects/{object}/{kind}",
			metrics.InstrumentHandler("GET", "/api/v1/scans/{id}/objects/{object}/{kind}", server.handleGetFrame))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/swagger/", "/swagger/index.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(swaggerUI))
		case "/swagger/swagger.json":
			doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
			if err != nil {
				level.Error(server.logger).Log("msg", "generating swagger doc", "err", err)
				sendError(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(doc))
		default:
			http.NotFound(w, r)
		}
	})

	return r
}

// StartServer serves the API until ctx is cancelled
func StartServer(ctx context.Context, store ScanStore, config ServerConfig, logger log.Logger) error {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server := NewServer(store, config, NewMetrics(reg), scan.NewMetrics(reg), logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go server.startMetricsUpdater(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Bind, config.Port),
		Handler:           NewRouter(server, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "starting eflrscan REST API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
