// Package admin serves the operational endpoints of a long-running
// ingestion run: a liveness probe and the Prometheus metrics exposition.
// It is only started when `decora ingest` is given --metrics-addr.
package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/decora/pkg/logger"
	"github.com/shashiranjanraj/decora/pkg/metrics"
)

// Serve starts the admin HTTP server on addr in the background and returns
// it so the caller can Shutdown once the run finishes.
func Serve(addr string) *http.Server {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("admin endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin endpoint stopped", "error", err)
		}
	}()

	return srv
}
