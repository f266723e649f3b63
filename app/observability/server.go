package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves /metrics, /healthz, and /readyz on the configured
// address. Disabled entirely when the address is empty.
type MetricsServer struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewMetricsServer builds the server. The ready func backs /readyz; pass nil
// to skip the readiness route.
func NewMetricsServer(obs *Observability, address string, ready func(context.Context) error) *MetricsServer {
	if address == "" {
		return nil
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if ready != nil {
		r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
			if err := ready(req.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
		})
	}

	return &MetricsServer{
		srv: &http.Server{
			Addr:              address,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: obs.Logger,
	}
}

// Start runs the server until Stop is called. Safe to call on a nil receiver.
func (m *MetricsServer) Start() {
	if m == nil {
		return
	}
	go func() {
		m.logger.Info("metrics server listening", slog.String("address", m.srv.Addr))
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
}

func (m *MetricsServer) Stop(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}
