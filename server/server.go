// Package server exposes the dashboard over HTTP.
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/v1/controls
//	GET  /api/v1/dashboard?genre=Comedy&range=CriticRating:70:100&mode=joint-hex
//	GET  /api/v1/plot.png       same query, the selected chart as PNG
//	GET  /api/v1/heatmap.png
//	GET  /api/v1/pairplot.png   requires pairplot=true
//	POST /api/v1/reload
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/metrics"
	"github.com/spektr-org/marquee/render"
)

// Handler serves the dashboard API.
type Handler struct {
	svc    *dashboard.Service
	server config.ServerConfig
	plot   config.PlotConfig
}

// NewHandler creates the API handler.
func NewHandler(svc *dashboard.Service, cfg *config.Config) *Handler {
	return &Handler{svc: svc, server: cfg.Server, plot: cfg.Plot}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(h.server))
	r.Use(observe)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(h.server))

		r.Get("/controls", h.Controls)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/plot.png", h.PlotPNG)
		r.Get("/heatmap.png", h.HeatmapPNG)
		r.Get("/pairplot.png", h.PairplotPNG)
		r.Post("/reload", h.Reload)
	})
	return r
}

// Health reports whether the dataset is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Controls()
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": c.Rows, "loadedAt": c.LoadedAt})
}

// Controls returns what the sidebar needs.
func (h *Handler) Controls(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Controls()
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Dashboard returns the full dashboard artifact for the query's selection.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	resp, err := h.svc.Handle(r.Context(), sel)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// PlotPNG renders the selected chart.
func (h *Handler) PlotPNG(w http.ResponseWriter, r *http.Request) {
	h.figure(w, r, dashboard.PanelChart)
}

// HeatmapPNG renders the correlation heatmap.
func (h *Handler) HeatmapPNG(w http.ResponseWriter, r *http.Request) {
	h.figure(w, r, dashboard.PanelHeatmap)
}

// PairplotPNG renders the pairplot. The query must opt in with pairplot=true.
func (h *Handler) PairplotPNG(w http.ResponseWriter, r *http.Request) {
	h.figure(w, r, dashboard.PanelPairplot)
}

func (h *Handler) figure(w http.ResponseWriter, r *http.Request, panel dashboard.Panel) {
	sel, err := ParseSelection(r.URL.Query())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if panel == dashboard.PanelPairplot && !sel.Pairplot {
		respondFailure(w, r, fmt.Errorf("%w: the pairplot is built only with pairplot=true", errBadRequest))
		return
	}
	sel.Panels = []dashboard.Panel{panel}

	resp, err := h.svc.Handle(r.Context(), sel)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	var chart *engine.Chart
	switch panel {
	case dashboard.PanelChart:
		chart = resp.Chart
	case dashboard.PanelHeatmap:
		chart = resp.Heatmap
	case dashboard.PanelPairplot:
		chart = resp.Pairplot
	}

	start := time.Now()
	var buf bytes.Buffer
	err = render.PNG(&buf, chart, render.WithSize(h.plot.Width, h.plot.Height))
	metrics.ObserveRender("png", string(panel), start, err)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// Reload re-reads the dataset.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Reload(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ============================================================================
// SUPERVISED SERVICE
// ============================================================================

// Service runs an http.Server under a suture supervisor.
type Service struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewService wraps handler in an http.Server configured from cfg.
func NewService(handler http.Handler, cfg config.ServerConfig) *Service {
	return &Service{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Serve implements suture.Service. It returns ctx.Err() after a graceful
// shutdown and the listener error if the server fails.
func (s *Service) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (s *Service) String() string {
	return "http-server"
}
