// Package api exposes the computed mission plan over HTTP for downstream
// planning tools: the ground track, the mission timeline, and the derived
// eclipse windows.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sees9730/CubeSatMissionPlanner/internal/auth"
	"github.com/sees9730/CubeSatMissionPlanner/internal/elements"
	"github.com/sees9730/CubeSatMissionPlanner/internal/health"
	"github.com/sees9730/CubeSatMissionPlanner/internal/httputil"
	"github.com/sees9730/CubeSatMissionPlanner/internal/metrics"
	"github.com/sees9730/CubeSatMissionPlanner/internal/propagate"
	"github.com/sees9730/CubeSatMissionPlanner/internal/shadow"
	"github.com/sees9730/CubeSatMissionPlanner/internal/timeline"
)

// Plan bundles one satellite's computed planning products. It is built
// once at startup and served read-only.
type Plan struct {
	Satellite string
	Elements  *elements.Set
	Track     *propagate.GroundTrack
	Schedule  *timeline.Schedule
	Eclipses  []shadow.Window
}

// Server holds the HTTP server and the published plan.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	plan       atomic.Pointer[Plan]
	trustProxy bool
}

// NewServer creates a configured HTTP server. The server starts without a
// plan and reports not-ready until SetPlan is called.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, trustProxy bool) *Server {
	s := &Server{
		logger:     logger,
		trustProxy: trustProxy,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(func() bool { return s.plan.Load() != nil }))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/elements", s.elementsHandler)
	mux.HandleFunc("GET /api/v1/groundtrack", s.groundtrackHandler)
	mux.HandleFunc("GET /api/v1/timeline", s.timelineHandler)
	mux.HandleFunc("GET /api/v1/eclipses", s.eclipsesHandler)

	// Middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = s.loggingMiddleware(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// SetPlan publishes the computed plan, flipping readiness.
func (s *Server) SetPlan(p *Plan) {
	s.plan.Store(p)
}

// HTTPServer returns the underlying *http.Server for external control.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) loadPlan(w http.ResponseWriter) *Plan {
	p := s.plan.Load()
	if p == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "plan not computed yet"})
		return nil
	}
	return p
}

func (s *Server) elementsHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPlan(w)
	if p == nil {
		return
	}

	set := p.Elements
	writeJSON(w, http.StatusOK, map[string]any{
		"satellite":    set.Name,
		"norad_id":     set.NORADID,
		"epoch":        set.Epoch.UTC().Format(time.RFC3339),
		"retrieved_at": set.RetrievedAt.UTC().Format(time.RFC3339),
		"age_seconds":  set.Age(time.Now()).Seconds(),
		"source":       set.Source,
	})
}

func (s *Server) groundtrackHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPlan(w)
	if p == nil {
		return
	}

	grid := p.Track.Grid
	writeJSON(w, http.StatusOK, map[string]any{
		"satellite":    p.Satellite,
		"start":        grid.Start().Format(time.RFC3339),
		"end":          grid.End().Format(time.RFC3339),
		"step_seconds": grid.Step().Seconds(),
		"count":        p.Track.Len(),
		"samples":      p.Track.Samples,
	})
}

func (s *Server) timelineHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPlan(w)
	if p == nil {
		return
	}

	grid := p.Schedule.Grid()
	writeJSON(w, http.StatusOK, map[string]any{
		"start":        grid.Start().Format(time.RFC3339),
		"end":          grid.End().Format(time.RFC3339),
		"step_seconds": grid.Step().Seconds(),
		"count":        p.Schedule.Len(),
		"status_enum":  p.Schedule.StatusEnum(),
		"statuses":     p.Schedule.Statuses(),
	})
}

func (s *Server) eclipsesHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPlan(w)
	if p == nil {
		return
	}

	grid := p.Schedule.Grid()
	windows := make([]map[string]any, 0, len(p.Eclipses))
	for _, win := range p.Eclipses {
		start := grid.At(win.Start)
		end := grid.At(win.End)
		windows = append(windows, map[string]any{
			"start_index":      win.Start,
			"end_index":        win.End,
			"start_time":       start.Format(time.RFC3339),
			"end_time":         end.Format(time.RFC3339),
			"duration_seconds": end.Sub(start).Seconds(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(windows),
		"windows": windows,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// probePath returns true for probe paths that should log at debug only.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sr, r)

		duration := time.Since(start)
		level := slog.LevelInfo
		if probePath(r.URL.Path) {
			level = slog.LevelDebug
		}

		s.logger.Log(r.Context(), level, "request",
			"component", "api",
			"method", r.Method,
			"path", r.URL.Path,
			"status", strconv.Itoa(sr.statusCode),
			"duration_ms", duration.Milliseconds(),
			"remote_ip", httputil.ClientIP(r, s.trustProxy),
		)
	})
}
