package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/tacboard/internal/domain/session"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/render"
	"github.com/rpggio/tacboard/internal/repository"
)

// Reporter builds filtered reports over a session's dataset.
type Reporter interface {
	Report(ctx context.Context, sessionID string, c tac.Criteria) (tac.Report, error)
}

// SessionCloser drops a session so its next request loads a fresh dataset.
type SessionCloser interface {
	Close(id string) bool
}

// Config wires the HTTP surface.
type Config struct {
	Reports  Reporter
	Sessions SessionCloser
	MCP      http.Handler
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	reports  Reporter
	sessions SessionCloser
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewServer creates the dashboard router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		reports:  cfg.Reports,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware(cfg.Metrics))

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)
		r.Use(srv.refresh)

		r.Get("/", srv.handleDashboard)
		r.Get("/chart.svg", srv.handleChart)
		r.Get("/export/{format}", srv.handleExport)
		r.Get("/api/report", srv.handleAPIReport)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.ExecuteTemplate(&buf, "base", newDashboardData(report)); err != nil {
		s.logger.Error("render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.PieSVG(&buf, report.Slices); err != nil {
		if errors.Is(err, render.ErrNothingToChart) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Error("render chart", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.Export(&buf, format, report); err != nil {
		s.logger.Error("export", "format", format, "error", err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	s.metrics.ObserveExport(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tacs.%s", format.Extension()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.Error("encode report", "error", err)
	}
}

// report builds the report for the request criteria and session. On failure
// it writes the error response and returns false.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (tac.Report, bool) {
	sessionID, _ := SessionIDFromContext(r.Context())
	report, err := s.reports.Report(r.Context(), sessionID, CriteriaFromRequest(r))
	if err != nil {
		code := statusForError(err)
		if code == StatusClientClosedRequest {
			s.logger.Debug("report cancelled by client", "session_id", sessionID, "error", err)
			w.WriteHeader(code)
			return tac.Report{}, false
		}
		s.logger.Warn("report failed", "session_id", sessionID, "status", code, "error", err)
		http.Error(w, err.Error(), code)
		return tac.Report{}, false
	}
	s.metrics.ObserveReport(report.Empty())
	return report, true
}

// refresh drops the current session when ?refresh=1 is set.
func (s *Server) refresh(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("refresh") == "1" {
			if id, ok := SessionIDFromContext(r.Context()); ok {
				s.sessions.Close(id)
				s.logger.Debug("session refreshed", "session_id", id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CriteriaFromRequest reads the filter criteria from the query string.
func CriteriaFromRequest(r *http.Request) tac.Criteria {
	q := r.URL.Query()
	return tac.Criteria{
		Document: q.Get("documento"),
		Status:   q.Get("status"),
		Search:   q.Get("q"),
	}.Normalize()
}

// StatusClientClosedRequest is answered when the client went away before the
// report was ready. The body is never read.
const StatusClientClosedRequest = 499

func statusForError(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, repository.ErrMalformed),
		errors.Is(err, tac.ErrSchemaMismatch):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, session.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
