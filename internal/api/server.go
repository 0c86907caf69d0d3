// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/advisor"
	"github.com/prismlab/prism/internal/analytics"
	handlers "github.com/prismlab/prism/internal/api/handler/api"
	"github.com/prismlab/prism/internal/api/job"
	"github.com/prismlab/prism/internal/api/middleware"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
	"github.com/prismlab/prism/internal/storage/archive"
)

// Server represents the PRISM HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Dependencies holds the wired components the routes need. Runs,
// Narrator and Metrics may be nil when the matching feature is not
// configured.
type Dependencies struct {
	Runs     *archive.RunStore
	Advisor  *advisor.Advisor
	Narrator *narrator.Narrator
	Jobs     *job.Store
	Metrics  *metrics.Registry
	Defaults analytics.Params
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if deps.Jobs == nil {
		return nil, fmt.Errorf("job store is required")
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	analyze := handlers.NewAnalyzeHandler(deps.Defaults, deps.Runs, deps.Narrator, deps.Metrics, s.logger)
	compare := handlers.NewCompareHandler(deps.Runs, deps.Metrics)
	sensitivity := handlers.NewSensitivityHandler()
	advice := handlers.NewAdviceHandler(deps.Advisor, deps.Narrator, deps.Metrics, s.logger)
	sweeps := handlers.NewSweepsHandler(deps.Jobs, deps.Defaults, deps.Metrics, s.logger)
	runs := handlers.NewRunsHandler(deps.Runs, deps.Metrics)

	// Middleware chain for authenticated API routes
	chain := func(h http.HandlerFunc) http.Handler {
		var handler http.Handler = h
		handler = middleware.APIKeyAuth(cfg.APIKey)(handler)
		if deps.Metrics != nil {
			handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
		}
		handler = metrics.LoggingMiddleware(s.logger)(handler)
		return handler
	}

	s.mux.Handle("/api/v1/analyze", chain(analyze.Create))
	s.mux.Handle("/api/v1/compare", chain(compare.Create))
	s.mux.Handle("/api/v1/sensitivity", chain(sensitivity.Create))
	s.mux.Handle("/api/v1/advice", chain(advice.Create))

	s.mux.Handle("/api/v1/sweeps", chain(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			response.Error(w, http.StatusMethodNotAllowed,
				core.WrapError(core.ErrInvalidInput, nil))
			return
		}
		sweeps.Create(w, r)
	}))
	s.mux.Handle("/api/v1/sweeps/", chain(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/sweeps/")
		if id == "" || strings.Contains(id, "/") || r.Method != http.MethodGet {
			response.Error(w, http.StatusNotFound, core.ErrJobNotFound)
			return
		}
		sweeps.GetStatus(w, r, id)
	}))

	if deps.Runs != nil {
		s.mux.Handle("/api/v1/runs", chain(runs.List))
		s.mux.Handle("/api/v1/runs/", chain(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
			if id == "" || strings.Contains(id, "/") {
				response.Error(w, http.StatusNotFound, core.ErrRunNotFound)
				return
			}
			switch r.Method {
			case http.MethodGet:
				runs.Get(w, r, id)
			case http.MethodDelete:
				runs.Delete(w, r, id)
			default:
				w.Header().Set("Allow", "GET, DELETE")
				response.Error(w, http.StatusMethodNotAllowed,
					core.WrapError(core.ErrInvalidInput, nil))
			}
		}))
	}

	// Unauthenticated endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
