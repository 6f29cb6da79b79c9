package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/config"
	"github.com/me/blogfront/internal/guard"
	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/internal/store"
	"github.com/me/blogfront/internal/ui"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server is the BlogFront web front end.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	backend   store.Store
	api       *apiclient.Client
	sessions  *session.Manager
	guard     *guard.Guard
	ui        *ui.UI // UI handler for web interface
}

// New creates a new Server with all routes registered. The session manager
// must already be initialised.
func New(cfg config.ServerConfig, sessions *session.Manager, backend store.Store, api *apiclient.Client, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		backend:   backend,
		api:       api,
		sessions:  sessions,
	}

	s.guard = guard.New(sessions, logger, guard.WithRecheckInterval(cfg.Session.RecheckInterval))
	s.ui = ui.New(api, sessions, s.guard, logger, ui.Config{
		Secure:             cfg.SecureCookies,
		LoginRatePerMinute: cfg.Login.RatePerMinute,
		LoginBurst:         cfg.Login.Burst,
	})

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(metricsMiddleware)

	// Operational endpoints (JSON / Prometheus)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)
	r.NotFound(s.ui.HandleNotFound)
}
