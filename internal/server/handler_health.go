package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/me/blogfront/internal/store"
	"github.com/me/blogfront/pkg/model"
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Backend   string `json:"session_backend"`
	Sessions  *int   `json:"sessions,omitempty"`
	API       string `json:"api"`
}

// handleHealth reports liveness and whether the session backend answers.
// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Backend:   s.config.Session.Backend,
		API:       s.api.BaseURL(),
	}

	if p, ok := s.backend.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("health: session backend unreachable", "error", err)
			resp.Status = "unhealthy"
			respondError(w, reqID, http.StatusServiceUnavailable, resp, model.NewUnavailableError("session backend", err))
			return
		}
	}
	if c, ok := s.backend.(store.Counter); ok {
		n, err := c.CountSessions(ctx)
		if err != nil {
			s.logger.Warn("health: count sessions", "error", err)
			resp.Status = "unhealthy"
			respondError(w, reqID, http.StatusServiceUnavailable, resp, model.NewUnavailableError("session backend", err))
			return
		}
		resp.Sessions = &n
	}

	respondOK(w, reqID, resp)
}
