// Package guard gates protected areas of the site on session state and role.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/me/blogfront/internal/metrics"
	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/pkg/model"
)

// DefaultRecheckInterval is how often Watch re-reads the persisted session
// to pick up changes made by other instances.
const DefaultRecheckInterval = 30 * time.Second

// Guard resolves access decisions for browser contexts. It reads session
// state but never changes it.
type Guard struct {
	sessions *session.Manager
	nav      Navigator
	logger   *slog.Logger
	recheck  time.Duration
}

// Option configures a Guard.
type Option func(*Guard)

// WithNavigator overrides the default navigation targets.
func WithNavigator(nav Navigator) Option {
	return func(g *Guard) { g.nav = nav }
}

// WithRecheckInterval sets the Watch re-check period. Zero disables it.
func WithRecheckInterval(d time.Duration) Option {
	return func(g *Guard) { g.recheck = d }
}

// New creates a Guard over the given session manager.
func New(sessions *session.Manager, logger *slog.Logger, opts ...Option) *Guard {
	g := &Guard{
		sessions: sessions,
		nav:      DefaultRoutes(),
		logger:   logger.With("component", "guard"),
		recheck:  DefaultRecheckInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Navigator returns the guard's navigation targets.
func (g *Guard) Navigator() Navigator {
	return g.nav
}

// StoreFor returns the session of the request's browser context, or nil when
// the request carries no context cookie or one NewContextID could not have issued.
func (g *Guard) StoreFor(r *http.Request) *session.Store {
	id := session.ContextIDFromRequest(r)
	if !session.ValidContextID(id) {
		return nil
	}
	return g.sessions.Open(id)
}

// Resolve waits for the session to settle and evaluates it against req.
// A nil store means no browser context exists yet.
func (g *Guard) Resolve(ctx context.Context, s *session.Store, req Requirement, path string) Decision {
	if s == nil {
		return Evaluate(session.State{}, req, g.nav, path)
	}
	return Evaluate(s.CheckAuth(ctx), req, g.nav, path)
}

// Require returns middleware admitting only visitors that satisfy roles.
// Admitted requests carry their session store in the request context.
func (g *Guard) Require(area string, roles ...model.Role) func(http.Handler) http.Handler {
	req := Roles(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := g.StoreFor(r)
			d := g.Resolve(r.Context(), s, req, r.URL.Path)
			metrics.GuardDecisionsTotal.WithLabelValues(area, d.Kind.String()).Inc()

			if d.Allowed() {
				next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
				return
			}

			g.logger.Debug("access denied", "area", area, "path", r.URL.Path, "decision", d.Kind.String(), "redirect", d.Redirect)
			Redirect(w, r, d.Location())
		})
	}
}

// Redirect sends the visitor to location: a 303 for normal requests, or an
// HX-Redirect header for htmx requests so the whole page navigates.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
