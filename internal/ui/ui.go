package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/guard"
	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/pkg/model"
)

const (
	defaultPageSize = 10
	adminPageSize   = 12
)

// UI handles the web user interface.
type UI struct {
	api       *apiclient.Client
	sessions  *session.Manager
	guard     *guard.Guard
	logger    *slog.Logger
	limiter   *loginLimiter
	startTime time.Time
	secure    bool // Use secure cookies (HTTPS)
}

// Config holds UI configuration.
type Config struct {
	Secure             bool    // Use secure cookies for HTTPS
	LoginRatePerMinute float64 // Login attempts allowed per client per minute; 0 disables the limit
	LoginBurst         int
}

// New creates a new UI handler.
func New(api *apiclient.Client, sessions *session.Manager, g *guard.Guard, logger *slog.Logger, cfg Config) *UI {
	return &UI{
		api:       api,
		sessions:  sessions,
		guard:     g,
		logger:    logger.With("component", "ui"),
		limiter:   newLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
		startTime: time.Now(),
		secure:    cfg.Secure,
	}
}

// currentSession returns the visitor's session store and its settled state.
// Visitors without a context cookie get a nil store and the logged-out state.
func (ui *UI) currentSession(r *http.Request) (*session.Store, session.State) {
	if s, ok := session.FromContext(r.Context()); ok {
		return s, s.State()
	}
	s := ui.guard.StoreFor(r)
	if s == nil {
		return nil, session.State{}
	}
	return s, s.CheckAuth(r.Context())
}

// apiContext returns a context whose API calls carry the visitor's credential.
func (ui *UI) apiContext(r *http.Request) context.Context {
	s, _ := ui.currentSession(r)
	if s == nil {
		return r.Context()
	}
	return apiclient.WithSession(r.Context(), s)
}

// pageData starts a template data map with the fields the layout needs.
func (ui *UI) pageData(r *http.Request, title string) map[string]any {
	_, st := ui.currentSession(r)
	data := map[string]any{
		"Title":  title + " - BlogFront",
		"Notice": r.URL.Query().Get("notice"),
		"Error":  r.URL.Query().Get("error"),
	}
	if st.IsAuthenticated {
		data["User"] = st.User
		data["Home"] = ui.guard.Navigator().HomeFor(st.User.Roles)
	}
	return data
}

// failAPI is the single funnel for blog API errors. A rejected credential has
// already cleared the session; the visitor is sent to the login page. Anything
// else is shown in place.
func (ui *UI) failAPI(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		ui.logger.Info("session expired during request", "path", r.URL.Path)
		session.ClearCookie(w)
		guard.Redirect(w, r, ui.guard.Navigator().Login())
	case apiclient.IsStatus(err, http.StatusNotFound):
		ui.renderNotFound(w, r, message)
	case apiclient.IsStatus(err, http.StatusForbidden):
		ui.renderStatus(w, r, http.StatusForbidden, guard.DeniedNotice, err)
	default:
		ui.renderError(w, r, message, err)
	}
}

func pageParam(r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p >= 0 {
		return p
	}
	return 0
}

func buildPagination[T any](page *model.Page[T], base string) map[string]any {
	return map[string]any{
		"Total":    page.TotalElements,
		"Page":     page.Number,
		"Pages":    page.TotalPages,
		"HasNext":  page.HasNext(),
		"HasPrev":  page.HasPrev(),
		"NextPage": page.Number + 1,
		"PrevPage": max(0, page.Number-1),
		"Base":     base,
	}
}

func (ui *UI) render(w http.ResponseWriter, template string, data map[string]any) {
	ui.renderWithStatus(w, http.StatusOK, template, data)
}

func (ui *UI) renderWithStatus(w http.ResponseWriter, status int, template string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderFragment renders a layout-free partial for htmx swaps.
func (ui *UI) renderFragment(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderPartial(&buf, name, data); err != nil {
		ui.logger.Error("fragment render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, r *http.Request, message string, err error) {
	ui.renderStatus(w, r, http.StatusInternalServerError, message, err)
}

func (ui *UI) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if status >= 500 {
		ui.logger.Error(message, "error", err)
	} else {
		ui.logger.Debug(message, "status", status, "error", err)
	}
	data := ui.pageData(r, "Error")
	data["Message"] = message
	data["Status"] = status
	ui.renderWithStatus(w, status, "error", data)
}

func (ui *UI) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	data := ui.pageData(r, "Not Found")
	data["Message"] = message
	data["Status"] = http.StatusNotFound
	ui.renderWithStatus(w, http.StatusNotFound, "error", data)
}

// HandleNotFound renders the 404 page for unknown routes.
func (ui *UI) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	ui.renderNotFound(w, r, "Page not found")
}
