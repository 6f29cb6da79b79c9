package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/session"
)

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	// Signed-in visitors go straight to their home area.
	if _, st := ui.currentSession(r); st.IsAuthenticated {
		http.Redirect(w, r, ui.guard.Navigator().HomeFor(st.Roles()), http.StatusSeeOther)
		return
	}

	ui.render(w, "login", ui.pageData(r, "Login"))
}

// HandleLoginPost processes the login form.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if !ui.limiter.Allow(r) {
		ui.logger.Warn("login rate limited", "client", clientKey(r))
		loginFailed(w, r, "Too many sign-in attempts. Try again in a minute.")
		return
	}

	if err := r.ParseForm(); err != nil {
		loginFailed(w, r, "Invalid request")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		loginFailed(w, r, "Username and password required")
		return
	}

	resp, err := ui.api.SignIn(r.Context(), apiclient.LoginRequest{Username: username, Password: password})
	if err != nil {
		ui.logger.Warn("login failed", "username", username, "error", err)
		loginFailed(w, r, signInMessage(err))
		return
	}

	// A fresh browser context per sign-in; whatever the old cookie pointed at is retired.
	if old := ui.guard.StoreFor(r); old != nil {
		if err := old.Logout(r.Context()); err != nil {
			ui.logger.Warn("retire previous session", "session", old.ID(), "error", err)
		}
		ui.sessions.Forget(old.ID())
	}

	id, err := ui.sessions.NewContextID()
	if err != nil {
		ui.logger.Error("generate context id", "error", err)
		loginFailed(w, r, "Session creation failed")
		return
	}

	user := resp.User()
	s := ui.sessions.Open(id)
	if err := s.Login(r.Context(), user, resp.Credential()); err != nil {
		ui.logger.Error("create session failed", "username", username, "error", err)
		ui.sessions.Forget(id)
		loginFailed(w, r, "Session creation failed")
		return
	}

	session.SetCookie(w, id, time.Now().Add(ui.sessions.TTL()), ui.secure)

	ui.logger.Info("user logged in", "username", user.Username, "session", id)
	http.Redirect(w, r, ui.guard.Navigator().HomeFor(user.Roles), http.StatusSeeOther)
}

func loginFailed(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func signInMessage(err error) string {
	var verr *apiclient.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case apiclient.IsStatus(err, http.StatusUnauthorized), apiclient.IsStatus(err, http.StatusBadRequest):
		return "Invalid username or password"
	default:
		return "Sign-in is unavailable right now"
	}
}

// HandleLogout clears the session and redirects to login.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if s := ui.guard.StoreFor(r); s != nil {
		username := ""
		if st := s.State(); st.User != nil {
			username = st.User.Username
		}
		if err := s.Logout(r.Context()); err != nil {
			ui.logger.Warn("logout: delete session record", "session", s.ID(), "error", err)
		}
		ui.sessions.Forget(s.ID())
		ui.logger.Info("user logged out", "username", username, "session", s.ID())
	}
	session.ClearCookie(w)
	http.Redirect(w, r, ui.guard.Navigator().Login(), http.StatusSeeOther)
}
