package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/pkg/model"
)

const usersPath = "/admin/users"

// HandleUsers lists every account.
func (ui *UI) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := ui.api.Users(ui.apiContext(r))
	if err != nil {
		ui.failAPI(w, r, "Failed to load users", err)
		return
	}

	data := ui.panelData(r, "Users", "users")
	data["Users"] = users
	ui.render(w, "users/list", data)
}

// HandleUserCreate registers an account with a single role.
func (ui *UI) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		usersFailed(w, r, "Invalid request")
		return
	}

	role := model.ParseRole(r.FormValue("role"))
	if role == "" {
		role = model.RoleUser
	}
	in := apiclient.SignupRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Roles:    []string{role.Lower()},
	}

	if err := ui.api.SignUp(ui.apiContext(r), in); err != nil {
		var verr *apiclient.ValidationError
		if errors.As(err, &verr) {
			usersFailed(w, r, verr.Error())
			return
		}
		if errors.Is(err, apiclient.ErrSessionExpired) {
			ui.failAPI(w, r, "", err)
			return
		}
		ui.logger.Warn("create user failed", "username", in.Username, "error", err)
		usersFailed(w, r, "Failed to create user: "+apiMessage(err))
		return
	}

	ui.logger.Info("user created", "username", in.Username, "role", role)
	http.Redirect(w, r, usersPath, http.StatusSeeOther)
}

// HandleUserRole changes an account's role. Admins cannot change their own.
func (ui *UI) HandleUserRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ui.isSelf(r, id) {
		usersFailed(w, r, "You cannot change your own role.")
		return
	}
	if err := r.ParseForm(); err != nil {
		usersFailed(w, r, "Invalid request")
		return
	}

	role := model.ParseRole(r.FormValue("role"))
	switch role {
	case model.RoleAdmin, model.RoleEditor, model.RoleUser:
	default:
		usersFailed(w, r, "Unknown role")
		return
	}

	if err := ui.api.UpdateUserRole(ui.apiContext(r), id, role); err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			ui.failAPI(w, r, "", err)
			return
		}
		ui.logger.Warn("update role failed", "user_id", id, "error", err)
		usersFailed(w, r, "Failed to update role: "+apiMessage(err))
		return
	}

	ui.logger.Info("user role updated", "user_id", id, "role", role)
	http.Redirect(w, r, usersPath, http.StatusSeeOther)
}

// HandleUserDelete deletes an account (htmx). Admins cannot delete themselves.
func (ui *UI) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ui.isSelf(r, id) {
		w.Header().Set("HX-Reswap", "none")
		http.Error(w, "You cannot delete your own account.", http.StatusForbidden)
		return
	}

	if err := ui.api.DeleteUser(ui.apiContext(r), id); err != nil {
		ui.failAction(w, r, "Failed to delete user", err)
		return
	}

	ui.logger.Info("user deleted", "user_id", id)
	w.WriteHeader(http.StatusOK)
}

func (ui *UI) isSelf(r *http.Request, id string) bool {
	_, st := ui.currentSession(r)
	return st.User != nil && st.User.ID == id
}

func usersFailed(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, usersPath+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}
