package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/blogfront/pkg/model"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	// Public pages.
	r.Get("/", ui.HandleHome)
	r.Get("/blog", ui.HandleBlogList)
	r.Get("/blog/{slug}", ui.HandleBlogPost)
	r.Get("/login", ui.HandleLogin)
	r.Post("/login", ui.HandleLoginPost)
	r.Get("/logout", ui.HandleLogout)
	r.Post("/logout", ui.HandleLogout)
	r.Get("/session/events", ui.HandleSessionEvents)

	// Admin panel: admins and editors.
	r.Route("/admin", func(r chi.Router) {
		r.Use(ui.guard.Require("admin", areaAdmin.AllowedRoles...))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, adminPanel.home, http.StatusSeeOther)
		})
		r.Get("/dashboard", ui.HandleDashboard)
		r.Get("/dashboard/stats", ui.HandleStats)
		ui.postRoutes(r)

		// User management: admins only.
		r.Route("/users", func(r chi.Router) {
			r.Use(ui.guard.Require("users", model.RoleAdmin))
			r.Get("/", ui.HandleUsers)
			r.Post("/", ui.HandleUserCreate)
			r.Post("/{id}/role", ui.HandleUserRole)
			r.Delete("/{id}", ui.HandleUserDelete)
		})
	})

	// Editor panel: editors only.
	r.Route("/editor", func(r chi.Router) {
		r.Use(ui.guard.Require("editor", areaEditor.AllowedRoles...))
		r.Get("/", ui.HandleDashboard)
		r.Get("/stats", ui.HandleStats)
		ui.postRoutes(r)
	})
}

func (ui *UI) postRoutes(r chi.Router) {
	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", ui.HandlePostList)
		r.Get("/new", ui.HandlePostNew)
		r.Post("/", ui.HandlePostCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/edit", ui.HandlePostEdit)
			r.Post("/", ui.HandlePostUpdate)
			r.Post("/publish", ui.HandlePostPublish)
			r.Delete("/", ui.HandlePostDelete)
		})
	})
}
