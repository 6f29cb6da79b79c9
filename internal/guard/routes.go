package guard

import "github.com/me/blogfront/pkg/model"

// Navigator supplies the navigation targets the guard redirects to.
type Navigator interface {
	// Login is the login entry point.
	Login() string
	// Public is the public fallback.
	Public() string
	// HomeFor is the default destination for a signed-in user with the given roles.
	HomeFor(roles []model.Role) string
}

// RoleHome maps a role to its post-login destination.
type RoleHome struct {
	Role model.Role
	Path string
}

// Routes is a static Navigator. Homes are checked in order, so list the most
// privileged role first.
type Routes struct {
	LoginPath  string
	PublicPath string
	Homes      []RoleHome
}

// DefaultRoutes returns the BlogFront navigation targets.
func DefaultRoutes() Routes {
	return Routes{
		LoginPath:  "/login",
		PublicPath: "/",
		Homes: []RoleHome{
			{Role: model.RoleAdmin, Path: "/admin/dashboard"},
			{Role: model.RoleEditor, Path: "/editor"},
		},
	}
}

func (r Routes) Login() string  { return r.LoginPath }
func (r Routes) Public() string { return r.PublicPath }

func (r Routes) HomeFor(roles []model.Role) string {
	for _, h := range r.Homes {
		for _, role := range roles {
			if role == h.Role {
				return h.Path
			}
		}
	}
	return r.PublicPath
}
