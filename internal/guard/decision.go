package guard

import (
	"net/url"

	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/pkg/model"
)

// DeniedNotice is shown to signed-in visitors who lack the required role.
const DeniedNotice = "You do not have permission to access this area."

// Kind is the outcome of a guard evaluation.
type Kind int

const (
	Authorized Kind = iota
	Unauthenticated
	RoleDenied
)

func (k Kind) String() string {
	switch k {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case RoleDenied:
		return "role_denied"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one visit to a protected area.
type Decision struct {
	Kind     Kind
	Redirect string // empty when Authorized
	Notice   string // human-readable reason, RoleDenied only
}

// Allowed reports whether the protected content may be rendered.
func (d Decision) Allowed() bool {
	return d.Kind == Authorized
}

// Location is the redirect target with the notice attached as a query parameter.
func (d Decision) Location() string {
	if d.Notice == "" {
		return d.Redirect
	}
	return d.Redirect + "?notice=" + url.QueryEscape(d.Notice)
}

// Requirement is the role condition attached to a protected area. A visitor
// qualifies when their roles intersect AllowedRoles; an empty set admits any
// signed-in visitor.
type Requirement struct {
	AllowedRoles []model.Role
}

// Roles builds a Requirement from a list of roles.
func Roles(roles ...model.Role) Requirement {
	return Requirement{AllowedRoles: roles}
}

// SatisfiedBy reports whether u qualifies. A Requirement with no roles admits
// any signed-in user.
func (r Requirement) SatisfiedBy(u *model.User) bool {
	return len(r.AllowedRoles) == 0 || u.HasAnyRole(r.AllowedRoles...)
}

// Evaluate decides whether state may view the area at path. Authentication is
// checked before roles, so a visitor without a session always goes to login.
func Evaluate(state session.State, req Requirement, nav Navigator, path string) Decision {
	if !state.IsAuthenticated {
		return Decision{Kind: Unauthenticated, Redirect: nav.Login()}
	}
	if req.SatisfiedBy(state.User) {
		return Decision{Kind: Authorized}
	}

	dest := nav.HomeFor(state.Roles())
	if dest == "" || dest == path {
		dest = nav.Public()
	}
	return Decision{Kind: RoleDenied, Redirect: dest, Notice: DeniedNotice}
}
