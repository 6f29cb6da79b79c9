package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Role is a coarse-grained permission tag attached to a user.
type Role string

const (
	// RoleAdmin manages users and every post.
	RoleAdmin Role = "ADMIN"
	// RoleEditor writes and publishes posts.
	RoleEditor Role = "EDITOR"
	// RoleUser is a registered reader with no panel access.
	RoleUser Role = "USER"
)

// upstreamRolePrefix is the prefix the blog API puts on role names.
const upstreamRolePrefix = "ROLE_"

// ParseRole normalises a role tag: "ROLE_admin", "admin" and "ADMIN" all map to RoleAdmin.
func ParseRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	return Role(strings.TrimPrefix(s, upstreamRolePrefix))
}

// UnmarshalJSON accepts "ADMIN", the upstream "ROLE_ADMIN" form, and the
// {"name": "ROLE_ADMIN"} role entity some user listings return.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseRole(s)
		return nil
	}
	var entity struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &entity); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	*r = ParseRole(entity.Name)
	return nil
}

// Lower returns the lower-case role name used by signup and role-change requests.
func (r Role) Lower() string {
	return strings.ToLower(string(r))
}

// User is the identity of a signed-in blog user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	return u != nil && slices.Contains(u.Roles, role)
}

// HasAnyRole reports whether the user's roles intersect the given set.
func (u *User) HasAnyRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsEditor returns true if the user has editor role.
func (u *User) IsEditor() bool {
	return u.HasRole(RoleEditor)
}

// Valid reports whether the record is complete enough to back a session:
// an id, a username and at least one role.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Username != "" && len(u.Roles) > 0
}

// Equal reports whether two users describe the same identity and roles.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.ID == o.ID && u.Username == o.Username && u.Email == o.Email && slices.Equal(u.Roles, o.Roles)
}

// RoleNames returns the roles as plain strings, for display.
func (u *User) RoleNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}
