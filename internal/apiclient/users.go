package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/blogfront/pkg/model"
)

// Users lists every account. Requires ADMIN.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserCount returns the number of accounts. Requires ADMIN.
func (c *Client) UserCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/users/count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/users/"+url.PathEscape(id), nil, nil, nil)
}

// UpdateUserRole grants role to an account. The blog API adds it to the
// account's existing roles.
func (c *Client) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	body := map[string]string{"role": role.Lower()}
	return c.do(ctx, http.MethodPut, "/api/auth/users/"+url.PathEscape(id)+"/role", nil, body, nil)
}
