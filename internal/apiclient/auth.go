package apiclient

import (
	"context"
	"net/http"

	"github.com/me/blogfront/pkg/model"
)

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the API's answer to a successful sign-in.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Token       string       `json:"token"`
	TokenType   string       `json:"tokenType"`
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Roles       []model.Role `json:"roles"`
}

// Credential returns the bearer token, whichever field the API filled.
func (a *AuthResponse) Credential() string {
	if a.AccessToken != "" {
		return a.AccessToken
	}
	return a.Token
}

// User returns the signed-in identity.
func (a *AuthResponse) User() model.User {
	return model.User{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Roles:    a.Roles,
	}
}

// SignupRequest creates a user account. Roles are lower-case role names.
type SignupRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=20"`
	Email    string   `json:"email" validate:"required,email,max=50"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Roles    []string `json:"roles,omitempty" validate:"dive,oneof=admin editor user"`
}

// SignIn exchanges credentials for a token and identity.
func (c *Client) SignIn(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	if err := validatePayload(in); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, in SignupRequest) error {
	if err := validatePayload(in); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/auth/signup", nil, in, nil)
}
