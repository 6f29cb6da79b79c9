package session

import "github.com/me/blogfront/pkg/model"

// State is a snapshot of one browser context's authentication.
// IsAuthenticated holds exactly when both Token and User are set; the
// zero value is the logged-out state.
type State struct {
	User            *model.User
	Token           string
	IsAuthenticated bool
}

func authenticated(user *model.User, token string) State {
	if user == nil || token == "" {
		return loggedOut()
	}
	return State{User: user, Token: token, IsAuthenticated: true}
}

func loggedOut() State {
	return State{}
}

// Roles returns the signed-in user's roles, or nil when logged out.
func (s State) Roles() []model.Role {
	if s.User == nil {
		return nil
	}
	return s.User.Roles
}

func (s State) equal(o State) bool {
	return s.IsAuthenticated == o.IsAuthenticated &&
		s.Token == o.Token &&
		s.User.Equal(o.User)
}
