package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/session"
)

var errNotLoggedIn = errors.New("not logged in; run 'blogfront login' first")

// profile returns the session store of the selected profile.
func profile() *session.Store {
	return sessions.Open(flagProfile)
}

// authedContext rehydrates the profile's session and returns a context whose
// API calls carry its credential.
func authedContext(ctx context.Context) (context.Context, session.State, error) {
	s := profile()
	st := s.CheckAuth(ctx)
	if !st.IsAuthenticated {
		return nil, st, errNotLoggedIn
	}
	return apiclient.WithSession(ctx, s), st, nil
}

// apiFailure turns API errors into CLI messages. A rejected credential has
// already removed the saved session.
func apiFailure(action string, err error) error {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return fmt.Errorf("%s: session expired; run 'blogfront login' again", action)
	}
	return fmt.Errorf("%s: %w", action, err)
}
