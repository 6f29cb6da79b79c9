package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/me/blogfront/pkg/model"
)

// ErrSessionExpired matches any error caused by the blog API rejecting the
// session's credential (HTTP 401). By the time the caller sees it, the session
// has already been cleared.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the blog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("blog api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("blog api: %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrSessionExpired) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.Status == http.StatusUnauthorized
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// PublishError reports a post that was saved as a draft but could not be
// published afterwards. Draft is the saved post.
type PublishError struct {
	Draft *model.Post
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("post %s saved as draft but not published: %v", e.Draft.ID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
