package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie carrying the browser context id.
const CookieName = "blogfront_session"

// ContextIDFromRequest returns the browser context id from the request cookie,
// or "" when the visitor has none.
func ContextIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie sets the context cookie on the response.
func SetCookie(w http.ResponseWriter, contextID string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    contextID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearCookie removes the context cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
