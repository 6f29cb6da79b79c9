package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry returns the exp claim of a JWT bearer token. The signature is not
// checked: the blog API owns verification, the front end only needs to know
// when to stop presenting the token.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// recordExpiry is now+ttl, capped by the token's own expiry when it has one.
func recordExpiry(now time.Time, ttl time.Duration, token string) time.Time {
	exp := now.Add(ttl)
	if tokExp, ok := tokenExpiry(token); ok && tokExp.Before(exp) {
		return tokExp
	}
	return exp
}
