package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/me/blogfront/internal/metrics"
)

// Session is the part of a session store the transport needs.
type Session interface {
	// Credential returns the bearer token to present, or "" for none.
	Credential(ctx context.Context) string
	// Expire clears the session after the API rejected its credential.
	Expire(ctx context.Context)
}

type sessionKey struct{}

// WithSession returns a copy of ctx whose API calls act on behalf of s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// Transport attaches the session's bearer credential to outgoing requests and
// expires the session when the API answers 401. Requests without a session in
// their context, or whose session has no credential, are sent bare.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sess := sessionFrom(ctx)

	if sess != nil {
		if token := sess.Credential(ctx); token != "" {
			req = req.Clone(ctx)
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	metrics.UpstreamRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		if t.Logger != nil {
			t.Logger.Warn("blog api rejected credential", "method", req.Method, "path", req.URL.Path)
		}
		sess.Expire(ctx)
	}
	return resp, nil
}
