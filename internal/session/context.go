package session

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the browser context's Store.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Store placed in ctx by NewContext.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(contextKey{}).(*Store)
	return s, ok && s != nil
}
