package guard

import (
	"context"
	"time"

	"github.com/me/blogfront/internal/session"
)

// Watch re-evaluates access to the area at path for as long as ctx lives.
// It sends the settled decision first and then every change, re-evaluating on
// session notifications and on a periodic re-check of the persisted record.
// The channel is closed once ctx is done.
func (g *Guard) Watch(ctx context.Context, s *session.Store, req Requirement, path string) <-chan Decision {
	out := make(chan Decision, 1)
	updates, unsubscribe := s.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		var tick <-chan time.Time
		if g.recheck > 0 {
			ticker := time.NewTicker(g.recheck)
			defer ticker.Stop()
			tick = ticker.C
		}

		last := Evaluate(s.CheckAuth(ctx), req, g.nav, path)
		if !send(ctx, out, last) {
			return
		}

		for {
			var next Decision
			select {
			case <-ctx.Done():
				return
			case st, ok := <-updates:
				if !ok {
					return
				}
				next = Evaluate(st, req, g.nav, path)
			case <-tick:
				next = Evaluate(s.CheckAuth(ctx), req, g.nav, path)
			}

			if next == last {
				continue
			}
			last = next
			if !send(ctx, out, next) {
				return
			}
		}
	}()

	return out
}

func send(ctx context.Context, out chan<- Decision, d Decision) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}
