package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/me/blogfront/internal/metrics"
	"github.com/me/blogfront/internal/store"
	"github.com/me/blogfront/pkg/model"
)

var (
	// ErrEmptyToken is returned by Login when no bearer credential is given.
	ErrEmptyToken = errors.New("session: empty token")
	// ErrInvalidUser is returned by Login when the user lacks an id, a username or a role.
	ErrInvalidUser = errors.New("session: invalid user")
)

// Store is the session of one browser context. It keeps an in-memory State in
// step with the persisted record for that context. Login, Logout and CheckAuth
// are serialized; concurrent CheckAuth calls share one backend read.
type Store struct {
	id      string
	backend store.Store
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	state State
	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

func newStore(id string, backend store.Store, logger *slog.Logger, ttl time.Duration, now func() time.Time) *Store {
	return &Store{
		id:      id,
		backend: backend,
		logger:  logger.With("context_id", id),
		ttl:     ttl,
		now:     now,
		subs:    make(map[int]chan State),
	}
}

// ID returns the browser context id this store belongs to.
func (s *Store) ID() string {
	return s.id
}

// State returns a snapshot of the in-memory state. It does not consult the backend.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login persists user and token as one record and marks the context authenticated.
// If the record cannot be written the in-memory state is left unchanged.
func (s *Store) Login(ctx context.Context, user model.User, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !user.Valid() {
		return ErrInvalidUser
	}
	user.Roles = slices.Clone(user.Roles)

	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	now := s.now()
	rec := &model.SessionRecord{
		ID:        s.id,
		Token:     token,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: recordExpiry(now, s.ttl, token),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.SaveSession(ctx, rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.setLocked(authenticated(&user, token))

	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.logger.Info("session started", "user", user.Username, "roles", user.RoleNames(), "expires_at", rec.ExpiresAt)
	return nil
}

// Logout deletes the persisted record and resets the in-memory state. The state
// is reset even when the delete fails; the error is still returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.DeleteSession(ctx, s.id)
	if s.setLocked(loggedOut()) {
		metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
		s.logger.Info("session ended")
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CheckAuth reconciles the in-memory state with the persisted record and returns
// the settled state. A record that is missing, expired, lacks a credential or
// carries an unusable profile yields the logged-out state and is deleted.
// A backend read failure also yields logged-out but leaves the record alone.
func (s *Store) CheckAuth(ctx context.Context) State {
	// The shared read must not be cut short by whichever caller arrived first.
	shared := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do("check", func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reconcileLocked(shared)
		return s.state, nil
	})
	return v.(State)
}

func (s *Store) reconcileLocked(ctx context.Context) {
	rec, err := s.backend.GetSession(ctx, s.id)
	switch {
	case errors.Is(err, model.ErrCorruptRecord):
		s.purgeLocked(ctx, "corrupt record", err)
		return
	case err != nil:
		metrics.SessionEventsTotal.WithLabelValues("read_error").Inc()
		s.logger.Warn("session read failed", "error", err)
		s.setLocked(loggedOut())
		return
	case rec == nil:
		s.setLocked(loggedOut())
		return
	case rec.IsExpired():
		s.purgeLocked(ctx, "expired", nil)
		return
	case rec.Token == "":
		s.purgeLocked(ctx, "missing token", nil)
		return
	}

	user, err := decodeProfile(rec.Profile)
	if err != nil {
		s.purgeLocked(ctx, "invalid profile", err)
		return
	}
	next := authenticated(user, rec.Token)
	if s.state.equal(next) {
		return
	}
	s.setLocked(next)
}

func decodeProfile(raw json.RawMessage) (*model.User, error) {
	if len(raw) == 0 {
		return nil, errors.New("profile missing")
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	if !user.Valid() {
		return nil, ErrInvalidUser
	}
	return &user, nil
}

func (s *Store) purgeLocked(ctx context.Context, reason string, cause error) {
	s.logger.Debug("purging session record", "reason", reason, "error", cause)
	if err := s.backend.DeleteSession(ctx, s.id); err != nil {
		s.logger.Warn("purge session record", "error", err)
	}
	metrics.SessionEventsTotal.WithLabelValues("purged").Inc()
	s.setLocked(loggedOut())
}

// Credential returns the bearer token in the persisted record, or "" when there
// is no usable record.
func (s *Store) Credential(ctx context.Context) string {
	rec, err := s.backend.GetSession(ctx, s.id)
	if err != nil || rec == nil || rec.IsExpired() {
		return ""
	}
	return rec.Token
}

// Expire ends the session because the blog API rejected its credential.
func (s *Store) Expire(ctx context.Context) {
	metrics.SessionEventsTotal.WithLabelValues("expired").Inc()
	s.logger.Warn("credential rejected by API, clearing session")
	if err := s.Logout(ctx); err != nil {
		s.logger.Warn("clear rejected session", "error", err)
	}
}

// Subscribe returns a channel that receives the new State after every change.
// Only the latest undelivered state is kept. Call the returned func to unsubscribe;
// it closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// setLocked installs next and notifies subscribers if it differs from the
// current state. It reports whether the state changed.
func (s *Store) setLocked(next State) bool {
	if s.state.equal(next) {
		return false
	}
	s.state = next
	s.notify(next)
	return true
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// Replace the stale value.
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
