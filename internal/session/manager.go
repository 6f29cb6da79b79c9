// Package session owns the per-browser-context authentication state of BlogFront.
//
// A Manager is constructed once per process and injected where sessions are
// needed. Each browser context (a cookie-identified browser, or a CLI profile)
// maps to one Store, which keeps the signed-in user and bearer credential in
// step with a persisted record.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/me/blogfront/internal/metrics"
	"github.com/me/blogfront/internal/store"
)

const (
	// DefaultTTL is the absolute lifetime of a session record.
	DefaultTTL = 24 * time.Hour
	// DefaultCleanupInterval is how often expired records are swept.
	DefaultCleanupInterval = 10 * time.Minute

	contextIDPrefix = "ctx_"
	contextIDBytes  = 24
)

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithCleanupInterval sets the sweep interval. Zero disables the sweep.
func WithCleanupInterval(d time.Duration) Option {
	return func(m *Manager) { m.cleanupInterval = d }
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager hands out the Store of each browser context and runs the
// expired-record sweep between Init and Dispose.
type Manager struct {
	backend         store.Store
	logger          *slog.Logger
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu     sync.Mutex
	stores map[string]*Store

	lifeMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager on top of a session backend.
func NewManager(backend store.Store, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend:         backend,
		logger:          logger.With("component", "session"),
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		stores:          make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init verifies the backend and starts the background sweep.
// It must be called once before the Manager serves requests.
func (m *Manager) Init(ctx context.Context) error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	if m.cancel != nil {
		return errors.New("session manager already initialised")
	}
	if p, ok := m.backend.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("session backend: %w", err)
		}
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel

	if m.cleanupInterval > 0 {
		m.wg.Add(1)
		go m.cleanupLoop(loopCtx)
	}
	m.logger.Info("session manager started", "ttl", m.ttl, "cleanup_interval", m.cleanupInterval)
	return nil
}

// Dispose stops the background sweep and waits for it to exit.
// Stores handed out earlier remain usable.
func (m *Manager) Dispose() {
	m.lifeMu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.lifeMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
	m.logger.Info("session manager stopped")
}

func (m *Manager) cleanupLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep deletes expired records and drops idle logged-out stores from the cache.
func (m *Manager) sweep(ctx context.Context) {
	n, err := m.backend.DeleteExpiredSessions(ctx)
	if err != nil {
		m.logger.Warn("cleanup expired sessions", "error", err)
	} else if n > 0 {
		metrics.SessionsCleanedTotal.Add(float64(n))
		m.logger.Debug("cleaned expired sessions", "count", n)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.stores {
		if !s.State().IsAuthenticated && s.subscribers() == 0 {
			delete(m.stores, id)
		}
	}
}

// Open returns the Store for a browser context, creating it on first use.
// The returned store starts logged out; call CheckAuth to rehydrate it.
func (m *Manager) Open(contextID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[contextID]; ok {
		return s
	}
	s := newStore(contextID, m.backend, m.logger, m.ttl, m.now)
	m.stores[contextID] = s
	return s
}

// Forget drops a context's Store from the cache. The persisted record is untouched.
func (m *Manager) Forget(contextID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, contextID)
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// NewContextID generates a random browser context id.
func (m *Manager) NewContextID() (string, error) {
	b := make([]byte, contextIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate context id: %w", err)
	}
	return contextIDPrefix + hex.EncodeToString(b), nil
}

// ValidContextID reports whether id has the shape NewContextID produces.
func ValidContextID(id string) bool {
	hexPart, ok := strings.CutPrefix(id, contextIDPrefix)
	if !ok || len(hexPart) != 2*contextIDBytes {
		return false
	}
	_, err := hex.DecodeString(hexPart)
	return err == nil
}
