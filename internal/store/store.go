package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/me/blogfront/pkg/model"
)

// Store persists session records, one per browser context.
// GetSession returns (nil, nil) when no record exists, and an error wrapping
// model.ErrCorruptRecord when a record exists but cannot be decoded.
type Store interface {
	GetSession(ctx context.Context, id string) (*model.SessionRecord, error)
	SaveSession(ctx context.Context, rec *model.SessionRecord) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter is implemented by backends that can count stored sessions.
type Counter interface {
	CountSessions(ctx context.Context) (int, error)
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Options selects and configures a session backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisAddr  string
	RedisDB    int
	FileDir    string
}

// Open connects to the configured backend and prepares it for use.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		st, err := NewSQLiteStore(opts.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return st, nil
	case BackendRedis:
		client, err := ConnectRedis(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, logger), nil
	case BackendFile:
		return NewFileStore(opts.FileDir, logger)
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}
