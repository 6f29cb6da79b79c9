package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/me/blogfront/pkg/model"
)

const sessionFileExt = ".json"

// FileStore implements Store as one JSON file per session under a directory.
// It backs the command-line client, where the "context" is a named profile.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates dir (0700) if needed and returns a FileStore rooted there.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir %s: %w", dir, err)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With("component", "store", "backend", "file"),
	}, nil
}

// Dir returns the directory holding the session files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+sessionFileExt), nil
}

// SaveSession writes the record to a temp file and renames it into place,
// so readers never observe a half-written session.
func (s *FileStore) SaveSession(ctx context.Context, rec *model.SessionRecord) error {
	path, err := s.path(rec.ID)
	if err != nil {
		return err
	}
	s.logger.Debug("file", "op", "write", "path", path)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+rec.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}

func (s *FileStore) GetSession(ctx context.Context, id string) (*model.SessionRecord, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("file", "op", "read", "path", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var rec model.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session %s: %w: %v", id, model.ErrCorruptRecord, err)
	}
	return &rec, nil
}

func (s *FileStore) DeleteSession(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.logger.Debug("file", "op", "remove", "path", path)

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes expired session files. Unreadable or corrupt
// files are left alone; the session layer clears those when it next reads them.
func (s *FileStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	var n int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sessionFileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		id := strings.TrimSuffix(name, sessionFileExt)
		rec, err := s.GetSession(ctx, id)
		if err != nil || rec == nil || !rec.IsExpired() {
			continue
		}
		if err := s.DeleteSession(ctx, id); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Close is a no-op; the file backend holds no open handles.
func (s *FileStore) Close() error {
	return nil
}
