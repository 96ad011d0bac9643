// Package sqlite provides a SQLite-backed StateStore for the local runner.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pickmydegree/internal/ports"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store is a small key-value table holding saved game states.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
}

// Open opens (and creates if needed) the SQLite database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// StateStore scopes the store to one key.
func (s *Store) StateStore(key string) *StateStore {
	return &StateStore{store: s, key: key}
}

// StateStore adapts one row of the kv table to ports.StateStore. Failures are logged and
// swallowed.
type StateStore struct {
	store *Store
	key   string
}

func (a *StateStore) Load(ctx context.Context) ([]byte, bool) {
	value, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.store.logger.Warn("load state failed", zap.String("key", a.key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if !json.Valid(value) {
		a.store.logger.Warn("stored state is not valid JSON", zap.String("key", a.key))
		return nil, false
	}
	return value, true
}

func (a *StateStore) Save(ctx context.Context, blob []byte) {
	if err := a.store.Put(ctx, a.key, blob); err != nil {
		a.store.logger.Warn("save state failed", zap.String("key", a.key), zap.Error(err))
		return
	}
	a.store.logger.Debug("state saved", zap.String("key", a.key), zap.Int("bytes", len(blob)))
}

func (a *StateStore) Clear(ctx context.Context) {
	if err := a.store.Delete(ctx, a.key); err != nil {
		a.store.logger.Warn("clear state failed", zap.String("key", a.key), zap.Error(err))
	}
}

var _ ports.StateStore = (*StateStore)(nil)
