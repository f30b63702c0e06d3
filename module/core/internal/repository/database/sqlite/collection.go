// Package sqlite stores the collected set in a local SQLite file, for
// single-device deployments without a server-side store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv"
)

var _ kv.CollectionStore = (*CollectionRepo)(nil)

const createTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

type CollectionRepo struct {
	db  *sql.DB
	key string
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path, key string) (*CollectionRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	if key == "" {
		key = kv.DefaultKey
	}
	return &CollectionRepo{db: db, key: key}, nil
}

func (r *CollectionRepo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *CollectionRepo) Load(ctx context.Context) (domain.CollectedSet, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewCollectedSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", r.key, err)
	}
	return kv.Decode([]byte(value))
}

func (r *CollectionRepo) Save(ctx context.Context, set domain.CollectedSet) error {
	body, err := kv.Encode(set)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		r.key, string(body),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.key, err)
	}
	return nil
}

func (r *CollectionRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
