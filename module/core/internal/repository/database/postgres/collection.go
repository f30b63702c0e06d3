package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv"
)

var _ kv.CollectionStore = (*CollectionRepo)(nil)

const createTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type CollectionRepo struct {
	db  *sql.DB
	key string
}

func NewCollectionRepo(db *sql.DB, key string) *CollectionRepo {
	if key == "" {
		key = kv.DefaultKey
	}
	return &CollectionRepo{db: db, key: key}
}

func (r *CollectionRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (r *CollectionRepo) Load(ctx context.Context) (domain.CollectedSet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, r.key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewCollectedSet(), nil
		}
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
		`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
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
