package core

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/database/sqlite"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv/redis"
)

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Store persists the collected set under a single key.
type Store interface {
	Load(ctx context.Context) (domain.CollectedSet, error)
	Save(ctx context.Context, set domain.CollectedSet) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*redis.CollectionStore)(nil)
	_ Store = (*postgres.CollectionRepo)(nil)
	_ Store = (*sqlite.CollectionRepo)(nil)
)

type StoreOptions struct {
	Backend    string
	Key        string
	Redis      *goredis.Client
	DB         *sql.DB
	SQLitePath string
}

// OpenStore returns the collected set store for the configured backend. The
// returned close func releases only what OpenStore itself opened.
func OpenStore(ctx context.Context, opts StoreOptions) (Store, func() error, error) {
	key := opts.Key
	if key == "" {
		key = kv.DefaultKey
	}
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendRedis:
		if opts.Redis == nil {
			return nil, nil, fmt.Errorf("redis backend: client is required")
		}
		return redis.NewCollectionStore(opts.Redis, key), noop, nil
	case BackendPostgres:
		if opts.DB == nil {
			return nil, nil, fmt.Errorf("postgres backend: db is required")
		}
		repo := postgres.NewCollectionRepo(opts.DB, key)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}
		return repo, noop, nil
	case BackendSQLite:
		repo, err := sqlite.Open(opts.SQLitePath, key)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite backend: %w", err)
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
