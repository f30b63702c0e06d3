package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv"
)

var _ kv.CollectionStore = (*CollectionStore)(nil)

type CollectionStore struct {
	client *goredis.Client
	key    string
}

func NewCollectionStore(client *goredis.Client, key string) *CollectionStore {
	if key == "" {
		key = kv.DefaultKey
	}
	return &CollectionStore{client: client, key: key}
}

func (s *CollectionStore) Load(ctx context.Context) (domain.CollectedSet, error) {
	body, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.NewCollectedSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return kv.Decode(body)
}

func (s *CollectionStore) Save(ctx context.Context, set domain.CollectedSet) error {
	body, err := kv.Encode(set)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, body, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *CollectionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
