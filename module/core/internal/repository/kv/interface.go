package kv

import (
	"context"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

// DefaultKey is the key the collected set is stored under.
const DefaultKey = "collected_stickers"

// CollectionStore persists the collected set as a single record.
type CollectionStore interface {
	Load(ctx context.Context) (domain.CollectedSet, error)
	Save(ctx context.Context, set domain.CollectedSet) error
}
