package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

func newTestStore(t *testing.T) (*CollectionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCollectionStore(client, ""), mr
}

func TestLoad_MissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d entries", set.Len())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, mr := newTestStore(t)

	set := domain.NewCollectedSet()
	set.Add("Area1", 3)
	set.Add("Area1", 5)
	set.Add("CursoDagua", 4)

	if err := store.Save(context.Background(), set); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := mr.Get("collected_stickers")
	if err != nil {
		t.Fatalf("expected key to be stored: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty value")
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(set) {
		t.Errorf("expected %v, got %v", set.Record(), got.Record())
	}
}

func TestSaveLoad_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Save(context.Background(), domain.NewCollectedSet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("expected empty set, got %d entries", got.Len())
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	if err := mr.Set("collected_stickers", "not json"); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSave_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	set := domain.NewCollectedSet()
	set.Add("Area1", 3)
	if err := store.Save(context.Background(), set); err == nil {
		t.Fatal("expected error")
	}
}
