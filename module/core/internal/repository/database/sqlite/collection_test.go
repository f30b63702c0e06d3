package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

func openTestRepo(t *testing.T, path string) *CollectionRepo {
	t.Helper()
	repo, err := Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("  ", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_Empty(t *testing.T) {
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "stickers.sqlite"))

	set, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d entries", set.Len())
	}
}

func TestSaveLoad_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stickers.sqlite")
	ctx := context.Background()

	set := domain.NewCollectedSet()
	set.Add("Area1", 3)
	set.Add("Serrapilheira", 4)
	set.Add("Serrapilheira", 5)

	first, err := Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}
	// overwrite with a superset to exercise the upsert path
	set.Add("Dossel", 3)
	if err := first.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = first.Close()

	second := openTestRepo(t, path)
	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(set) {
		t.Errorf("expected %v, got %v", set.Record(), got.Record())
	}
}
