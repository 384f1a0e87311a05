package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/erauner12/catalogview/internal/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

func getTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	pool, err := db.Open(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	store := NewStore(pool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if _, err := pool.Exec(context.Background(), `DELETE FROM catalog_snapshot`); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return pool
}

func TestStore_LoadEmpty(t *testing.T) {
	store := NewStore(getTestDB(t))

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	store := NewStore(getTestDB(t))
	ctx := context.Background()

	first := []catalog.Product{{ID: 1, Title: "Old", Price: 1}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := []catalog.Product{
		{ID: 2, Title: "Red Shirt", Price: 30, Category: &catalog.Category{ID: 1, Name: "Clothes"}, Images: []string{"a.png"}},
		{ID: 3, Title: "Hat", Price: 10.5},
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(snap.Products))
	}
	if snap.Products[0].CategoryName() != "Clothes" || snap.Products[1].Price != 10.5 {
		t.Errorf("unexpected products: %+v", snap.Products)
	}
	if snap.TakenAt.IsZero() {
		t.Error("expected TakenAt to be set")
	}
}

func TestStore_SaveEmpty(t *testing.T) {
	store := NewStore(getTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Products == nil || len(snap.Products) != 0 {
		t.Errorf("expected empty dataset, got %#v", snap.Products)
	}
}
