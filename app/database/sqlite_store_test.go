package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer store.Close()

	if articles := store.Load(ctx); len(articles) != 0 {
		t.Errorf("Expected empty store, got %d records", len(articles))
	}

	articles := []Article{
		{Title: "B", URL: "https://example.com/b", Source: "Wire", Published: "Mon, 03 Jul 2023", Text: "two", Category: "sports"},
		{Title: "A", URL: "https://example.com/a", Text: "one", Category: "economics"},
		{Title: "C", URL: "https://example.com/c", Text: "three", Category: "sports"},
	}
	if err := store.Save(ctx, articles); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	loaded := store.Load(ctx)
	if len(loaded) != len(articles) {
		t.Fatalf("Expected %d records, got %d", len(articles), len(loaded))
	}
	for i := range articles {
		if loaded[i] != articles[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, articles[i], loaded[i])
		}
	}
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, []Article{{URL: "https://example.com/1", Text: "x", Category: "general"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}

	if loaded := store.Load(ctx); len(loaded) != 0 {
		t.Errorf("Expected empty store after saving nothing, got %d records", len(loaded))
	}
}

func TestSQLiteStoreReopenRunsMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "articles.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, []Article{{URL: "https://example.com/1", Text: "x", Category: "general"}}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Expected reopening to succeed, got: %v", err)
	}
	defer reopened.Close()

	if loaded := reopened.Load(ctx); len(loaded) != 1 {
		t.Errorf("Expected 1 persisted record, got %d", len(loaded))
	}
}
