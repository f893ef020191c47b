package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := ConnectRedis(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	store := NewRedisStore(client, "quickdigest:articles")
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	if articles := store.Load(ctx); len(articles) != 0 {
		t.Errorf("Expected empty store, got %d records", len(articles))
	}

	articles := []Article{
		{Title: "One", URL: "https://example.com/1", Text: "body", Category: "sports"},
		{Title: "Two", URL: "https://example.com/2", Text: "body", Category: "economics"},
	}
	if err := store.Save(ctx, articles); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	loaded := store.Load(ctx)
	if len(loaded) != 2 || loaded[0] != articles[0] || loaded[1] != articles[1] {
		t.Errorf("Expected %+v, got %+v", articles, loaded)
	}
}

func TestRedisStoreCorruptValueLoadsEmpty(t *testing.T) {
	store, mr := newTestRedisStore(t)

	if err := mr.Set("quickdigest:articles", "{not json"); err != nil {
		t.Fatal(err)
	}

	if articles := store.Load(context.Background()); len(articles) != 0 {
		t.Errorf("Expected corrupt value to load empty, got %d records", len(articles))
	}
}

func TestConnectRedisFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := ConnectRedis(context.Background(), addr)
	if err == nil {
		t.Error("Expected connection error for stopped server")
	}
}
