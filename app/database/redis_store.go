package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cache as one JSON array under a single key, in the
// same format as JSONStore.
type RedisStore struct {
	client *redis.Client
	key    string
}

// ConnectRedis opens a client and verifies the connection.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) []Article {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Article{}
	}
	if err != nil {
		slog.Warn("Article cache unreadable, treating as empty", "backend", "redis", "key", s.key, "error", err)
		return []Article{}
	}

	articles, err := decodeArticles(data)
	if err != nil {
		slog.Warn("Article cache corrupt, treating as empty", "backend", "redis", "key", s.key, "error", err)
		return []Article{}
	}

	return articles
}

func (s *RedisStore) Save(ctx context.Context, articles []Article) error {
	data, err := encodeArticles(articles)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", s.key, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
