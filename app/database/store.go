package database

import (
	"context"
	"fmt"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type StoreOptions struct {
	Backend    string
	JSONPath   string
	SQLitePath string
	RedisAddr  string
	RedisKey   string
}

// OpenStore builds the article store selected by opts.Backend.
func OpenStore(ctx context.Context, opts StoreOptions) (ArticleStore, error) {
	switch opts.Backend {
	case BackendJSON, "":
		return NewJSONStore(opts.JSONPath), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendRedis:
		client, err := ConnectRedis(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q (valid: json, sqlite, redis)", opts.Backend)
	}
}
