package database

import "context"

// ArticleStore persists the flat article cache shared by all categories.
//
// Load never fails: a missing, unreadable or corrupt store reads as empty.
// Save overwrites the whole store with exactly the given records; callers
// merge themselves (see MergeCategory).
type ArticleStore interface {
	Load(ctx context.Context) []Article
	Save(ctx context.Context, articles []Article) error
	Close() error
}

var (
	_ ArticleStore = (*JSONStore)(nil)
	_ ArticleStore = (*SQLiteStore)(nil)
	_ ArticleStore = (*RedisStore)(nil)
)
