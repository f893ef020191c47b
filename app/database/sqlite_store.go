package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the cache in a single table; position preserves the
// order of the flat sequence.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Database migrations applied", "path", path, "version", version, "dirty", dirty)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) []Article {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, url, source, published, text, category
		FROM articles
		ORDER BY position`)
	if err != nil {
		slog.Warn("Article cache unreadable, treating as empty", "backend", "sqlite", "error", err)
		return []Article{}
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.Title, &a.URL, &a.Source, &a.Published, &a.Text, &a.Category); err != nil {
			slog.Warn("Article cache corrupt, treating as empty", "backend", "sqlite", "error", err)
			return []Article{}
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("Article cache corrupt, treating as empty", "backend", "sqlite", "error", err)
		return []Article{}
	}

	return articles
}

func (s *SQLiteStore) Save(ctx context.Context, articles []Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles`); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (position, title, url, source, published, text, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range articles {
		if _, err := stmt.ExecContext(ctx, i, a.Title, a.URL, a.Source, a.Published, a.Text, a.Category); err != nil {
			return fmt.Errorf("failed to insert article %s: %w", a.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
