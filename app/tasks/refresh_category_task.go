package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quickdigest/quickdigest/app/database"
)

// Refresher re-aggregates a category, bypassing the cached slice when
// refresh is set.
type Refresher interface {
	Aggregate(ctx context.Context, category string, refresh bool, maxArticles int) ([]database.Article, error)
}

type RefreshCategoryTask struct {
	Task
	refresher   Refresher
	maxArticles int
}

func NewRefreshCategoryTask(category string, refresher Refresher, maxArticles int) *RefreshCategoryTask {
	return &RefreshCategoryTask{
		Task:        NewTask(TaskTypeRefreshCategory, category),
		refresher:   refresher,
		maxArticles: maxArticles,
	}
}

func (t *RefreshCategoryTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := t.refresher.Aggregate(ctx, t.Category, true, t.maxArticles)
	if err != nil {
		return fmt.Errorf("failed to refresh category: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"category", t.Category,
		"duration", t.GetDuration(),
		"articles", len(articles))

	return nil
}
