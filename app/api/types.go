package api

import (
	"context"

	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/digest"
	"github.com/quickdigest/quickdigest/app/feed"
	"github.com/quickdigest/quickdigest/app/tasks"
)

type DigestBuilder interface {
	Build(ctx context.Context, req digest.Request) (*digest.Result, error)
}

var _ DigestBuilder = (*digest.Service)(nil)

type Handler struct {
	digests      DigestBuilder
	categories   *feed.Categories
	store        database.ArticleStore
	scheduler    tasks.TaskSchedulerInterface
	audioDir     string
	cacheBackend string
	version      string
}

type HandlerOptions struct {
	AudioDir     string
	CacheBackend string
	Version      string
}

// DigestRequest is the POST /api/digest body.
type DigestRequest struct {
	Category string `json:"category" binding:"required"`
	Minutes  int    `json:"minutes"`
	Language string `json:"language"`
	Audio    bool   `json:"audio"`
	Refresh  bool   `json:"refresh"`
}

type DigestResponse struct {
	Category  string           `json:"category"`
	Minutes   int              `json:"minutes"`
	Summaries []digest.Summary `json:"summaries"`
	AudioURL  *string          `json:"audio_url"`
}
