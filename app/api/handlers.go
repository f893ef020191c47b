package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/digest"
	"github.com/quickdigest/quickdigest/app/feed"
	"github.com/quickdigest/quickdigest/app/speech"
	"github.com/quickdigest/quickdigest/app/summarizer"
	"github.com/quickdigest/quickdigest/app/tasks"
)

const invalidMinutesMessage = "Invalid minutes. Choose 5,10,20,30,60"

// NewHandler wires the HTTP handlers. scheduler may be nil when background
// refreshes are not available.
func NewHandler(digests DigestBuilder, categories *feed.Categories, store database.ArticleStore,
	scheduler tasks.TaskSchedulerInterface, opts HandlerOptions) *Handler {
	return &Handler{
		digests:      digests,
		categories:   categories,
		store:        store,
		scheduler:    scheduler,
		audioDir:     opts.AudioDir,
		cacheBackend: opts.CacheBackend,
		version:      opts.Version,
	}
}

func (h *Handler) CreateDigest(c *gin.Context) {
	var req DigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body", "error": err.Error()})
		return
	}

	result, err := h.digests.Build(c.Request.Context(), digest.Request{
		Category: req.Category,
		Minutes:  req.Minutes,
		Language: req.Language,
		Audio:    req.Audio,
		Refresh:  req.Refresh,
	})

	switch {
	case err == nil:
	case errors.Is(err, summarizer.ErrInvalidBudget):
		c.JSON(http.StatusBadRequest, gin.H{"detail": invalidMinutesMessage})
		return
	case errors.Is(err, digest.ErrInvalidLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid language"})
		return
	case errors.Is(err, digest.ErrNoContent):
		c.JSON(http.StatusNotFound, gin.H{"detail": "No articles found for category"})
		return
	default:
		slog.Error("Digest failed", "category", req.Category, "minutes", req.Minutes, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to build digest"})
		return
	}

	response := DigestResponse{
		Category:  result.Category,
		Minutes:   result.Minutes,
		Summaries: result.Summaries,
	}
	if result.AudioURL != "" {
		response.AudioURL = &result.AudioURL
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetAudio(c *gin.Context) {
	path, err := speech.ResolveFile(h.audioDir, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}

func (h *Handler) ListCategories(c *gin.Context) {
	names := h.categories.Names()

	categories := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		categories = append(categories, map[string]interface{}{
			"name":  name,
			"feeds": len(h.categories.Feeds(name)),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      len(categories),
		"minutes":    summarizer.Budgets(),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":     time.Now().In(time.Local).Format(time.RFC3339),
		"version":       h.version,
		"cache_backend": h.cacheBackend,
	}

	if h.store != nil {
		health["cached_articles"] = len(h.store.Load(c.Request.Context()))
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIRefreshCategory(c *gin.Context) {
	name := feed.NormalizeCategory(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category name parameter"})
		return
	}

	if !h.categories.Has(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Background tasks are not running"})
		return
	}

	taskID, err := h.scheduler.RefreshCategory(name)
	if err != nil {
		slog.Error("Error enqueueing refresh task", "category", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue refresh task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "Refresh task enqueued",
		"category": name,
		"task": gin.H{
			"id":   taskID,
			"type": tasks.TaskTypeRefreshCategory,
		},
	})
}
