package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/metrics"
)

const (
	// MinArticleWords is the word count below which extracted text is dropped.
	MinArticleWords = 80
	// DefaultFeedLimit caps the entries taken from each feed.
	DefaultFeedLimit = 40
)

type FeedReader interface {
	Read(ctx context.Context, feedURLs []string, limitPerFeed int) []Entry
}

type TextExtractor interface {
	Extract(ctx context.Context, pageURL string) string
}

type AggregatorOptions struct {
	FeedLimit int
	Workers   int
}

// Aggregator turns a category into article records, reusing the cached slice
// unless a refresh is requested.
type Aggregator struct {
	store      database.ArticleStore
	reader     FeedReader
	extractor  TextExtractor
	categories *Categories
	feedLimit  int
	workers    int

	// serializes reload + merge + save
	mu sync.Mutex
}

func NewAggregator(store database.ArticleStore, reader FeedReader, extractor TextExtractor, categories *Categories, opts AggregatorOptions) *Aggregator {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = DefaultFeedLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if categories == nil {
		categories = DefaultCategories()
	}

	return &Aggregator{
		store:      store,
		reader:     reader,
		extractor:  extractor,
		categories: categories,
		feedLimit:  opts.FeedLimit,
		workers:    opts.Workers,
	}
}

func (a *Aggregator) Categories() *Categories {
	return a.categories
}

// Aggregate returns up to maxArticles records for category. A non-positive
// maxArticles collects every qualifying entry. The only error returned is a
// failure to persist the new slice (or cancellation of ctx).
func (a *Aggregator) Aggregate(ctx context.Context, category string, refresh bool, maxArticles int) ([]database.Article, error) {
	category = NormalizeCategory(category)

	if !refresh {
		cached := database.CategorySlice(a.store.Load(ctx), category)
		if len(cached) > 0 {
			metrics.Aggregations.WithLabelValues("cache_hit").Inc()
			slog.Debug("Serving cached articles", "category", category, "count", len(cached))
			return cached, nil
		}
	}

	entries := a.reader.Read(ctx, a.categories.Feeds(category), a.feedLimit)
	articles := a.collect(ctx, category, entries, maxArticles)

	// a cancelled pass would otherwise wipe the cached slice
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := a.replaceSlice(ctx, category, articles); err != nil {
		return nil, err
	}

	metrics.Aggregations.WithLabelValues("fetched").Inc()
	slog.Info("Category aggregated", "category", category, "entries", len(entries), "articles", len(articles))

	return articles, nil
}

func (a *Aggregator) collect(ctx context.Context, category string, entries []Entry, maxArticles int) []database.Article {
	seen := make(map[string]struct{}, len(entries))
	candidates := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Link == "" {
			continue
		}
		if _, ok := seen[entry.Link]; ok {
			continue
		}
		seen[entry.Link] = struct{}{}
		candidates = append(candidates, entry)
	}

	articles := []database.Article{}
	full := func() bool { return maxArticles > 0 && len(articles) >= maxArticles }

	for start := 0; start < len(candidates) && !full(); start += a.workers {
		if ctx.Err() != nil {
			break
		}

		window := candidates[start:min(start+a.workers, len(candidates))]
		texts := make([]string, len(window))

		var g errgroup.Group
		for i, entry := range window {
			g.Go(func() error {
				texts[i] = a.extractor.Extract(ctx, entry.Link)
				return nil
			})
		}
		_ = g.Wait()

		for i, entry := range window {
			if !HasEnoughWords(texts[i]) {
				slog.Debug("Skipping article with too little text", "url", entry.Link, "words", WordCount(texts[i]))
				continue
			}

			articles = append(articles, database.Article{
				Title:     entry.Title,
				URL:       entry.Link,
				Source:    entry.Source,
				Published: entry.Published,
				Text:      texts[i],
				Category:  category,
			})
			if full() {
				break
			}
		}
	}

	return articles
}

func (a *Aggregator) replaceSlice(ctx context.Context, category string, articles []database.Article) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	merged := database.MergeCategory(a.store.Load(ctx), category, articles)
	if err := a.store.Save(ctx, merged); err != nil {
		return fmt.Errorf("failed to save article cache: %w", err)
	}

	return nil
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

func HasEnoughWords(text string) bool {
	return WordCount(text) >= MinArticleWords
}
