package feed

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Reader fetches several feeds concurrently and returns their entries in
// feed-then-entry order. A failing feed contributes nothing.
type Reader struct {
	fetcher *Fetcher
	parser  *Parser
}

func NewReader(fetcher *Fetcher, parser *Parser) *Reader {
	return &Reader{
		fetcher: fetcher,
		parser:  parser,
	}
}

func (r *Reader) Read(ctx context.Context, feedURLs []string, limitPerFeed int) []Entry {
	results := make([][]Entry, len(feedURLs))

	var g errgroup.Group
	for i, feedURL := range feedURLs {
		g.Go(func() error {
			entries, err := r.readFeed(ctx, feedURL, limitPerFeed)
			if err != nil {
				slog.Warn("Failed to read feed", "url", feedURL, "error", err)
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	var all []Entry
	okCount := 0
	for _, entries := range results {
		if entries != nil {
			okCount++
		}
		all = append(all, entries...)
	}

	slog.Debug("Feeds read", "feeds", len(feedURLs), "ok", okCount, "entries", len(all))
	return all
}

func (r *Reader) readFeed(ctx context.Context, feedURL string, limit int) ([]Entry, error) {
	data, err := r.fetcher.FetchFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	entries, err := r.parser.Run(data, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}
