package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS/Atom/JSON feed bytes into at most limit entries, in feed
// order. A non-positive limit keeps every entry.
func (p *Parser) Run(data []byte, limit int) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item, feed.Title))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, feedTitle string) Entry {
	return Entry{
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Source:    strings.TrimSpace(cmp.Or(p.publisher(item), feedTitle)),
		Published: cmp.Or(item.Published, item.Updated),
	}
}

func (p *Parser) publisher(item *gofeed.Item) string {
	if item.DublinCoreExt != nil {
		for _, publisher := range item.DublinCoreExt.Publisher {
			if publisher = strings.TrimSpace(publisher); publisher != "" {
				return publisher
			}
		}
	}
	return ""
}
