package feed

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultCategory = "general"

var defaultCategoryFeeds = map[string][]string{
	"economics": {
		"https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms",
		"https://www.hindustantimes.com/rss/business/rssfeed.xml",
	},
	"sports": {
		"https://timesofindia.indiatimes.com/rssfeeds/4719148.cms",
		"https://www.hindustantimes.com/rss/sports/rssfeed.xml",
	},
	"politics": {
		"https://timesofindia.indiatimes.com/rssfeeds/-2128936835.cms",
		"https://www.thehindu.com/news/national/feeder/default.rss",
	},
	"technology": {
		"https://timesofindia.indiatimes.com/rssfeeds/-2128936835.cms",
	},
	"general": {
		"https://timesofindia.indiatimes.com/rssfeeds/-2128905795.cms",
		"https://www.thehindu.com/feeder/default.rss",
	},
}

// Categories maps category names to feed URLs. It is read-only after
// construction.
type Categories struct {
	feeds map[string][]string
}

func DefaultCategories() *Categories {
	return newCategories(defaultCategoryFeeds)
}

func newCategories(feeds map[string][]string) *Categories {
	copied := make(map[string][]string, len(feeds))
	for name, urls := range feeds {
		copied[NormalizeCategory(name)] = slices.Clone(urls)
	}
	return &Categories{feeds: copied}
}

// LoadCategories merges a YAML category table over the built-in one. An empty
// path or a missing file yields the built-in table.
func LoadCategories(path string) (*Categories, error) {
	if path == "" {
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("Categories file not found, using built-in table", "path", path)
		return DefaultCategories(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	merged := make(map[string][]string, len(defaultCategoryFeeds)+len(config.Categories))
	for name, urls := range defaultCategoryFeeds {
		merged[name] = urls
	}
	for name, urls := range config.Categories {
		if len(urls) == 0 {
			return nil, fmt.Errorf("invalid categories %s: category %s has no feeds", path, name)
		}
		merged[NormalizeCategory(name)] = urls
	}

	categories := newCategories(merged)
	if err := categories.validate(); err != nil {
		return nil, fmt.Errorf("invalid categories %s: %w", path, err)
	}

	slog.Debug("Categories loaded", "path", path, "count", len(categories.feeds))
	return categories, nil
}

func (c *Categories) validate() error {
	if len(c.feeds[DefaultCategory]) == 0 {
		return fmt.Errorf("category %q with at least one feed is required", DefaultCategory)
	}

	for name, urls := range c.feeds {
		if name == "" {
			return fmt.Errorf("category name is required")
		}
		for i, u := range urls {
			if strings.TrimSpace(u) == "" {
				return fmt.Errorf("category %s: feed URL at index %d is empty", name, i)
			}
		}
	}

	return nil
}

// Feeds returns the feed URLs for category, falling back to the general list
// for unknown names. Lookup ignores case.
func (c *Categories) Feeds(category string) []string {
	if urls, ok := c.feeds[NormalizeCategory(category)]; ok {
		return slices.Clone(urls)
	}
	return slices.Clone(c.feeds[DefaultCategory])
}

func (c *Categories) Has(category string) bool {
	_, ok := c.feeds[NormalizeCategory(category)]
	return ok
}

// Names returns the configured category names, sorted.
func (c *Categories) Names() []string {
	names := make([]string, 0, len(c.feeds))
	for name := range c.feeds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
