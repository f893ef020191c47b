package database

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MergeCategory replaces the slice of category in existing with fresh.
// Records of other categories keep their relative order and come first.
func MergeCategory(existing []Article, category string, fresh []Article) []Article {
	merged := make([]Article, 0, len(existing)+len(fresh))
	for _, article := range existing {
		if article.Category != category {
			merged = append(merged, article)
		}
	}
	return append(merged, fresh...)
}

// CategorySlice returns the cached records of one category in store order.
func CategorySlice(existing []Article, category string) []Article {
	var slice []Article
	for _, article := range existing {
		if article.Category == category {
			slice = append(slice, article)
		}
	}
	return slice
}

func encodeArticles(articles []Article) ([]byte, error) {
	if articles == nil {
		articles = []Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return nil, fmt.Errorf("failed to marshal articles: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeArticles(data []byte) ([]Article, error) {
	if len(data) == 0 {
		return []Article{}, nil
	}

	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal articles: %w", err)
	}
	if articles == nil {
		articles = []Article{}
	}
	return articles, nil
}
