package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/summarizer"
)

type fakeAggregator struct {
	articles []database.Article
	err      error

	category    string
	refresh     bool
	maxArticles int
}

func (a *fakeAggregator) Aggregate(ctx context.Context, category string, refresh bool, maxArticles int) ([]database.Article, error) {
	a.category = category
	a.refresh = refresh
	a.maxArticles = maxArticles
	if a.err != nil {
		return nil, a.err
	}
	return a.articles[:min(maxArticles, len(a.articles))], nil
}

type fakeSummarizer struct {
	mu        sync.Mutex
	maxTokens []int
}

func (s *fakeSummarizer) Summarize(ctx context.Context, text string, maxTokens int) string {
	// Vary completion order across articles
	time.Sleep(time.Duration(len(text)%5) * time.Millisecond)
	s.mu.Lock()
	s.maxTokens = append(s.maxTokens, maxTokens)
	s.mu.Unlock()
	return "sum:" + text
}

type fakeRenderer struct {
	text     string
	language string
	err      error
}

func (r *fakeRenderer) Render(ctx context.Context, text, language string) (string, error) {
	r.text = text
	r.language = language
	if r.err != nil {
		return "", r.err
	}
	return "/data/audio/0123456789abcdef0123456789abcdef.mp3", nil
}

func testArticles(n int) []database.Article {
	articles := make([]database.Article, n)
	for i := range articles {
		articles[i] = database.Article{
			Title:     fmt.Sprintf("Title %d", i),
			URL:       fmt.Sprintf("https://example.com/%d", i),
			Source:    "Wire",
			Published: "today",
			Text:      fmt.Sprintf("text-%d%s", i, strings.Repeat("x", i)),
			Category:  "economics",
		}
	}
	return articles
}

func TestBuildEconomicsTenMinutes(t *testing.T) {
	aggregator := &fakeAggregator{articles: testArticles(20)}
	summarizer := &fakeSummarizer{}
	service := NewService(aggregator, summarizer, nil, Options{SummaryWorkers: 3})

	result, err := service.Build(context.Background(), Request{Category: "Economics", Minutes: 10})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if aggregator.maxArticles != 16 {
		t.Errorf("Expected maxArticles 16, got: %d", aggregator.maxArticles)
	}
	if aggregator.category != "economics" {
		t.Errorf("Expected lowercase category, got: %s", aggregator.category)
	}
	if result.Category != "economics" || result.Minutes != 10 {
		t.Errorf("Expected economics/10, got: %s/%d", result.Category, result.Minutes)
	}
	if len(result.Summaries) != 8 {
		t.Fatalf("Expected 8 summaries, got: %d", len(result.Summaries))
	}

	for i, summary := range result.Summaries {
		article := aggregator.articles[i]
		if summary.Title != article.Title || summary.URL != article.URL {
			t.Errorf("Expected summary %d to match article %s, got: %s", i, article.Title, summary.Title)
		}
		if summary.Summary != "sum:"+article.Text {
			t.Errorf("Expected summary text for %s, got: %s", article.Title, summary.Summary)
		}
	}

	for _, maxTokens := range summarizer.maxTokens {
		if maxTokens != 80 {
			t.Errorf("Expected maxTokens 80, got: %d", maxTokens)
		}
	}
	if result.AudioURL != "" {
		t.Errorf("Expected no audio URL, got: %s", result.AudioURL)
	}
}

func TestBuildFewerArticlesThanPolicy(t *testing.T) {
	service := NewService(&fakeAggregator{articles: testArticles(3)}, &fakeSummarizer{}, nil, Options{})

	result, err := service.Build(context.Background(), Request{Category: "sports", Minutes: 30})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Summaries) != 3 {
		t.Errorf("Expected 3 summaries, got: %d", len(result.Summaries))
	}
}

func TestBuildErrors(t *testing.T) {
	aggregatorErr := errors.New("disk full")

	tests := []struct {
		name       string
		aggregator *fakeAggregator
		request    Request
		expected   error
	}{
		{"invalid minutes", &fakeAggregator{articles: testArticles(5)}, Request{Category: "general", Minutes: 7}, summarizer.ErrInvalidBudget},
		{"invalid language", &fakeAggregator{articles: testArticles(5)}, Request{Category: "general", Minutes: 5, Language: "123", Audio: true}, ErrInvalidLanguage},
		{"no content", &fakeAggregator{}, Request{Category: "general", Minutes: 5}, ErrNoContent},
		{"aggregation failure", &fakeAggregator{err: aggregatorErr}, Request{Category: "general", Minutes: 5}, aggregatorErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(tt.aggregator, &fakeSummarizer{}, nil, Options{})

			_, err := service.Build(context.Background(), tt.request)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got: %v", tt.expected, err)
			}
		})
	}
}

func TestBuildTextOnlyIgnoresLanguage(t *testing.T) {
	service := NewService(&fakeAggregator{articles: testArticles(2)}, &fakeSummarizer{}, nil, Options{})

	result, err := service.Build(context.Background(), Request{Category: "general", Minutes: 5, Language: "123"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Summaries) != 2 {
		t.Errorf("Expected 2 summaries, got: %d", len(result.Summaries))
	}
}

func TestBuildInvalidMinutesSkipsAggregation(t *testing.T) {
	aggregator := &fakeAggregator{articles: testArticles(5)}
	service := NewService(aggregator, &fakeSummarizer{}, nil, Options{})

	service.Build(context.Background(), Request{Category: "general", Minutes: 0})

	if aggregator.maxArticles != 0 {
		t.Error("Expected no aggregation for an invalid budget")
	}
}

func TestBuildWithAudio(t *testing.T) {
	renderer := &fakeRenderer{}
	aggregator := &fakeAggregator{articles: testArticles(2)}
	service := NewService(aggregator, &fakeSummarizer{}, renderer, Options{BaseURL: "https://digest.example.com/"})

	result, err := service.Build(context.Background(), Request{Category: "general", Minutes: 5, Language: "fr", Audio: true, Refresh: true})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !aggregator.refresh {
		t.Error("Expected refresh to be passed through")
	}

	expectedText := "Title 0. sum:text-0\n\nTitle 1. sum:text-1x"
	if renderer.text != expectedText {
		t.Errorf("Expected audio text %q, got: %q", expectedText, renderer.text)
	}
	if renderer.language != "fr" {
		t.Errorf("Expected language 'fr', got: %s", renderer.language)
	}

	expectedURL := "https://digest.example.com/audio/0123456789abcdef0123456789abcdef.mp3"
	if result.AudioURL != expectedURL {
		t.Errorf("Expected audio URL %s, got: %s", expectedURL, result.AudioURL)
	}
}

func TestBuildAudioFailure(t *testing.T) {
	renderErr := errors.New("tts unavailable")
	service := NewService(&fakeAggregator{articles: testArticles(2)}, &fakeSummarizer{}, &fakeRenderer{err: renderErr}, Options{})

	_, err := service.Build(context.Background(), Request{Category: "general", Minutes: 5, Audio: true})
	if !errors.Is(err, renderErr) {
		t.Errorf("Expected render error, got: %v", err)
	}
}

func TestBuildAudioWithoutRenderer(t *testing.T) {
	service := NewService(&fakeAggregator{articles: testArticles(2)}, &fakeSummarizer{}, nil, Options{})

	if _, err := service.Build(context.Background(), Request{Category: "general", Minutes: 5, Audio: true}); err == nil {
		t.Error("Expected error without a renderer")
	}
}

func TestParseLanguage(t *testing.T) {
	valid := map[string]string{
		"":      "en",
		"en":    "en",
		" fr ":  "fr",
		"zh-cn": "zh-CN",
		"pt-BR": "pt-BR",
	}
	for input, expected := range valid {
		lang, err := ParseLanguage(input)
		if err != nil {
			t.Errorf("Expected no error for %q, got: %v", input, err)
			continue
		}
		if lang != expected {
			t.Errorf("Expected %s for %q, got: %s", expected, input, lang)
		}
	}

	for _, input := range []string{"123", "not a language", "e"} {
		if _, err := ParseLanguage(input); !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("Expected ErrInvalidLanguage for %q, got: %v", input, err)
		}
	}
}

func TestAudioText(t *testing.T) {
	if text := AudioText(nil); text != "" {
		t.Errorf("Expected empty text, got: %q", text)
	}

	text := AudioText([]Summary{{Title: "A", Summary: "one"}, {Title: "B", Summary: "two"}})
	if text != "A. one\n\nB. two" {
		t.Errorf("Expected composed narration, got: %q", text)
	}
}
