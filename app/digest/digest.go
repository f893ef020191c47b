// Package digest assembles a time-budgeted news digest for one category.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/feed"
	"github.com/quickdigest/quickdigest/app/metrics"
	"github.com/quickdigest/quickdigest/app/speech"
	"github.com/quickdigest/quickdigest/app/summarizer"
)

const DefaultLanguage = "en"

var (
	ErrNoContent       = errors.New("no articles found for category")
	ErrInvalidLanguage = errors.New("invalid language")
	errNoRenderer      = errors.New("audio rendering is not configured")
)

type Aggregator interface {
	Aggregate(ctx context.Context, category string, refresh bool, maxArticles int) ([]database.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, maxTokens int) string
}

type Request struct {
	Category string
	Minutes  int
	Language string
	Audio    bool
	Refresh  bool
}

type Summary struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

type Result struct {
	Category  string
	Minutes   int
	Summaries []Summary
	// AudioURL is empty unless audio was requested.
	AudioURL string
}

type Options struct {
	SummaryWorkers int
	BaseURL        string
}

type Service struct {
	aggregator Aggregator
	summarizer Summarizer
	renderer   speech.Renderer
	workers    int
	baseURL    string
}

// NewService wires the pipeline. renderer may be nil, in which case audio
// requests fail.
func NewService(aggregator Aggregator, summarizer Summarizer, renderer speech.Renderer, opts Options) *Service {
	if opts.SummaryWorkers <= 0 {
		opts.SummaryWorkers = 1
	}
	return &Service{
		aggregator: aggregator,
		summarizer: summarizer,
		renderer:   renderer,
		workers:    opts.SummaryWorkers,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
	}
}

func (s *Service) Build(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	result, err := s.build(ctx, req)

	metrics.DigestDuration.Observe(time.Since(start).Seconds())
	metrics.DigestRequests.WithLabelValues(status(err)).Inc()

	if err == nil {
		slog.Info("Digest built",
			"category", result.Category,
			"minutes", result.Minutes,
			"summaries", len(result.Summaries),
			"audio", result.AudioURL != "",
			"duration", time.Since(start))
	}

	return result, err
}

func (s *Service) build(ctx context.Context, req Request) (*Result, error) {
	category := feed.NormalizeCategory(req.Category)

	policy, err := summarizer.PolicyFor(req.Minutes)
	if err != nil {
		return nil, err
	}

	// Language only matters for narration.
	var lang string
	if req.Audio {
		if lang, err = ParseLanguage(req.Language); err != nil {
			return nil, err
		}
	}

	// Twice the target leaves room for entries that yield no usable text.
	articles, err := s.aggregator.Aggregate(ctx, category, req.Refresh, policy.Articles*2)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrNoContent
	}

	selected := articles[:min(policy.Articles, len(articles))]

	summaries, err := s.summarize(ctx, selected, policy.MaxSummaryTokens)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Category:  category,
		Minutes:   req.Minutes,
		Summaries: summaries,
	}

	if req.Audio {
		audioURL, err := s.renderAudio(ctx, summaries, lang)
		if err != nil {
			return nil, err
		}
		result.AudioURL = audioURL
	}

	return result, nil
}

func (s *Service) summarize(ctx context.Context, articles []database.Article, maxTokens int) ([]Summary, error) {
	summaries := make([]Summary, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, article := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summaries[i] = Summary{
				Title:     article.Title,
				Source:    article.Source,
				URL:       article.URL,
				Published: article.Published,
				Summary:   s.summarizer.Summarize(gctx, article.Text, maxTokens),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (s *Service) renderAudio(ctx context.Context, summaries []Summary, lang string) (string, error) {
	if s.renderer == nil {
		return "", errNoRenderer
	}

	path, err := s.renderer.Render(ctx, AudioText(summaries), lang)
	if err != nil {
		return "", fmt.Errorf("failed to render audio: %w", err)
	}

	return s.baseURL + "/audio/" + filepath.Base(path), nil
}

// AudioText is the narration script: "<title>. <summary>" per article,
// separated by blank lines.
func AudioText(summaries []Summary) string {
	parts := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		parts = append(parts, summary.Title+". "+summary.Summary)
	}
	return strings.Join(parts, "\n\n")
}

// ParseLanguage validates a BCP 47 code and returns its canonical form. An
// empty code means English.
func ParseLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage, nil
	}

	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}

	return tag.String(), nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, summarizer.ErrInvalidBudget), errors.Is(err, ErrInvalidLanguage):
		return "invalid"
	case errors.Is(err, ErrNoContent):
		return "no_content"
	default:
		return "error"
	}
}
