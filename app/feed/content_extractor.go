package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"

	"github.com/quickdigest/quickdigest/app/metrics"
)

// MinReadableLength is the character count a readability result must exceed
// to be accepted without trying the paragraph fallback.
const MinReadableLength = 200

var errNoText = errors.New("no text extracted")

// Extractor is one strategy for turning an article URL into plain text.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pageURL string) (string, error)
}

// ReadabilityExtractor runs the readability algorithm over the fetched page.
type ReadabilityExtractor struct {
	fetcher *Fetcher
}

func NewReadabilityExtractor(fetcher *Fetcher) *ReadabilityExtractor {
	return &ReadabilityExtractor{fetcher: fetcher}
}

func (e *ReadabilityExtractor) Name() string { return "readability" }

func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	data, err := e.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}

	return e.Run(data, pageURL)
}

// Run extracts the main text of already fetched HTML.
func (e *ReadabilityExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	parsedURL, _ := url.Parse(pageURL)

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	length := utf8.RuneCountInString(text)
	if length <= MinReadableLength {
		return "", fmt.Errorf("readable text too short: %d characters", length)
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", length)

	return text, nil
}

// ParagraphExtractor collects <p> text from the first <article> element, else
// the first element classed "article", else the whole document.
type ParagraphExtractor struct {
	fetcher *Fetcher
}

func NewParagraphExtractor(fetcher *Fetcher) *ParagraphExtractor {
	return &ParagraphExtractor{fetcher: fetcher}
}

func (e *ParagraphExtractor) Name() string { return "paragraphs" }

func (e *ParagraphExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	data, err := e.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}

	return e.Run(data)
}

func (e *ParagraphExtractor) Run(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find(".article").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return "", errNoText
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

// ExtractorChain tries each extractor in order and returns the first text
// produced, NFC-normalized. It never fails; an exhausted chain yields "".
type ExtractorChain struct {
	extractors []Extractor
}

func NewExtractorChain(extractors ...Extractor) *ExtractorChain {
	return &ExtractorChain{extractors: extractors}
}

func (c *ExtractorChain) Extract(ctx context.Context, pageURL string) string {
	for _, extractor := range c.extractors {
		text, err := extractor.Extract(ctx, pageURL)
		if err == nil {
			text = strings.TrimSpace(norm.NFC.String(text))
		}
		if err != nil || text == "" {
			metrics.Extractions.WithLabelValues(extractor.Name(), "failed").Inc()
			slog.Debug("Extraction strategy failed", "strategy", extractor.Name(), "url", pageURL, "error", err)
			continue
		}

		metrics.Extractions.WithLabelValues(extractor.Name(), "ok").Inc()
		return text
	}

	return ""
}
